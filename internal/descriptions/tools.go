package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Loading Tools
	BankLoadFileDescription = `Load a question-bank PDF and recognize its questions into the active set.

**When to use:** Starting work with a new question bank, or switching from one bank to another.

**Why it's useful:** Runs the full recognition pipeline (question segmentation, option parsing, answer-key matching) in one step and keeps the result in memory for fast follow-up queries and exports.

**Examples:**
• Load an exam bank: "Load /banks/civil-law-2024.pdf and tell me how many questions it found"
• Refresh after edits: "Reload practice-set.pdf to pick up the corrected answer key"
• Start a review session: "Load midterm-bank.pdf so we can go through flagged questions"

**Common workflows:**
1. Review Session: Load bank → Check stats → Show flagged questions → Export clean cards
2. Export Pipeline: Load bank → Filter by type → Export CSV or APKG → Import into Anki
3. Quality Check: Load bank → List needs-review questions → Fix source PDF → Reload

**Best practices:** Loading replaces the previous set entirely; check bank_stats afterwards to see how many questions need review before exporting.`

	BankListQuestionsDescription = `List recognized questions with optional filtering and range selection.

**When to use:** Need an overview of the loaded bank, or a specific slice of it by status, type, or question numbers.

**Why it's useful:** Combines status filters (all, needsReview, single, multiple) with range expressions like "1-10,15,20-25" so you can target exactly the questions you care about.

**Examples:**
• Review queue: "List all questions that need review"
• Spot check: "Show questions 1-10 and 50-60 from the loaded bank"
• Type audit: "List only the multiple-choice questions"

**Common workflows:**
1. Quality Review: List needsReview → Inspect each with bank_show_question → Fix or accept
2. Targeted Export: List a range → Verify contents → Export just those questions
3. Bank Audit: List by type → Compare counts with the source document → Spot gaps

**Best practices:** Combine filter and range to narrow large banks; range numbers refer to the question indices printed in the source document. Use limit to cap very long listings.`

	BankShowQuestionDescription = `Show one question in full detail: stem, options, answer, explanation, and recognition status.

**When to use:** Inspecting a specific question, especially one flagged for review.

**Why it's useful:** Shows everything recognition knows about the question, including why it was flagged and how its answer was associated (explicit key entry, inline answer, or position).

**Examples:**
• Investigate a flag: "Show question 17 and explain why it needs review"
• Verify an answer: "Show question 3 so I can check the answer against the key"
• Check explanations: "Show question 42 including its explanation text"

**Common workflows:**
1. Flag Triage: List needsReview → Show each flagged question → Decide fix or accept
2. Answer Verification: Show question → Compare with source PDF → Correct if needed
3. Card Preview: Show question → Imagine the card front/back → Adjust export options

**Best practices:** The review reasons name the exact anomaly (missing answer, too few options, unknown answer label); use them to locate the problem in the source PDF.`

	BankStatsDescription = `Summarize the loaded question bank: totals, type breakdown, review count, and source info.

**When to use:** Right after loading a bank, or any time you need a health check before exporting.

**Why it's useful:** One call tells you how complete recognition was and how much manual review the bank needs.

**Examples:**
• Post-load check: "How many questions were recognized and how many need review?"
• Export readiness: "Give me the stats so I know if the bank is clean enough to export"
• Bank comparison: "Stats for this bank versus the one I loaded earlier"

**Common workflows:**
1. Load Validation: Load bank → Check stats → Investigate if review count is high
2. Progress Tracking: Fix source PDF → Reload → Compare stats → Repeat until clean
3. Reporting: Gather stats → Summarize bank quality → Share with question authors

**Best practices:** A high needs-review count usually points to an unusual answer-key format in the source; inspect a few flagged questions to find the pattern.`

	BankExportCSVDescription = `Export recognized questions as an Anki-importable CSV file.

**When to use:** Want flashcards in a simple, editable format, or plan to import through Anki's text importer.

**Why it's useful:** Produces a two-column front/back CSV with a UTF-8 BOM so spreadsheet tools and Anki both read Chinese text correctly.

**Examples:**
• Quick export: "Export the loaded bank to /out/cards.csv"
• Filtered export: "Export only questions 1-50 that don't need review"
• Editable deck: "Export to CSV so I can tweak card text before importing"

**Common workflows:**
1. Simple Deck: Load bank → Export CSV → Import into Anki with the text importer
2. Curated Deck: Filter and range-select → Export CSV → Edit in a spreadsheet → Import
3. Backup: Export CSV → Keep alongside the source PDF for later regeneration

**Best practices:** Card fronts contain the numbered stem plus all options; multiple-choice backs label all correct options so nothing is ambiguous during review.`

	BankExportAPKGDescription = `Export recognized questions as a complete Anki package (.apkg) with styled cards.

**When to use:** Want a ready-to-import Anki deck with formatting, explanations, and question-type metadata.

**Why it's useful:** Builds the full Anki collection directly, with stable deck and note identifiers so re-exporting the same bank updates cards in place instead of duplicating them.

**Examples:**
• One-step deck: "Export the loaded bank as exam-prep.apkg with deck name '法考真题'"
• Updated deck: "Re-export after fixing the answer key; existing cards should update"
• Filtered deck: "Export only the multiple-choice questions as their own deck"

**Common workflows:**
1. Deck Publishing: Load bank → Check stats → Export APKG → Double-click to import
2. Iterative Cleanup: Export → Review cards in Anki → Fix source → Re-export to update
3. Deck Splitting: Filter by type or range → Export separate APKG per subset

**Best practices:** Deck identity derives from the deck name; keep the name stable across exports of the same bank so Anki merges instead of duplicating.`

	// Discovery Tools
	BankSearchDirectoryDescription = `Discover question-bank PDFs across directories with fuzzy filename search.

**When to use:** Need to find specific banks by name patterns, explore a directory of source PDFs, or build a batch worklist.

**Why it's useful:** Quickly locates candidate files without manual browsing, supports fuzzy matching for partial names.

**Examples:**
• Find a subject: "Search /banks/ for files containing '刑法' or '2024'"
• Build a worklist: "List all PDFs under /downloads/exams/ to pick which to load"
• Locate a bank: "Find the civil-procedure bank somewhere under /archive/"

**Common workflows:**
1. Batch Conversion: Search directory → Review matches → Convert each to a deck
2. Bank Selection: Explore directory → Compare file names and sizes → Load the right one
3. Inventory: Search with no query → Catalog all available banks

**Best practices:** Use fuzzy search for partial matches; results are capped by the limit parameter, so tighten the query in large archives.`

	// Utility Tools
	BankServerInfoDescription = `Get real-time server status, the loaded bank, available tools, and configuration.

**When to use:** Starting a session, troubleshooting issues, or checking what is currently loaded.

**Why it's useful:** Provides complete overview of server capabilities, current configuration, and the active question set for informed decision-making.

**Examples:**
• Session start: "Check server info to see the configured directory and tool list"
• State check: "What bank is currently loaded and when was it parsed?"
• Troubleshooting: "Check server info to diagnose why files aren't being found"

**Common workflows:**
1. Session Startup: Check server info → Verify configuration → Load a bank
2. Debugging: Review server status → Check directory paths → Verify tool availability
3. Handoff: Check loaded bank → Summarize state → Continue a previous session

**Best practices:** Run at the start of sessions; the configured directory bounds all file access, so confirm it covers your source PDFs.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"bank_load_file":        BankLoadFileDescription,
	"bank_list_questions":   BankListQuestionsDescription,
	"bank_show_question":    BankShowQuestionDescription,
	"bank_stats":            BankStatsDescription,
	"bank_export_csv":       BankExportCSVDescription,
	"bank_export_apkg":      BankExportAPKGDescription,
	"bank_search_directory": BankSearchDirectoryDescription,
	"bank_server_info":      BankServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
