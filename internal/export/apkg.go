package export

import (
	"archive/zip"
	"crypto/md5"
	"crypto/sha1"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cjh28/pdf-to-anki/internal/quiz"
)

// ankiModelID identifies the note model inside exported decks. Keeping it
// fixed lets Anki update cards in place on re-import instead of duplicating
// them.
const ankiModelID = 1607392327

// ankiSchemaVersion is the collection schema version understood by every
// Anki release that reads legacy .anki2 packages.
const ankiSchemaVersion = 11

// defaultDeckName is used when the caller does not name the deck
const defaultDeckName = "PDF题目"

// collectionSchema is the legacy Anki collection layout: one col row plus
// notes, cards, and the (empty on export) revlog and graves tables.
const collectionSchema = `
CREATE TABLE col (
    id     integer primary key,
    crt    integer not null,
    mod    integer not null,
    scm    integer not null,
    ver    integer not null,
    dty    integer not null,
    usn    integer not null,
    ls     integer not null,
    conf   text not null,
    models text not null,
    decks  text not null,
    dconf  text not null,
    tags   text not null
);
CREATE TABLE notes (
    id    integer primary key,
    guid  text not null,
    mid   integer not null,
    mod   integer not null,
    usn   integer not null,
    tags  text not null,
    flds  text not null,
    sfld  text not null,
    csum  integer not null,
    flags integer not null,
    data  text not null
);
CREATE TABLE cards (
    id     integer primary key,
    nid    integer not null,
    did    integer not null,
    ord    integer not null,
    mod    integer not null,
    usn    integer not null,
    type   integer not null,
    queue  integer not null,
    due    integer not null,
    ivl    integer not null,
    factor integer not null,
    reps   integer not null,
    lapses integer not null,
    left   integer not null,
    odue   integer not null,
    odid   integer not null,
    flags  integer not null,
    data   text not null
);
CREATE TABLE revlog (
    id      integer primary key,
    cid     integer not null,
    usn     integer not null,
    ease    integer not null,
    ivl     integer not null,
    lastIvl integer not null,
    factor  integer not null,
    time    integer not null,
    type    integer not null
);
CREATE TABLE graves (
    usn  integer not null,
    oid  integer not null,
    type integer not null
);
CREATE INDEX ix_notes_usn ON notes (usn);
CREATE INDEX ix_cards_usn ON cards (usn);
CREATE INDEX ix_revlog_usn ON revlog (usn);
CREATE INDEX ix_cards_nid ON cards (nid);
CREATE INDEX ix_cards_sched ON cards (did, queue, due);
CREATE INDEX ix_revlog_cid ON revlog (cid);
CREATE INDEX ix_notes_csum ON notes (csum);
`

const cardFrontTemplate = `<div class="question-card">
    <div class="question-text">{{Front}}</div>
</div>
<div class="question-type-data" style="display:none;">{{QuestionType}}</div>`

const cardBackTemplate = `<div class="question-card">
    <div class="question-text">{{Front}}</div>
    <hr id="answer">
    <div class="correct-answer-box">
        <div class="answer-box-label">正确答案</div>
        <div class="answer-box-content">{{Back}}</div>
    </div>
    {{#Explanation}}
    <div class="explanation-section">
        <div class="explanation-title">【解析】</div>
        <div class="explanation-content">{{Explanation}}</div>
    </div>
    {{/Explanation}}
</div>`

const cardCSS = `.question-card {
    font-family: "Microsoft YaHei", "SimHei", "PingFang SC", Arial, sans-serif;
    font-size: 16px;
    line-height: 1.8;
    padding: 15px;
    max-width: 800px;
    margin: 0 auto;
}
.question-text {
    margin-bottom: 15px;
}
.option {
    display: block;
    padding: 8px 15px;
    margin: 6px 0;
    border: 2px solid #81C784;
    border-radius: 8px;
    background: #E8F5E9;
}
.option-label {
    font-weight: bold;
    margin-right: 8px;
}
.correct-answer-box {
    background: #E8F5E9;
    border: 2px solid #4CAF50;
    border-radius: 10px;
    padding: 15px;
    text-align: center;
    margin: 20px auto;
    max-width: 240px;
}
.answer-box-label {
    font-size: 12px;
    color: #666;
    margin-bottom: 8px;
}
.answer-box-content {
    font-size: 24px;
    font-weight: bold;
    color: #2E7D32;
}
.explanation-section {
    background: #FFF8E1;
    padding: 15px 18px;
    border-radius: 8px;
    margin-top: 15px;
    border-left: 4px solid #FFC107;
    word-wrap: break-word;
}
.explanation-title {
    font-weight: bold;
    color: #F57C00;
    margin-bottom: 10px;
}
.explanation-content {
    color: #5D4037;
    line-height: 2.0;
    white-space: pre-wrap;
    word-break: break-word;
}
hr#answer {
    border: none;
    border-top: 2px dashed #81C784;
    margin: 20px 0;
}`

// APKGExporter builds an Anki package: a SQLite collection with one deck and
// one note per question, zipped together with an empty media manifest.
type APKGExporter struct {
	deckName string
}

// NewAPKGExporter creates an APKG exporter for the given deck name
func NewAPKGExporter(deckName string) *APKGExporter {
	if deckName == "" {
		deckName = defaultDeckName
	}
	return &APKGExporter{deckName: deckName}
}

// DeckName returns the deck name cards will be filed under
func (e *APKGExporter) DeckName() string {
	return e.deckName
}

// Export writes the questions as a .apkg file at outputPath
func (e *APKGExporter) Export(questions []quiz.Question, outputPath string) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp("", "collection-*.anki2")
	if err != nil {
		return fmt.Errorf("failed to create temporary collection: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := e.writeCollection(tmpPath, questions); err != nil {
		return err
	}

	return e.writePackage(tmpPath, outputPath)
}

// writeCollection populates the .anki2 SQLite database at dbPath
func (e *APKGExporter) writeCollection(dbPath string, questions []quiz.Question) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open collection database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("failed to create collection schema: %w", err)
	}

	now := time.Now()
	deckID := DeckID(e.deckName)

	if err := e.insertCol(db, now, deckID); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	base := now.UnixMilli()
	for i := range questions {
		q := &questions[i]
		noteID := base + int64(i)
		cardID := noteID + int64(len(questions))

		front := formatFrontHTML(q)
		back := formatBackHTML(q)
		flds := strings.Join([]string{front, back, escapeHTML(q.Explanation), string(q.Type)}, "\x1f")

		_, err = tx.Exec(
			`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
			 VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`,
			noteID, NoteGUID(q), ankiModelID, now.Unix(), flds, front, fieldChecksum(front),
		)
		if err != nil {
			return fmt.Errorf("failed to insert note %d: %w", q.Index, err)
		}

		_, err = tx.Exec(
			`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl,
			                    factor, reps, lapses, left, odue, odid, flags, data)
			 VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
			cardID, noteID, deckID, now.Unix(), i+1,
		)
		if err != nil {
			return fmt.Errorf("failed to insert card %d: %w", q.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit collection: %w", err)
	}
	return nil
}

func (e *APKGExporter) insertCol(db *sql.DB, now time.Time, deckID int64) error {
	models, err := json.Marshal(map[string]any{
		strconv.Itoa(ankiModelID): noteModelJSON(deckID, now),
	})
	if err != nil {
		return fmt.Errorf("failed to encode note model: %w", err)
	}

	decks, err := json.Marshal(map[string]any{
		"1":                           deckJSON(1, "Default", now),
		strconv.FormatInt(deckID, 10): deckJSON(deckID, e.deckName, now),
	})
	if err != nil {
		return fmt.Errorf("failed to encode decks: %w", err)
	}

	conf, err := json.Marshal(map[string]any{
		"activeDecks":   []int64{deckID},
		"addToCur":      true,
		"collapseTime":  1200,
		"curDeck":       deckID,
		"curModel":      strconv.Itoa(ankiModelID),
		"dueCounts":     true,
		"estTimes":      true,
		"newBury":       true,
		"newSpread":     0,
		"nextPos":       1,
		"sortBackwards": false,
		"sortType":      "noteFld",
		"timeLim":       0,
	})
	if err != nil {
		return fmt.Errorf("failed to encode collection config: %w", err)
	}

	dconf, err := json.Marshal(map[string]any{"1": deckConfJSON(now)})
	if err != nil {
		return fmt.Errorf("failed to encode deck config: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		dayStart(now), now.UnixMilli(), now.UnixMilli(), ankiSchemaVersion,
		string(conf), string(models), string(decks), string(dconf),
	)
	if err != nil {
		return fmt.Errorf("failed to insert collection row: %w", err)
	}
	return nil
}

// writePackage zips the collection database and the media manifest into the
// final .apkg file.
func (e *APKGExporter) writePackage(dbPath, outputPath string) error {
	data, err := os.ReadFile(dbPath)
	if err != nil {
		return fmt.Errorf("failed to read collection database: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create APKG file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("collection.anki2")
	if err != nil {
		return fmt.Errorf("failed to add collection to package: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write collection to package: %w", err)
	}

	w, err = zw.Create("media")
	if err != nil {
		return fmt.Errorf("failed to add media manifest to package: %w", err)
	}
	if _, err := w.Write([]byte("{}")); err != nil {
		return fmt.Errorf("failed to write media manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize APKG file: %w", err)
	}
	return nil
}

// DeckID derives a stable deck identifier from the deck name, so repeated
// exports of the same deck merge instead of multiplying.
func DeckID(deckName string) int64 {
	sum := md5.Sum([]byte(deckName))
	id, _ := strconv.ParseInt(fmt.Sprintf("%x", sum)[:8], 16, 64)
	return id
}

// NoteGUID derives a stable note identifier from the question identity, so
// re-importing an updated deck revises existing notes.
func NoteGUID(q *quiz.Question) string {
	content := fmt.Sprintf("%d_%s", q.Index, q.Text)
	return fmt.Sprintf("%x", md5.Sum([]byte(content)))[:10]
}

// fieldChecksum is the first 8 hex digits of the SHA1 of the sort field,
// stored as an integer; Anki uses it for duplicate detection.
func fieldChecksum(sfld string) int64 {
	sum := sha1.Sum([]byte(sfld))
	n, _ := strconv.ParseInt(fmt.Sprintf("%x", sum)[:8], 16, 64)
	return n
}

// dayStart returns the local-midnight epoch Anki uses as collection creation
func dayStart(now time.Time) int64 {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Unix()
}

func formatFrontHTML(q *quiz.Question) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="question-title"><strong>%d.</strong> %s</div>`, q.Index, escapeHTML(q.Text))
	sb.WriteString("\n<div class=\"options\">")
	for _, opt := range q.Options {
		fmt.Fprintf(&sb, "\n<div class=\"option\"><span class=\"option-label\">%s.</span> <span class=\"option-content\">%s</span></div>",
			opt.Label, escapeHTML(opt.Text))
	}
	sb.WriteString("\n</div>")
	return sb.String()
}

func formatBackHTML(q *quiz.Question) string {
	switch {
	case q.Type == quiz.QuestionTypeMultiple:
		labels := make([]string, len(q.AnswerLabels))
		copy(labels, q.AnswerLabels)
		sort.Strings(labels)
		return fmt.Sprintf(`<div class="answer-label">【多选题】正确答案：</div>
<div class="correct-answers">%s</div>`, strings.Join(labels, "、"))
	case len(q.AnswerLabels) > 0:
		return fmt.Sprintf(`<div class="answer-label">正确答案：</div>
<div class="correct-answers">%s</div>`, q.AnswerLabels[0])
	default:
		return `<div class="correct-answers">答案：未知</div>`
	}
}

// escapeHTML escapes field text for the card templates, turning newlines
// into explicit breaks so explanations keep their layout.
func escapeHTML(text string) string {
	if text == "" {
		return ""
	}
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\n", "<br>",
	)
	return r.Replace(text)
}

func noteModelJSON(deckID int64, now time.Time) map[string]any {
	fields := make([]map[string]any, 0, 4)
	for i, name := range []string{"Front", "Back", "Explanation", "QuestionType"} {
		fields = append(fields, map[string]any{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []string{},
		})
	}

	return map[string]any{
		"id":   ankiModelID,
		"name": "PDF题目卡片模板",
		"did":  deckID,
		"flds": fields,
		"tmpls": []map[string]any{
			{
				"name":  "题目卡片",
				"ord":   0,
				"qfmt":  cardFrontTemplate,
				"afmt":  cardBackTemplate,
				"bqfmt": "",
				"bafmt": "",
				"did":   nil,
			},
		},
		"css":       cardCSS,
		"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
		"latexPost": "\\end{document}",
		"mod":       now.Unix(),
		"req":       []any{[]any{0, "any", []int{0}}},
		"sortf":     0,
		"tags":      []string{},
		"type":      0,
		"usn":       -1,
		"vers":      []any{},
	}
}

func deckJSON(id int64, name string, now time.Time) map[string]any {
	return map[string]any{
		"id":        id,
		"name":      name,
		"desc":      "",
		"collapsed": false,
		"conf":      1,
		"dyn":       0,
		"extendNew": 0,
		"extendRev": 50,
		"lrnToday":  []int{0, 0},
		"newToday":  []int{0, 0},
		"revToday":  []int{0, 0},
		"timeToday": []int{0, 0},
		"mod":       now.Unix(),
		"usn":       -1,
	}
}

func deckConfJSON(now time.Time) map[string]any {
	return map[string]any{
		"id":       1,
		"name":     "Default",
		"autoplay": true,
		"lapse": map[string]any{
			"delays":      []int{10},
			"leechAction": 0,
			"leechFails":  8,
			"minInt":      1,
			"mult":        0,
		},
		"maxTaken": 60,
		"mod":      now.Unix(),
		"new": map[string]any{
			"bury":          true,
			"delays":        []int{1, 10},
			"initialFactor": 2500,
			"ints":          []int{1, 4, 7},
			"order":         1,
			"perDay":        20,
			"separate":      true,
		},
		"replayq": true,
		"rev": map[string]any{
			"bury":     true,
			"ease4":    1.3,
			"fuzz":     0.05,
			"ivlFct":   1,
			"maxIvl":   36500,
			"minSpace": 1,
			"perDay":   100,
		},
		"timer": 0,
		"usn":   0,
	}
}
