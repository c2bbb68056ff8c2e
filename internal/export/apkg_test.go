package export

import (
	"archive/zip"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cjh28/pdf-to-anki/internal/quiz"
)

func TestDeckIDStable(t *testing.T) {
	if got := DeckID("默认题库"); got != 2098635418 {
		t.Errorf("DeckID(默认题库) = %d, want 2098635418", got)
	}
	if DeckID("a") == DeckID("b") {
		t.Error("different deck names must map to different IDs")
	}
}

func TestNoteGUIDStable(t *testing.T) {
	q := &quiz.Question{Index: 3, Text: "What is 2+2?"}
	if got := NoteGUID(q); got != "0f84c5201d" {
		t.Errorf("NoteGUID = %q, want 0f84c5201d", got)
	}

	other := &quiz.Question{Index: 4, Text: "What is 2+2?"}
	if NoteGUID(q) == NoteGUID(other) {
		t.Error("different questions must map to different GUIDs")
	}
}

func TestFieldChecksum(t *testing.T) {
	if got := fieldChecksum("hello"); got != 2868168221 {
		t.Errorf("fieldChecksum(hello) = %d, want 2868168221", got)
	}
}

func TestEscapeHTML(t *testing.T) {
	got := escapeHTML("a < b & \"c\"\nnext")
	want := "a &lt; b &amp; &quot;c&quot;<br>next"
	if got != want {
		t.Errorf("escapeHTML = %q, want %q", got, want)
	}
}

func TestAPKGExportEmptySet(t *testing.T) {
	e := NewAPKGExporter("deck")
	if err := e.Export(nil, filepath.Join(t.TempDir(), "out.apkg")); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestAPKGExportPackage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.apkg")

	e := NewAPKGExporter("期末复习")
	if err := e.Export(sampleQuestions(), path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("exported file is not a zip: %v", err)
	}
	defer zr.Close()

	var collection []byte
	var media string
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		switch f.Name {
		case "collection.anki2":
			collection = data
		case "media":
			media = string(data)
		default:
			t.Errorf("unexpected package entry %s", f.Name)
		}
	}

	if collection == nil {
		t.Fatal("package is missing collection.anki2")
	}
	if media != "{}" {
		t.Errorf("media manifest = %q, want empty object", media)
	}

	dbPath := filepath.Join(dir, "collection.anki2")
	if err := os.WriteFile(dbPath, collection, 0o600); err != nil {
		t.Fatalf("failed to unpack collection: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open collection: %v", err)
	}
	defer db.Close()

	var ver int
	var models, decks string
	if err := db.QueryRow("SELECT ver, models, decks FROM col").Scan(&ver, &models, &decks); err != nil {
		t.Fatalf("failed to read col row: %v", err)
	}
	if ver != ankiSchemaVersion {
		t.Errorf("schema version = %d, want %d", ver, ankiSchemaVersion)
	}
	if !strings.Contains(models, "QuestionType") {
		t.Error("note model must carry the QuestionType field")
	}
	if !strings.Contains(decks, "期末复习") {
		t.Error("decks must contain the named deck")
	}

	var notes, cards int
	if err := db.QueryRow("SELECT count(*) FROM notes").Scan(&notes); err != nil {
		t.Fatalf("failed to count notes: %v", err)
	}
	if err := db.QueryRow("SELECT count(*) FROM cards").Scan(&cards); err != nil {
		t.Fatalf("failed to count cards: %v", err)
	}
	if notes != 2 || cards != 2 {
		t.Errorf("notes = %d, cards = %d, want 2 and 2", notes, cards)
	}

	var flds string
	if err := db.QueryRow("SELECT flds FROM notes ORDER BY id LIMIT 1").Scan(&flds); err != nil {
		t.Fatalf("failed to read note fields: %v", err)
	}
	fields := strings.Split(flds, "\x1f")
	if len(fields) != 4 {
		t.Fatalf("expected 4 note fields, got %d", len(fields))
	}
	if fields[3] != string(quiz.QuestionTypeSingle) {
		t.Errorf("question type field = %q, want single", fields[3])
	}
	if !strings.Contains(fields[0], "以下哪个是首都？") {
		t.Errorf("front field missing stem: %q", fields[0])
	}
}
