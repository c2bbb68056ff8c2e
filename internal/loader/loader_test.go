package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cjh28/pdf-to-anki/internal/pdf"
	"github.com/cjh28/pdf-to-anki/internal/quiz"
)

func newTestLoader(t *testing.T) (*Loader, *quiz.Manager, string) {
	t.Helper()

	dir := t.TempDir()
	service, err := pdf.NewService(100*1024*1024, dir)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	manager := quiz.NewManager()
	return New(service, manager), manager, dir
}

func TestLoadMissingFileIsStreamError(t *testing.T) {
	l, manager, dir := newTestLoader(t)

	set, err := l.Load(context.Background(), filepath.Join(dir, "missing.pdf"))
	if set != nil {
		t.Errorf("expected no set, got %v", set)
	}

	var streamErr *quiz.StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("expected StreamError, got %T: %v", err, err)
	}
	if manager.Loaded() {
		t.Error("no set may be published on a failed load")
	}
}

func TestLoadInvalidPDFIsStreamError(t *testing.T) {
	l, manager, dir := newTestLoader(t)

	path := filepath.Join(dir, "not-a-pdf.pdf")
	if err := os.WriteFile(path, []byte("plain text, not a PDF"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := l.Load(context.Background(), path)
	var streamErr *quiz.StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("expected StreamError, got %T: %v", err, err)
	}
	if manager.Loaded() {
		t.Error("no set may be published on a failed load")
	}
}

func TestLoadRejectsConcurrentRequest(t *testing.T) {
	l, _, dir := newTestLoader(t)

	// Claim the in-flight slot the way a running load would.
	if _, err := l.begin(context.Background()); err != nil {
		t.Fatalf("failed to claim slot: %v", err)
	}
	defer l.end()

	_, err := l.Load(context.Background(), filepath.Join(dir, "any.pdf"))
	if !errors.Is(err, ErrLoadInFlight) {
		t.Fatalf("expected ErrLoadInFlight, got %v", err)
	}

	if _, err := l.LoadAsync(context.Background(), filepath.Join(dir, "any.pdf")); !errors.Is(err, ErrLoadInFlight) {
		t.Fatalf("expected ErrLoadInFlight from async load, got %v", err)
	}
}

func TestSlotReleasedAfterLoad(t *testing.T) {
	l, _, dir := newTestLoader(t)

	_, _ = l.Load(context.Background(), filepath.Join(dir, "missing.pdf"))
	if l.Active() {
		t.Error("expected in-flight slot released after load completes")
	}

	// The next load must be admitted again.
	_, err := l.Load(context.Background(), filepath.Join(dir, "missing.pdf"))
	if errors.Is(err, ErrLoadInFlight) {
		t.Error("expected slot to be free for the next load")
	}
}

func TestCancelPreservesPublishedSet(t *testing.T) {
	l, manager, dir := newTestLoader(t)

	published := &quiz.QuestionSet{ID: "previous"}
	manager.Replace(published)

	ctx, err := l.begin(context.Background())
	if err != nil {
		t.Fatalf("failed to claim slot: %v", err)
	}
	l.Cancel()
	if ctx.Err() == nil {
		t.Error("expected in-flight context cancelled")
	}
	l.end()

	if manager.Current().ID != "previous" {
		t.Error("cancellation must not disturb the published set")
	}

	_, loadErr := l.Load(context.Background(), filepath.Join(dir, "missing.pdf"))
	if errors.Is(loadErr, ErrLoadInFlight) {
		t.Error("expected slot released after cancel")
	}
}
