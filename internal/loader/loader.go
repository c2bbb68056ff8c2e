// Package loader drives one document load end to end: validate the file,
// extract the text stream, run the recognition pipeline, and publish the
// resulting question set. At most one load is in flight per loader; a
// second request while one is active is rejected, and cancellation never
// disturbs the previously published set.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cjh28/pdf-to-anki/internal/pdf"
	"github.com/cjh28/pdf-to-anki/internal/quiz"
)

// ErrLoadInFlight is returned when a load is requested while another one is
// still running for the same loader.
var ErrLoadInFlight = errors.New("a document load is already in progress")

// Result is the completion signal of one background load
type Result struct {
	Set *quiz.QuestionSet
	Err error
}

// Loader converts one PDF into a question set and publishes it to the
// manager. The manager's Replace call is the single synchronization point:
// until it happens, readers keep seeing the previous session's set.
type Loader struct {
	service *pdf.Service
	manager *quiz.Manager
	parser  *quiz.Parser

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
}

// New creates a loader publishing into the given manager
func New(service *pdf.Service, manager *quiz.Manager) *Loader {
	return &Loader{
		service: service,
		manager: manager,
		parser:  quiz.NewParser(),
	}
}

// Load runs one document load synchronously. Any failure to obtain the text
// stream is fatal to the load and surfaced as a *quiz.StreamError; no set is
// published in that case. Recognition anomalies never fail the load.
func (l *Loader) Load(ctx context.Context, path string) (*quiz.QuestionSet, error) {
	ctx, err := l.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer l.end()

	return l.run(ctx, path)
}

// LoadAsync starts a load on a background goroutine and returns a channel
// delivering the single completion signal. The in-flight slot is claimed
// synchronously, so a concurrent second call fails fast with
// ErrLoadInFlight instead of queueing.
func (l *Loader) LoadAsync(ctx context.Context, path string) (<-chan Result, error) {
	ctx, err := l.begin(ctx)
	if err != nil {
		return nil, err
	}

	done := make(chan Result, 1)
	go func() {
		defer l.end()
		set, err := l.run(ctx, path)
		done <- Result{Set: set, Err: err}
	}()
	return done, nil
}

// Cancel aborts the in-flight load, if any. The previously published
// question set is untouched.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}

// Active reports whether a load is currently running
func (l *Loader) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

func (l *Loader) begin(ctx context.Context) (context.Context, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active {
		return nil, ErrLoadInFlight
	}
	ctx, cancel := context.WithCancel(ctx)
	l.active = true
	l.cancel = cancel
	return ctx, nil
}

func (l *Loader) end() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.active = false
}

// run performs the actual pipeline. Everything up to and including text
// extraction maps to StreamError; parsing failures can only be context
// cancellation.
func (l *Loader) run(ctx context.Context, path string) (*quiz.QuestionSet, error) {
	validation, err := l.service.ValidateFile(path)
	if err != nil {
		return nil, quiz.NewStreamError(path, err)
	}
	if !validation.Valid {
		return nil, quiz.NewStreamError(path, fmt.Errorf("%s", validation.Message))
	}

	extracted, err := l.service.ExtractPages(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, quiz.NewStreamError(path, err)
	}

	pages := make([]quiz.Page, 0, len(extracted.Pages))
	for _, p := range extracted.Pages {
		pages = append(pages, quiz.Page{Number: p.Number, Text: p.Text})
	}

	set, err := l.parser.Parse(ctx, pages)
	if err != nil {
		return nil, err
	}

	set.SourcePath = path
	set.Warnings = extracted.Warnings
	if stats, err := l.service.FileStats(path); err == nil && stats.Title != "" {
		set.Title = stats.Title
	}

	l.manager.Replace(set)
	return set, nil
}
