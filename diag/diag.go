// Package diag publishes recoverable problems found while styling and
// formatting messages.
//
// A diagnostic never interrupts rendering. It is handed to every subscriber
// and logged through slog, with log output throttled so that a flood of
// malformed lines only produces a handful of log records.
package diag

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Diagnostic struct {
	Time    time.Time
	Source  string // component that emitted the diagnostic, e.g. "colour".
	Message string
}

func (d Diagnostic) String() string {
	return d.Source + ": " + d.Message
}

type subscriber struct {
	id int
	fn func(Diagnostic)
}

// Reporter is safe for concurrent use. The nil *Reporter discards everything.
type Reporter struct {
	logger  *slog.Logger
	limiter *rate.Limiter

	mu     sync.Mutex
	subs   []subscriber
	nextID int
	count  int
}

// NewReporter returns a reporter logging to logger (slog.Default() if nil)
// at most one record per second, with bursts of 10.
func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(1), 10),
	}
}

// Report publishes a diagnostic.
func (r *Reporter) Report(source, format string, args ...interface{}) {
	if r == nil {
		return
	}

	d := Diagnostic{
		Time:    time.Now(),
		Source:  source,
		Message: fmt.Sprintf(format, args...),
	}

	r.mu.Lock()
	r.count++
	subs := make([]subscriber, len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, s := range subs {
		s.fn(d)
	}

	if r.limiter.Allow() {
		r.logger.Warn(d.Message, "source", d.Source)
	}
}

// Subscribe registers fn to receive every diagnostic reported after this call.
// The returned function removes the subscription.
func (r *Reporter) Subscribe(fn func(Diagnostic)) (cancel func()) {
	if r == nil || fn == nil {
		return func() {}
	}

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs = append(r.subs, subscriber{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

// Count returns the number of diagnostics reported so far.
func (r *Reporter) Count() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Recorder collects diagnostics, mostly for tests and the command line tool.
type Recorder struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Record subscribes the recorder to r.
func (rec *Recorder) Record(r *Reporter) (cancel func()) {
	return r.Subscribe(func(d Diagnostic) {
		rec.mu.Lock()
		rec.diags = append(rec.diags, d)
		rec.mu.Unlock()
	})
}

func (rec *Recorder) Diagnostics() []Diagnostic {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]Diagnostic, len(rec.diags))
	copy(out, rec.diags)
	return out
}

func (rec *Recorder) Reset() {
	rec.mu.Lock()
	rec.diags = nil
	rec.mu.Unlock()
}
