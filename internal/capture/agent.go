// Package capture owns the recording lifecycle: an explicit state machine
// whose transitions attach and detach event handling, a per-field input
// debouncer, and the normalizer that turns raw browser events into steps.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/webtrail/webtrail-cli/internal/config"
	"github.com/webtrail/webtrail-cli/internal/log"
	"github.com/webtrail/webtrail-cli/internal/model"
	"github.com/webtrail/webtrail-cli/internal/redact"
)

// Status is the recording state machine position.
type Status string

const (
	StatusInactive  Status = "inactive"
	StatusRecording Status = "recording"
	StatusPaused    Status = "paused"
	StatusStopped   Status = "stopped"
)

// ErrNotRecording is returned for transitions that require an active session.
var ErrNotRecording = errors.New("no active recording session")

// Sink receives normalized steps and state updates; in practice the
// persistence gateway.
type Sink interface {
	Append(step model.Step) (bool, error)
	SetRecordingState(state model.RecordingState) error
}

// SnapshotFunc generates a report snapshot. Called with final=false on
// pause (interim snapshot) and final=true on stop.
type SnapshotFunc func(final bool) error

// Agent drives one recording session. Events are only accepted while the
// state machine is in StatusRecording; that gate is the sole concurrency
// control on the capture side, ordering is resolved by timestamps at
// render time.
type Agent struct {
	mu      sync.Mutex
	status  Status
	session model.RecordingState

	sink     Sink
	redactor *redact.Redactor
	limits   config.Limits
	snapshot SnapshotFunc
	urls     *urlCache

	debouncers map[string]*debouncer
}

// NewAgent builds an agent. resolver and snapshot may be nil; a nil
// redactor gets the default policy.
func NewAgent(sink Sink, limits config.Limits, redactor *redact.Redactor, resolver URLResolver, snapshot SnapshotFunc) *Agent {
	if redactor == nil {
		redactor = redact.New(nil, 0)
	}
	return &Agent{
		status:     StatusInactive,
		sink:       sink,
		redactor:   redactor,
		limits:     limits,
		snapshot:   snapshot,
		urls:       newURLCache(resolver, time.Duration(limits.URLCacheTTLMS)*time.Millisecond),
		debouncers: make(map[string]*debouncer),
	}
}

// Status returns the current state machine position.
func (a *Agent) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Session returns the current recording state.
func (a *Agent) Session() model.RecordingState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Restore adopts previously persisted state, e.g. after a process restart
// mid-session.
func (a *Agent) Restore(state model.RecordingState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = state
	if state.IsRecording {
		a.status = StatusRecording
	}
}

// Activate transitions Inactive/Stopped -> Recording with a fresh session
// id and start time.
func (a *Agent) Activate() error {
	a.mu.Lock()
	if a.status == StatusRecording || a.status == StatusPaused {
		a.mu.Unlock()
		return fmt.Errorf("recording already active (session %s)", a.session.SessionID)
	}
	a.session = model.RecordingState{
		IsRecording: true,
		SessionID:   uuid.NewString(),
		StartTime:   time.Now(),
	}
	a.status = StatusRecording
	state := a.session
	a.mu.Unlock()

	return a.sink.SetRecordingState(state)
}

// Pause transitions Recording -> Paused and writes an interim report
// snapshot. The log is not cleared. In-flight debounced input is flushed
// so a trailing typing burst is not lost.
func (a *Agent) Pause() error {
	a.mu.Lock()
	if a.status != StatusRecording {
		a.mu.Unlock()
		return ErrNotRecording
	}
	a.mu.Unlock()

	// Flush while still recording so the trailing burst passes the
	// dispatch gate.
	a.flushDebouncers()

	a.mu.Lock()
	a.status = StatusPaused
	a.session.IsRecording = false
	state := a.session
	a.mu.Unlock()

	if a.snapshot != nil {
		if err := a.snapshot(false); err != nil {
			slog.Warn("interim report snapshot failed", "err", err)
		}
	}
	return a.sink.SetRecordingState(state)
}

// Resume transitions Paused -> Recording, reusing the existing session id
// and start time.
func (a *Agent) Resume() error {
	a.mu.Lock()
	if a.status != StatusPaused {
		a.mu.Unlock()
		return fmt.Errorf("cannot resume from %s", a.status)
	}
	a.status = StatusRecording
	a.session.IsRecording = true
	state := a.session
	a.mu.Unlock()

	return a.sink.SetRecordingState(state)
}

// Stop transitions any state -> Stopped: final snapshot, session id
// cleared. The step log itself is never cleared here; only an explicit
// clear or the dual-report rule does that.
func (a *Agent) Stop() error {
	a.mu.Lock()
	if a.status == StatusInactive || a.status == StatusStopped {
		a.mu.Unlock()
		return ErrNotRecording
	}
	a.mu.Unlock()

	a.flushDebouncers()

	a.mu.Lock()
	a.status = StatusStopped
	a.session = model.RecordingState{}
	a.mu.Unlock()

	if a.snapshot != nil {
		if err := a.snapshot(true); err != nil {
			slog.Warn("final report snapshot failed", "err", err)
		}
	}
	return a.sink.SetRecordingState(model.RecordingState{})
}

// Handle processes one raw event. Outside StatusRecording everything is
// discarded. Input events are debounced per target; everything else is
// normalized and dispatched inline.
func (a *Agent) Handle(ctx context.Context, ev RawEvent) {
	a.mu.Lock()
	if a.status != StatusRecording {
		a.mu.Unlock()
		return
	}

	if ev.Kind == "input" {
		key := model.CSSPath(ev.Chain)
		if key == "" {
			a.mu.Unlock()
			return
		}
		d, ok := a.debouncers[key]
		if !ok {
			window := time.Duration(a.limits.InputDebounceMS) * time.Millisecond
			d = newDebouncer(window, func(final RawEvent) {
				a.dispatch(context.Background(), final)
			})
			a.debouncers[key] = d
		}
		a.mu.Unlock()
		d.observe(ev)
		return
	}
	a.mu.Unlock()

	if ev.Kind == "navigation" {
		a.urls.invalidate()
	}
	a.dispatch(ctx, ev)
}

// dispatch normalizes and persists one event. Capture errors drop the step
// and keep recording; persistence errors are surfaced in the log but do
// not kill the session.
func (a *Agent) dispatch(ctx context.Context, ev RawEvent) {
	a.mu.Lock()
	if a.status != StatusRecording {
		a.mu.Unlock()
		return
	}
	sessionID := a.session.SessionID
	a.mu.Unlock()

	step, ok := normalize(ev, a.redactor)
	if !ok {
		return
	}
	step.SessionID = sessionID
	if step.PageURL == "" {
		// Best-effort; corrected later only in so far as subsequent
		// events carry the resolved URL.
		step.PageURL = a.urls.resolve(ctx)
	}

	logger := log.LoggerFromContext(ctx)
	stored, err := a.sink.Append(step)
	if err != nil {
		logger.Error("step append failed", "kind", step.Kind, "err", err)
		return
	}
	if !stored {
		logger.Debug("step suppressed as duplicate", "kind", step.Kind, "target", step.Target)
	}
}

func (a *Agent) flushDebouncers() {
	a.mu.Lock()
	pending := make([]*debouncer, 0, len(a.debouncers))
	for _, d := range a.debouncers {
		pending = append(pending, d)
	}
	a.mu.Unlock()
	for _, d := range pending {
		d.flush()
	}
}
