package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/webtrail/webtrail-cli/internal/capture"
	"github.com/webtrail/webtrail-cli/internal/model"
)

// SessionOptions configures a live capture session.
type SessionOptions struct {
	StartURL  string
	Headless  bool
	UserAgent string
}

// Session drives one Chrome tab over the DevTools protocol and implements
// Navigator, Screenshotter and EventSource.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cancelAlloc context.CancelFunc
	events      chan capture.RawEvent
}

// NewSession launches a browser, injects the observer script and starts
// streaming events. Close must be called to release the browser.
func NewSession(parent context.Context, opts SessionOptions) (*Session, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1280, 800),
		chromedp.Flag("headless", opts.Headless),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:         ctx,
		cancel:      cancel,
		cancelAlloc: cancelAlloc,
		events:      make(chan capture.RawEvent, 256),
	}

	chromedp.ListenTarget(ctx, s.handleTargetEvent)

	err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := runtime.AddBinding(emitBinding).Do(ctx); err != nil {
				return fmt.Errorf("add binding: %w", err)
			}
			if _, err := page.AddScriptToEvaluateOnNewDocument(observerJS).Do(ctx); err != nil {
				return fmt.Errorf("inject observer: %w", err)
			}
			return nil
		}),
		chromedp.Navigate(opts.StartURL),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("start capture session: %w", err)
	}

	return s, nil
}

// Provider exposes the session as the recorder's platform backends.
func (s *Session) Provider() *Provider {
	return &Provider{Navigator: s, Screenshotter: s, Source: s}
}

// Events implements EventSource. The channel is never closed; consumers
// watch Done to learn the session is over. Closing it here would race the
// sends still arriving on chromedp's dispatch goroutine during teardown.
func (s *Session) Events() <-chan capture.RawEvent {
	return s.events
}

// Done implements EventSource: closed when the tab or browser is gone and
// no further events will arrive.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// ActiveURL implements Navigator by querying the tab's location.
func (s *Session) ActiveURL(ctx context.Context) (string, error) {
	var url string
	if err := chromedp.Run(s.ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("resolve tab url: %w", err)
	}
	return url, nil
}

// CaptureViewport implements Screenshotter: a PNG of the visible viewport
// plus its dimensions in CSS pixels.
func (s *Session) CaptureViewport(ctx context.Context) ([]byte, model.Area, error) {
	var buf []byte
	var dims []int
	err := chromedp.Run(s.ctx,
		chromedp.Evaluate(`[window.innerWidth, window.innerHeight]`, &dims),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, model.Area{}, fmt.Errorf("capture viewport: %w", err)
	}
	area := model.Area{}
	if len(dims) == 2 {
		area.W, area.H = dims[0], dims[1]
	}
	return buf, area, nil
}

// Close tears down the tab and browser.
func (s *Session) Close() {
	s.cancel()
	s.cancelAlloc()
}

// handleTargetEvent translates CDP events into raw capture events. It runs
// on chromedp's event goroutine, so sends must never block: a full channel
// drops the event (a dropped step is a transient capture error, never
// fatal to the session).
func (s *Session) handleTargetEvent(ev interface{}) {
	switch e := ev.(type) {
	case *runtime.EventBindingCalled:
		if e.Name != emitBinding {
			return
		}
		raw, err := decodePayload(e.Payload)
		if err != nil {
			slog.Debug("malformed observer payload", "err", err)
			return
		}
		s.send(raw)

	case *runtime.EventConsoleAPICalled:
		s.send(capture.RawEvent{
			Kind:  "console",
			Time:  time.Now(),
			Level: string(e.Type),
			Text:  consoleText(e.Args),
		})

	case *runtime.EventExceptionThrown:
		text := e.ExceptionDetails.Text
		if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
			text = e.ExceptionDetails.Exception.Description
		}
		s.send(capture.RawEvent{
			Kind: "error",
			Time: time.Now(),
			Text: text,
		})

	case *page.EventFrameNavigated:
		// Top-level frame only; subframe churn is not a navigation step.
		if e.Frame.ParentID != "" {
			return
		}
		s.send(capture.RawEvent{
			Kind:  "navigation",
			Time:  time.Now(),
			URL:   e.Frame.URL,
			Phase: "arriving",
		})
	}
}

func (s *Session) send(ev capture.RawEvent) {
	select {
	case s.events <- ev:
	default:
		slog.Warn("event stream backlogged, dropping event", "kind", ev.Kind)
	}
}

// observerPayload mirrors what observerJS emits.
type observerPayload struct {
	Kind       string           `json:"kind"`
	TS         float64          `json:"ts"`
	URL        string           `json:"url"`
	Chain      []model.NodeInfo `json:"chain"`
	FieldID    string           `json:"field_id"`
	Value      string           `json:"value"`
	Key        string           `json:"key"`
	Phase      string           `json:"phase"`
	EntryType  string           `json:"entry_type"`
	DurationMS float64          `json:"duration_ms"`
}

func decodePayload(payload string) (capture.RawEvent, error) {
	var p observerPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return capture.RawEvent{}, err
	}
	at := time.Now()
	if p.TS > 0 {
		at = time.UnixMilli(int64(p.TS))
	}
	return capture.RawEvent{
		Kind:       p.Kind,
		Time:       at,
		URL:        p.URL,
		Chain:      p.Chain,
		FieldID:    p.FieldID,
		Value:      p.Value,
		Key:        p.Key,
		Phase:      p.Phase,
		EntryType:  p.EntryType,
		DurationMS: p.DurationMS,
	}, nil
}

// consoleText joins console call arguments into one line.
func consoleText(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case arg == nil:
		case len(arg.Value) > 0:
			parts = append(parts, strings.Trim(string(arg.Value), `"`))
		case arg.Description != "":
			parts = append(parts, arg.Description)
		}
	}
	return strings.Join(parts, " ")
}
