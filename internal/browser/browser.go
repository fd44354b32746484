// Package browser provides the platform backends the recorder consumes:
// active-URL resolution, viewport screenshot capture, and the raw event
// stream observed from a live page. The production implementation drives a
// Chrome instance over the DevTools protocol; tests substitute fakes.
package browser

import (
	"context"

	"github.com/webtrail/webtrail-cli/internal/capture"
	"github.com/webtrail/webtrail-cli/internal/model"
)

// Navigator resolves the active page URL.
type Navigator interface {
	ActiveURL(ctx context.Context) (string, error)
}

// Screenshotter captures the visible viewport as encoded image bytes plus
// its dimensions.
type Screenshotter interface {
	CaptureViewport(ctx context.Context) ([]byte, model.Area, error)
}

// EventSource streams raw interaction events observed on the page. Events
// is never closed; Done signals that the page or browser went away and the
// stream is over.
type EventSource interface {
	Events() <-chan capture.RawEvent
	Done() <-chan struct{}
}

// Provider bundles the backends for one browser session.
type Provider struct {
	Navigator     Navigator
	Screenshotter Screenshotter
	Source        EventSource
}
