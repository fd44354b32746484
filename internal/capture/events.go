package capture

import (
	"time"

	"github.com/webtrail/webtrail-cli/internal/model"
)

// RawEvent is one observation forwarded by a browser event source before
// normalization. Only the fields relevant to its Kind are populated.
type RawEvent struct {
	Kind string    `json:"kind"`
	Time time.Time `json:"time"`
	URL  string    `json:"url,omitempty"`

	// DOM events: target-first ancestor chain plus the captured value.
	Chain   []model.NodeInfo `json:"chain,omitempty"`
	FieldID string           `json:"field_id,omitempty"` // name/id/placeholder of the target field
	Value   string           `json:"value,omitempty"`
	Key     string           `json:"key,omitempty"`

	// Console events.
	Level string `json:"level,omitempty"`
	Text  string `json:"text,omitempty"`

	// Performance entries.
	EntryType  string  `json:"entry_type,omitempty"`
	DurationMS float64 `json:"duration_ms,omitempty"`

	// Navigation: "leaving" (beforeunload) or "arriving" (load/popstate).
	Phase string `json:"phase,omitempty"`
}
