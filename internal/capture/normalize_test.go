package capture

import (
	"strings"
	"testing"
	"time"

	"github.com/webtrail/webtrail-cli/internal/model"
	"github.com/webtrail/webtrail-cli/internal/redact"
)

func TestNormalize(t *testing.T) {
	r := redact.New(nil, 0)
	now := time.Now()
	chain := []model.NodeInfo{{Tag: "input", Classes: []string{"field"}}, {Tag: "form"}}

	tests := []struct {
		name     string
		ev       RawEvent
		wantOK   bool
		wantKind model.StepKind
		wantText string
		wantMeta map[string]string
	}{
		{
			name:   "unknown kind dropped",
			ev:     RawEvent{Kind: "mousemove", Time: now, Chain: chain},
			wantOK: false,
		},
		{
			name:   "dom event without target dropped",
			ev:     RawEvent{Kind: "click", Time: now},
			wantOK: false,
		},
		{
			name:     "click keeps trimmed label",
			ev:       RawEvent{Kind: "click", Time: now, Chain: chain, Value: "  Save  "},
			wantOK:   true,
			wantKind: model.KindClick,
			wantText: "Save",
		},
		{
			name: "input on plain field keeps value",
			ev: RawEvent{Kind: "input", Time: now, Chain: chain,
				FieldID: "email", Value: "a@b.c"},
			wantOK:   true,
			wantKind: model.KindInput,
			wantText: "a@b.c",
			wantMeta: map[string]string{"field": "email", "value": "a@b.c"},
		},
		{
			name: "input on sensitive field redacted",
			ev: RawEvent{Kind: "input", Time: now, Chain: chain,
				FieldID: "user-password", Value: "hunter2"},
			wantOK:   true,
			wantKind: model.KindInput,
			wantText: redact.Marker,
			wantMeta: map[string]string{"field": "user-password", "value": redact.Marker},
		},
		{
			name: "select records chosen option",
			ev: RawEvent{Kind: "select", Time: now, Chain: chain,
				FieldID: "country", Value: "Germany"},
			wantOK:   true,
			wantKind: model.KindSelect,
			wantText: "Germany",
			wantMeta: map[string]string{"field": "country", "value": "Germany"},
		},
		{
			name:     "toggle keeps state text",
			ev:       RawEvent{Kind: "toggle", Time: now, Chain: chain, Value: "checked"},
			wantOK:   true,
			wantKind: model.KindToggle,
			wantText: "checked",
		},
		{
			name:     "keypress keeps key name",
			ev:       RawEvent{Kind: "keypress", Time: now, Chain: chain, Key: "Enter"},
			wantOK:   true,
			wantKind: model.KindKeypress,
			wantText: "Enter",
		},
		{
			name: "navigation carries phase",
			ev: RawEvent{Kind: "navigation", Time: now,
				URL: "https://example.com/cart", Phase: "arriving"},
			wantOK:   true,
			wantKind: model.KindNavigation,
			wantText: "https://example.com/cart",
			wantMeta: map[string]string{"phase": "arriving"},
		},
		{
			name: "console message truncated",
			ev: RawEvent{Kind: "console", Time: now,
				Level: "error", Text: strings.Repeat("x", 300)},
			wantOK:   true,
			wantKind: model.KindConsole,
			wantText: strings.Repeat("x", redact.DefaultMaxLen) + "…",
			wantMeta: map[string]string{"level": "error"},
		},
		{
			name: "performance entry",
			ev: RawEvent{Kind: "performance", Time: now,
				EntryType: "longtask", DurationMS: 123.7},
			wantOK:   true,
			wantKind: model.KindPerformance,
			wantText: "longtask",
			wantMeta: map[string]string{"type": "longtask", "duration_ms": "124"},
		},
		{
			name:     "page error",
			ev:       RawEvent{Kind: "error", Time: now, Text: " boom "},
			wantOK:   true,
			wantKind: model.KindErrorDetected,
			wantText: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, ok := normalize(tt.ev, r)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if step.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", step.Kind, tt.wantKind)
			}
			if step.DisplayText != tt.wantText {
				t.Errorf("text = %q, want %q", step.DisplayText, tt.wantText)
			}
			if tt.wantMeta != nil && !step.MetadataEquals(model.Step{Metadata: tt.wantMeta}) {
				t.Errorf("metadata = %v, want %v", step.Metadata, tt.wantMeta)
			}
			if !step.OccurredAt.Equal(now) {
				t.Errorf("time = %v", step.OccurredAt)
			}
		})
	}
}
