package capture

import (
	"fmt"
	"strings"

	"github.com/webtrail/webtrail-cli/internal/model"
	"github.com/webtrail/webtrail-cli/internal/redact"
)

// rawKinds maps event source kinds onto step kinds. Anything absent is
// unsupported and dropped silently, not an error.
var rawKinds = map[string]model.StepKind{
	"click":       model.KindClick,
	"input":       model.KindInput,
	"select":      model.KindSelect,
	"submit":      model.KindSubmit,
	"toggle":      model.KindToggle,
	"keypress":    model.KindKeypress,
	"navigation":  model.KindNavigation,
	"console":     model.KindConsole,
	"performance": model.KindPerformance,
	"screenshot":  model.KindScreenshot,
	"error":       model.KindErrorDetected,
	"custom":      model.KindCustom,
}

// domKinds are the kinds that require a usable target descriptor.
var domKinds = map[model.StepKind]bool{
	model.KindClick:  true,
	model.KindInput:  true,
	model.KindSelect: true,
	model.KindSubmit: true,
	model.KindToggle: true,
}

// normalize turns a raw event into one step. ok is false when the event is
// unsupported or targets a recorder-injected element.
func normalize(ev RawEvent, r *redact.Redactor) (model.Step, bool) {
	kind, known := rawKinds[ev.Kind]
	if !known {
		return model.Step{}, false
	}

	target := model.CSSPath(ev.Chain)
	if domKinds[kind] && target == "" {
		return model.Step{}, false
	}

	step := model.Step{
		Kind:       kind,
		OccurredAt: ev.Time,
		PageURL:    ev.URL,
		Target:     target,
	}

	switch kind {
	case model.KindClick:
		step.DisplayText = r.Redact(ev.FieldID, ev.Value)
	case model.KindInput, model.KindSelect:
		redacted := r.Redact(ev.FieldID, ev.Value)
		step.DisplayText = redacted
		step.Metadata = map[string]string{"field": ev.FieldID, "value": redacted}
	case model.KindToggle:
		step.DisplayText = strings.TrimSpace(ev.Value)
	case model.KindSubmit:
		step.DisplayText = r.Redact(ev.FieldID, ev.Value)
	case model.KindKeypress:
		step.DisplayText = ev.Key
	case model.KindNavigation:
		step.DisplayText = ev.URL
		step.Metadata = map[string]string{"phase": ev.Phase}
	case model.KindConsole:
		step.DisplayText = redact.Truncate(strings.TrimSpace(ev.Text), redact.DefaultMaxLen)
		step.Metadata = map[string]string{"level": ev.Level}
	case model.KindPerformance:
		step.DisplayText = ev.EntryType
		step.Metadata = map[string]string{
			"type":        ev.EntryType,
			"duration_ms": fmt.Sprintf("%.0f", ev.DurationMS),
		}
	case model.KindErrorDetected:
		step.DisplayText = redact.Truncate(strings.TrimSpace(ev.Text), redact.DefaultMaxLen)
	default:
		step.DisplayText = redact.Truncate(strings.TrimSpace(ev.Value), redact.DefaultMaxLen)
	}

	return step, true
}
