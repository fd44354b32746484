package report

import (
	"fmt"

	"github.com/webtrail/webtrail-cli/internal/model"
)

// diagnosticKinds stay in the durable log for export but are filtered out
// of the human-facing step list.
var diagnosticKinds = map[model.StepKind]bool{
	model.KindConsole:     true,
	model.KindPerformance: true,
}

// sentenceTable maps each kind to its natural-language template. The
// mapping is total over captured kinds: anything missing here falls back
// to the generic template, so no step ever silently vanishes.
var sentenceTable = map[model.StepKind]func(model.Step) string{
	model.KindClick: func(s model.Step) string {
		if s.DisplayText != "" {
			return fmt.Sprintf("Clicked on %q (%s)", s.DisplayText, s.Target)
		}
		return fmt.Sprintf("Clicked on %s", s.Target)
	},
	model.KindInput: func(s model.Step) string {
		return fmt.Sprintf("Entered %q into %s", s.DisplayText, s.Target)
	},
	model.KindSelect: func(s model.Step) string {
		return fmt.Sprintf("Selected %q in %s", s.DisplayText, s.Target)
	},
	model.KindSubmit: func(s model.Step) string {
		return fmt.Sprintf("Submitted %s", s.Target)
	},
	model.KindToggle: func(s model.Step) string {
		return fmt.Sprintf("Toggled %s %s", s.Target, s.DisplayText)
	},
	model.KindKeypress: func(s model.Step) string {
		return fmt.Sprintf("Pressed %s", s.DisplayText)
	},
	model.KindNavigation: func(s model.Step) string {
		if s.Metadata["phase"] == "leaving" {
			return fmt.Sprintf("Left %s", s.DisplayText)
		}
		return fmt.Sprintf("Navigated to %s", s.DisplayText)
	},
	model.KindScreenshot: func(s model.Step) string {
		if s.DisplayText != "" {
			return fmt.Sprintf("Captured screenshot (%s)", s.DisplayText)
		}
		return "Captured screenshot"
	},
	model.KindErrorDetected: func(s model.Step) string {
		return fmt.Sprintf("Error detected: %s", s.DisplayText)
	},
}

// Sentences converts steps into the ordered human-readable list. Steps are
// assumed pre-sorted; diagnostic kinds are dropped here and only here.
func Sentences(steps []model.Step) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		if diagnosticKinds[s.Kind] {
			continue
		}
		if f, ok := sentenceTable[s.Kind]; ok {
			out = append(out, f(s))
			continue
		}
		out = append(out, fmt.Sprintf("%s on %s", s.Kind, s.Target))
	}
	return out
}
