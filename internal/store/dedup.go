package store

import (
	"time"

	"github.com/webtrail/webtrail-cli/internal/config"
	"github.com/webtrail/webtrail-cli/internal/model"
)

// isDuplicate reports whether step should be suppressed as a near-duplicate
// of an already-stored step. Two rules:
//
//   - exact near-simultaneous duplicate: within the dedup window with the
//     same kind, target, display text and metadata;
//   - rapid double-fire click: two clicks on the same target within the
//     (much shorter) click window, regardless of text.
//
// Submits and screenshots are exempt: repeating those quickly is a
// legitimate distinct action. This is a timing heuristic, not content
// hashing; both false negatives and false positives are accepted.
func isDuplicate(existing []model.Step, step model.Step, limits config.Limits) bool {
	if step.Kind == model.KindSubmit || step.Kind == model.KindScreenshot {
		return false
	}

	dedupWindow := time.Duration(limits.DedupWindowMS) * time.Millisecond
	clickWindow := time.Duration(limits.ClickWindowMS) * time.Millisecond

	for i := range existing {
		prev := &existing[i]
		delta := step.OccurredAt.Sub(prev.OccurredAt)
		if delta < 0 {
			delta = -delta
		}

		if delta <= dedupWindow &&
			prev.Kind == step.Kind &&
			prev.Target == step.Target &&
			prev.DisplayText == step.DisplayText &&
			prev.MetadataEquals(step) {
			return true
		}

		if delta <= clickWindow &&
			prev.Kind == model.KindClick && step.Kind == model.KindClick &&
			prev.Target == step.Target {
			return true
		}
	}
	return false
}
