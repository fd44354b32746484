package store

import (
	"testing"
	"time"

	"github.com/webtrail/webtrail-cli/internal/config"
	"github.com/webtrail/webtrail-cli/internal/model"
)

func TestIsDuplicate(t *testing.T) {
	limits := config.Default()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	click := func(offset time.Duration, target, text string) model.Step {
		return model.Step{
			Kind:        model.KindClick,
			OccurredAt:  base.Add(offset),
			Target:      target,
			DisplayText: text,
		}
	}

	tests := []struct {
		name     string
		existing []model.Step
		step     model.Step
		want     bool
	}{
		{
			name:     "identical click within window",
			existing: []model.Step{click(0, "button.save", "Save")},
			step:     click(50*time.Millisecond, "button.save", "Save"),
			want:     true,
		},
		{
			name:     "identical click outside window",
			existing: []model.Step{click(0, "button.save", "Save")},
			step:     click(150*time.Millisecond, "button.save", "Save"),
			want:     false,
		},
		{
			name:     "same time different target",
			existing: []model.Step{click(0, "button.save", "Save")},
			step:     click(10*time.Millisecond, "button.cancel", "Save"),
			want:     false,
		},
		{
			name: "same content different metadata",
			existing: []model.Step{{
				Kind:       model.KindInput,
				OccurredAt: base,
				Target:     "input.name",
				Metadata:   map[string]string{"value": "alice"},
			}},
			step: model.Step{
				Kind:       model.KindInput,
				OccurredAt: base.Add(20 * time.Millisecond),
				Target:     "input.name",
				Metadata:   map[string]string{"value": "alicia"},
			},
			want: false,
		},
		{
			// Differing text defeats the exact-duplicate rule but not the
			// double-fire rule.
			name:     "rapid double click different text",
			existing: []model.Step{click(0, "button.save", "Save")},
			step:     click(10*time.Millisecond, "button.save", "Saving"),
			want:     true,
		},
		{
			name:     "double click just past the click window",
			existing: []model.Step{click(0, "button.save", "Save")},
			step:     click(26*time.Millisecond, "button.save", "Saving"),
			want:     false,
		},
		{
			name: "submit is never suppressed",
			existing: []model.Step{{
				Kind:       model.KindSubmit,
				OccurredAt: base,
				Target:     "form.checkout",
			}},
			step: model.Step{
				Kind:       model.KindSubmit,
				OccurredAt: base.Add(5 * time.Millisecond),
				Target:     "form.checkout",
			},
			want: false,
		},
		{
			name: "screenshot is never suppressed",
			existing: []model.Step{{
				Kind:       model.KindScreenshot,
				OccurredAt: base,
			}},
			step: model.Step{
				Kind:       model.KindScreenshot,
				OccurredAt: base.Add(5 * time.Millisecond),
			},
			want: false,
		},
		{
			// Timestamps may land out of order; the window is symmetric.
			name:     "duplicate arriving before the stored step",
			existing: []model.Step{click(50*time.Millisecond, "button.save", "Save")},
			step:     click(0, "button.save", "Save"),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isDuplicate(tt.existing, tt.step, limits)
			if got != tt.want {
				t.Errorf("isDuplicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnforceCount(t *testing.T) {
	steps := make([]model.Step, 7)
	for i := range steps {
		steps[i].Target = string(rune('a' + i))
	}

	kept := enforceCount(steps, 5)
	if len(kept) != 5 {
		t.Fatalf("len = %d, want 5", len(kept))
	}
	if kept[0].Target != "c" || kept[4].Target != "g" {
		t.Errorf("kept wrong range: first %q last %q", kept[0].Target, kept[4].Target)
	}

	if got := enforceCount(steps, 0); len(got) != 7 {
		t.Errorf("cap 0 should keep everything, got %d", len(got))
	}
	if got := enforceCount(steps, 10); len(got) != 7 {
		t.Errorf("cap above length should keep everything, got %d", len(got))
	}
}

func TestDropOldestFraction(t *testing.T) {
	steps := make([]model.Step, 20)
	for i := range steps {
		steps[i].DisplayText = string(rune('a' + i))
	}

	got := dropOldestFraction(steps, 0.10)
	if len(got) != 18 {
		t.Fatalf("len = %d, want 18", len(got))
	}
	if got[0].DisplayText != "c" {
		t.Errorf("oldest survivor = %q, want %q", got[0].DisplayText, "c")
	}

	// At least one entry goes even when the fraction rounds to zero.
	got = dropOldestFraction(steps[:3], 0.10)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}

	if got := dropOldestFraction(nil, 0.10); len(got) != 0 {
		t.Errorf("empty input should stay empty, got %d", len(got))
	}
}
