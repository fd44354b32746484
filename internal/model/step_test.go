package model

import (
	"testing"
	"time"
)

func TestSortByTime(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	steps := []Step{
		{Kind: KindSubmit, OccurredAt: base.Add(2 * time.Second)},
		{Kind: KindClick, OccurredAt: base},
		{Kind: KindInput, OccurredAt: base.Add(time.Second)},
	}

	SortByTime(steps)

	want := []StepKind{KindClick, KindInput, KindSubmit}
	for i, kind := range want {
		if steps[i].Kind != kind {
			t.Errorf("steps[%d].Kind = %q, want %q", i, steps[i].Kind, kind)
		}
	}
}

func TestSortByTimeStable(t *testing.T) {
	base := time.Now()
	steps := []Step{
		{Target: "a", OccurredAt: base},
		{Target: "b", OccurredAt: base},
		{Target: "c", OccurredAt: base},
	}
	SortByTime(steps)
	if steps[0].Target != "a" || steps[1].Target != "b" || steps[2].Target != "c" {
		t.Errorf("equal timestamps reordered: %v %v %v", steps[0].Target, steps[1].Target, steps[2].Target)
	}
}

func TestMetadataEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b map[string]string
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs empty", nil, map[string]string{}, true},
		{"equal", map[string]string{"k": "v"}, map[string]string{"k": "v"}, true},
		{"different value", map[string]string{"k": "v"}, map[string]string{"k": "w"}, false},
		{"different key", map[string]string{"k": "v"}, map[string]string{"j": "v"}, false},
		{"subset", map[string]string{"k": "v"}, map[string]string{"k": "v", "j": "w"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Step{Metadata: tt.a}
			b := Step{Metadata: tt.b}
			if got := a.MetadataEquals(b); got != tt.want {
				t.Errorf("MetadataEquals = %v, want %v", got, tt.want)
			}
			if got := b.MetadataEquals(a); got != tt.want {
				t.Errorf("reversed MetadataEquals = %v, want %v", got, tt.want)
			}
		})
	}
}
