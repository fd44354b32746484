package model

import (
	"sort"
	"time"
)

// StepKind classifies one observed interaction.
type StepKind string

const (
	KindClick         StepKind = "click"
	KindInput         StepKind = "input"
	KindSelect        StepKind = "select"
	KindSubmit        StepKind = "submit"
	KindToggle        StepKind = "toggle"
	KindKeypress      StepKind = "keypress"
	KindNavigation    StepKind = "navigation"
	KindConsole       StepKind = "console"
	KindPerformance   StepKind = "performance"
	KindScreenshot    StepKind = "screenshot"
	KindErrorDetected StepKind = "error-detected"
	KindCustom        StepKind = "custom"
)

// Step is one normalized, redacted record of a single observed user or
// system event. Target is a structural locator (CSS-style path), never a
// live DOM reference.
type Step struct {
	Kind        StepKind          `yaml:"kind"                  json:"kind"`
	OccurredAt  time.Time         `yaml:"occurred_at"           json:"occurred_at"`
	PageURL     string            `yaml:"page_url,omitempty"    json:"page_url,omitempty"`
	Target      string            `yaml:"target,omitempty"      json:"target,omitempty"`
	DisplayText string            `yaml:"display_text,omitempty" json:"display_text,omitempty"`
	SessionID   string            `yaml:"session_id,omitempty"  json:"session_id,omitempty"`
	Metadata    map[string]string `yaml:"metadata,omitempty"    json:"metadata,omitempty"`
}

// MetadataEquals reports whether two steps carry identical metadata.
// Used by the dedup policy; nil and empty maps compare equal.
func (s Step) MetadataEquals(other Step) bool {
	if len(s.Metadata) != len(other.Metadata) {
		return false
	}
	for k, v := range s.Metadata {
		if ov, ok := other.Metadata[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// SortByTime orders steps chronologically. Storage order is not trusted:
// concurrent async appends may interleave, so display order is always
// derived from timestamps.
func SortByTime(steps []Step) {
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].OccurredAt.Before(steps[j].OccurredAt)
	})
}
