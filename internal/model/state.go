package model

import "time"

// RecordingState is persisted so an interrupted session (page navigation,
// process restart) can be restored. SessionID is regenerated on activate
// and cleared on deactivate.
type RecordingState struct {
	IsRecording bool      `yaml:"is_recording" json:"is_recording"`
	SessionID   string    `yaml:"session_id,omitempty" json:"session_id,omitempty"`
	StartTime   time.Time `yaml:"start_time,omitempty" json:"start_time,omitempty"`
}

// ReportSnapshot is the last-generated report artifact, kept alongside the
// step log so the most recent export can be re-fetched without re-rendering.
type ReportSnapshot struct {
	Format      string    `yaml:"format" json:"format"`
	GeneratedAt time.Time `yaml:"generated_at" json:"generated_at"`
	Data        []byte    `yaml:"data" json:"data"`
}
