package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/webtrail/webtrail-cli/internal/model"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// StepsResult is the top-level output of `steps list`.
type StepsResult struct {
	TS    int64        `yaml:"ts"              json:"ts"`
	Count int          `yaml:"count"           json:"count"`
	Steps []model.Step `yaml:"steps"           json:"steps"`
}

// ShotsResult is the top-level output of `shots list`. Image bytes are
// omitted; only metadata is listed.
type ShotsResult struct {
	TS    int64      `yaml:"ts"    json:"ts"`
	Count int        `yaml:"count" json:"count"`
	Shots []ShotInfo `yaml:"shots" json:"shots"`
}

// ShotInfo is gallery metadata without the raster payload.
type ShotInfo struct {
	ID          string `yaml:"id"                    json:"id"`
	CapturedAt  int64  `yaml:"captured_at"           json:"captured_at"`
	Kind        string `yaml:"kind"                  json:"kind"`
	Format      string `yaml:"format"                json:"format"`
	Bytes       int    `yaml:"bytes"                 json:"bytes"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// StatusResult is the top-level output of `status`.
type StatusResult struct {
	IsRecording      bool   `yaml:"is_recording"                json:"is_recording"`
	SessionID        string `yaml:"session_id,omitempty"        json:"session_id,omitempty"`
	StartTime        int64  `yaml:"start_time,omitempty"        json:"start_time,omitempty"`
	StepCount        int    `yaml:"step_count"                  json:"step_count"`
	ShotCount        int    `yaml:"shot_count"                  json:"shot_count"`
	LastReportFormat string `yaml:"last_report_format,omitempty" json:"last_report_format,omitempty"`
	LastReportAt     int64  `yaml:"last_report_at,omitempty"    json:"last_report_at,omitempty"`
}

// ActionResult is the generic output of write commands.
type ActionResult struct {
	OK     bool   `yaml:"ok"               json:"ok"`
	Action string `yaml:"action"           json:"action"`
	Detail string `yaml:"detail,omitempty" json:"detail,omitempty"`
	Error  string `yaml:"error,omitempty"  json:"error,omitempty"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(v)
		}
		return PrintJSON(v)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to stdout as compact single-line JSON.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintPrettyJSON serializes v to stdout as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// IsOutputPiped reports whether stdout is not a terminal, i.e. output is
// being consumed by another process.
func IsOutputPiped() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) == 0
}

// NewShotInfo strips the raster payload from a screenshot for listing.
func NewShotInfo(shot model.Screenshot) ShotInfo {
	return ShotInfo{
		ID:          shot.ID,
		CapturedAt:  shot.CapturedAt.Unix(),
		Kind:        string(shot.Kind),
		Format:      shot.Format,
		Bytes:       len(shot.Data),
		Description: shot.Description,
	}
}
