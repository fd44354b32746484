package cmd

import (
	"github.com/spf13/cobra"

	"github.com/webtrail/webtrail-cli/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recording state and log occupancy",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	state, err := st.RecordingState()
	if err != nil {
		return err
	}
	steps, err := st.Steps()
	if err != nil {
		return err
	}
	shots, err := st.Screenshots()
	if err != nil {
		return err
	}

	result := output.StatusResult{
		IsRecording: state.IsRecording,
		SessionID:   state.SessionID,
		StepCount:   len(steps),
		ShotCount:   len(shots),
	}
	if !state.StartTime.IsZero() {
		result.StartTime = state.StartTime.Unix()
	}
	if snap, ok, err := st.LastReport(); err == nil && ok {
		result.LastReportFormat = snap.Format
		result.LastReportAt = snap.GeneratedAt.Unix()
	}
	return output.Print(result)
}
