package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/webtrail/webtrail-cli/internal/model"
	"github.com/webtrail/webtrail-cli/internal/report"
	"github.com/webtrail/webtrail-cli/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the step log into a bug report",
	Long: `Render the recorded steps and screenshots into a bug report artifact.

Formats: text, markdown, rtf, html (paginated document with embedded images).
Once both the full document and a screenshot-only document have been
generated, the step log and gallery are cleared automatically.

Examples:
  webtrail report --report-format text
  webtrail report --report-format html --output bug-report.html
  webtrail report --report-format html --shots-only --output shots.html`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("report-format", "text", "Artifact format: text, markdown, rtf, html")
	reportCmd.Flags().String("title", "", "Report title")
	reportCmd.Flags().Bool("shots-only", false, "Screenshot-only document (no step list)")
	reportCmd.Flags().String("output", "", "Output file path (default: stdout)")
}

func runReport(cmd *cobra.Command, args []string) error {
	formatStr, _ := cmd.Flags().GetString("report-format")
	title, _ := cmd.Flags().GetString("title")
	shotsOnly, _ := cmd.Flags().GetBool("shots-only")
	outPath, _ := cmd.Flags().GetString("output")

	st, err := openStore()
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

	artifact, err := report.Render(steps, shots, report.Format(formatStr), report.Options{
		Title:     title,
		ShotsOnly: shotsOnly,
	})
	if err != nil {
		return err
	}

	if err := st.SaveReportSnapshot(model.ReportSnapshot{
		Format:      string(artifact.Format),
		GeneratedAt: time.Now(),
		Data:        artifact.Data,
	}); err != nil {
		return err
	}

	kind := store.ReportFull
	if shotsOnly {
		kind = store.ReportShots
	}
	cleared, err := st.MarkReportGenerated(kind)
	if err != nil {
		return err
	}
	if cleared {
		fmt.Fprintln(os.Stderr, "both report types generated; step log and gallery cleared")
	}

	if outPath != "" {
		return writeFile(outPath, artifact.Data)
	}
	if artifact.Format == report.FormatText || artifact.Format == report.FormatMarkdown || artifact.Format == report.FormatHTML {
		_, err = os.Stdout.Write(artifact.Data)
		return err
	}
	// Binary-ish formats go to stdout as base64 for easy agent consumption.
	enc := base64.NewEncoder(base64.StdEncoding, os.Stdout)
	if _, err := enc.Write(artifact.Data); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	fmt.Println() // newline after base64
	return nil
}
