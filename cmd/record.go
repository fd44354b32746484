package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/webtrail/webtrail-cli/internal/browser"
	"github.com/webtrail/webtrail-cli/internal/capture"
	"github.com/webtrail/webtrail-cli/internal/imaging"
	"github.com/webtrail/webtrail-cli/internal/log"
	"github.com/webtrail/webtrail-cli/internal/model"
	"github.com/webtrail/webtrail-cli/internal/redact"
	"github.com/webtrail/webtrail-cli/internal/report"
	"github.com/webtrail/webtrail-cli/internal/store"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record interactions on a web page into the step log",
	Long: `Open a page in a browser and record every interaction (clicks, input,
navigation, console output, performance entries) into the step log until
Ctrl+C or --duration. Input values from sensitive fields (passwords, tokens,
card numbers) are redacted before they leave the page context.

Examples:
  webtrail record --url https://example.com
  webtrail record --url https://example.com --duration 120 --headless`,
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().String("url", "", "Page URL to open and record (required)")
	recordCmd.Flags().Bool("headless", false, "Run the browser headless")
	recordCmd.Flags().Int("duration", 0, "Max seconds to record (0 = until Ctrl+C)")
	recordCmd.Flags().String("user-agent", "", "Override the browser user agent")
	recordCmd.Flags().Bool("nav-shots", false, "Capture a screenshot into the gallery after each navigation")
	recordCmd.MarkFlagRequired("url")
}

func runRecord(cmd *cobra.Command, args []string) error {
	url, _ := cmd.Flags().GetString("url")
	headless, _ := cmd.Flags().GetBool("headless")
	durationSec, _ := cmd.Flags().GetInt("duration")
	userAgent, _ := cmd.Flags().GetString("user-agent")
	navShots, _ := cmd.Flags().GetBool("nav-shots")

	st, err := openStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	session, err := browser.NewSession(ctx, browser.SessionOptions{
		StartURL:  url,
		Headless:  headless,
		UserAgent: userAgent,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	prov := session.Provider()
	agent := capture.NewAgent(st, limits, redact.New(nil, 0), prov.Navigator, snapshotFunc(st))
	if prior, err := st.RecordingState(); err == nil && prior.IsRecording {
		// An interrupted session left its state behind; adopt its id so
		// the new steps join the same session.
		agent.Restore(prior)
		slog.Info("resuming persisted session", "session", prior.SessionID)
	} else if err := agent.Activate(); err != nil {
		return err
	}
	state := agent.Session()
	ctx = log.ContextWithLogger(ctx, slog.With("session", state.SessionID))
	slog.Info("recording started", "session", state.SessionID, "url", url)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var deadline <-chan time.Time
	if durationSec > 0 {
		deadline = time.After(time.Duration(durationSec) * time.Second)
	}

	captured := 0
loop:
	for {
		select {
		case ev := <-prov.Source.Events():
			agent.Handle(ctx, ev)
			captured++
			if navShots && ev.Kind == "navigation" && ev.Phase == "arriving" {
				if err := captureNavigationShot(ctx, st, prov.Screenshotter, ev.URL); err != nil {
					slog.Warn("navigation screenshot failed", "err", err)
				}
			}
		case <-prov.Source.Done():
			// Browser gone; no further events will arrive.
			slog.Warn("browser session ended, stopping recording")
			break loop
		case <-sigCh:
			break loop
		case <-deadline:
			break loop
		case <-ctx.Done():
			break loop
		}
	}

	if err := agent.Stop(); err != nil {
		return err
	}
	slog.Info("recording stopped", "events", captured)
	return printAction("record", fmt.Sprintf("session %s: %d events observed", state.SessionID, captured))
}

// captureNavigationShot stores a viewport screenshot tagged as a
// navigation capture, so the report can show what each page looked like
// on arrival.
func captureNavigationShot(ctx context.Context, st *store.Store, shooter browser.Screenshotter, url string) error {
	data, viewport, err := shooter.CaptureViewport(ctx)
	if err != nil {
		return err
	}
	shot := model.Screenshot{
		ID:          uuid.NewString(),
		CapturedAt:  time.Now(),
		Kind:        model.ShotNavigation,
		Format:      "png",
		Viewport:    viewport,
		Description: fmt.Sprintf("after navigation to %s", url),
	}
	compressed, reencoded := imaging.NewCodec(limits).Compress(data)
	shot.Data = compressed
	if reencoded {
		shot.Format = "jpeg"
	}
	return st.AddScreenshot(shot)
}

// snapshotFunc renders a plain-text report snapshot on pause/stop. The
// snapshot is stored but does not count toward the dual-report auto-clear.
func snapshotFunc(st *store.Store) capture.SnapshotFunc {
	return func(final bool) error {
		steps, err := st.Steps()
		if err != nil {
			return err
		}
		shots, err := st.Screenshots()
		if err != nil {
			return err
		}
		artifact, err := report.Render(steps, shots, report.FormatText, report.Options{})
		if err != nil {
			return err
		}
		return st.SaveReportSnapshot(model.ReportSnapshot{
			Format:      string(artifact.Format),
			GeneratedAt: time.Now(),
			Data:        artifact.Data,
		})
	}
}
