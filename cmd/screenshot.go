package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/webtrail/webtrail-cli/internal/browser"
	"github.com/webtrail/webtrail-cli/internal/imaging"
	"github.com/webtrail/webtrail-cli/internal/model"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture a screenshot of a page into the gallery",
	Long: `Open a page, capture the visible viewport (or a custom area) and store the
compressed result in the screenshot gallery. The gallery keeps a bounded
number of entries; the oldest is evicted on overflow.

Examples:
  webtrail screenshot --url https://example.com
  webtrail screenshot --url https://example.com --area 0,0,400,300 --description "step 2"`,
	RunE: runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().String("url", "", "Page URL to open (required)")
	screenshotCmd.Flags().String("area", "", "Crop area as x,y,w,h in page pixels")
	screenshotCmd.Flags().String("description", "", "Description stored with the screenshot (\"step N\" associates it with that step)")
	screenshotCmd.Flags().Bool("headless", true, "Run the browser headless")
	screenshotCmd.Flags().String("output", "", "Also write the image to this file path")
	screenshotCmd.MarkFlagRequired("url")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	url, _ := cmd.Flags().GetString("url")
	areaStr, _ := cmd.Flags().GetString("area")
	description, _ := cmd.Flags().GetString("description")
	headless, _ := cmd.Flags().GetBool("headless")
	outPath, _ := cmd.Flags().GetString("output")

	st, err := openStore()
	if err != nil {
		return err
	}

	session, err := browser.NewSession(cmd.Context(), browser.SessionOptions{
		StartURL: url,
		Headless: headless,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	data, viewport, err := session.Provider().Screenshotter.CaptureViewport(cmd.Context())
	if err != nil {
		return err
	}

	shot := model.Screenshot{
		ID:          uuid.NewString(),
		CapturedAt:  time.Now(),
		Kind:        model.ShotFullPage,
		Format:      "png",
		Viewport:    viewport,
		Description: description,
	}

	if areaStr != "" {
		area, err := parseArea(areaStr)
		if err != nil {
			return err
		}
		cropped, err := imaging.Crop(data, area)
		if err != nil {
			return fmt.Errorf("crop: %w", err)
		}
		data = cropped
		shot.Kind = model.ShotCustomArea
		shot.Crop = &area
	}

	codec := imaging.NewCodec(limits)
	compressed, reencoded := codec.Compress(data)
	shot.Data = compressed
	if reencoded {
		shot.Format = "jpeg"
	}

	if err := st.AddScreenshot(shot); err != nil {
		return err
	}
	if outPath != "" {
		if err := writeFile(outPath, shot.Data); err != nil {
			return err
		}
	}
	return printAction("screenshot", fmt.Sprintf("stored %s (%d bytes)", shot.ID, len(shot.Data)))
}
