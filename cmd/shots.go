package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/webtrail/webtrail-cli/internal/output"
)

var shotsCmd = &cobra.Command{
	Use:   "shots",
	Short: "Inspect and manage the screenshot gallery",
}

var shotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List gallery screenshots (metadata only)",
	RunE:  runShotsList,
}

var shotsExportCmd = &cobra.Command{
	Use:   "export <id> <path>",
	Short: "Write one screenshot's image to a file",
	Args:  cobra.ExactArgs(2),
	RunE:  runShotsExport,
}

var shotsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the screenshot gallery",
	RunE:  runShotsClear,
}

func init() {
	rootCmd.AddCommand(shotsCmd)
	shotsCmd.AddCommand(shotsListCmd)
	shotsCmd.AddCommand(shotsExportCmd)
	shotsCmd.AddCommand(shotsClearCmd)
	shotsListCmd.Flags().Bool("pretty", false, "Pretty-print JSON output")
}

func runShotsList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	shots, err := st.Screenshots()
	if err != nil {
		return err
	}

	infos := make([]output.ShotInfo, len(shots))
	for i, shot := range shots {
		infos[i] = output.NewShotInfo(shot)
	}
	return output.Print(output.ShotsResult{
		TS:    time.Now().Unix(),
		Count: len(infos),
		Shots: infos,
	})
}

func runShotsExport(cmd *cobra.Command, args []string) error {
	id, path := args[0], args[1]

	st, err := openStore()
	if err != nil {
		return err
	}
	shots, err := st.Screenshots()
	if err != nil {
		return err
	}
	for _, shot := range shots {
		if shot.ID == id {
			if err := writeFile(path, shot.Data); err != nil {
				return err
			}
			return printAction("shots export", fmt.Sprintf("wrote %d bytes to %s", len(shot.Data), path))
		}
	}
	return fmt.Errorf("screenshot %s not found", id)
}

func runShotsClear(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.ClearScreenshots(); err != nil {
		return err
	}
	return printAction("shots clear", "gallery cleared")
}
