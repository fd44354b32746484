package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/webtrail/webtrail-cli/internal/model"
	"github.com/webtrail/webtrail-cli/internal/output"
	"github.com/webtrail/webtrail-cli/internal/redact"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Inspect and manage the recorded step log",
}

var stepsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded steps in chronological order",
	RunE:  runStepsList,
}

var stepsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a custom step to the log",
	Long: `Append one step manually. The same dedup policy as live capture applies:
a near-duplicate of an existing step is suppressed.`,
	RunE: runStepsAdd,
}

var stepsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the step log",
	RunE:  runStepsClear,
}

func init() {
	rootCmd.AddCommand(stepsCmd)
	stepsCmd.AddCommand(stepsListCmd)
	stepsCmd.AddCommand(stepsAddCmd)
	stepsCmd.AddCommand(stepsClearCmd)

	stepsListCmd.Flags().Bool("diagnostics", false, "Include console and performance steps")
	stepsListCmd.Flags().Bool("pretty", false, "Pretty-print JSON output")

	stepsAddCmd.Flags().String("kind", "custom", "Step kind (click, input, navigation, custom, ...)")
	stepsAddCmd.Flags().String("target", "", "Target descriptor (CSS-style path)")
	stepsAddCmd.Flags().String("text", "", "Display text")
	stepsAddCmd.Flags().String("field", "", "Field identifier, used for redaction of --text")
	stepsAddCmd.Flags().String("session", "", "Session id to tag the step with")
}

func runStepsList(cmd *cobra.Command, args []string) error {
	includeDiagnostics, _ := cmd.Flags().GetBool("diagnostics")

	st, err := openStore()
	if err != nil {
		return err
	}
	steps, err := st.Steps()
	if err != nil {
		return err
	}

	if !includeDiagnostics {
		filtered := steps[:0]
		for _, s := range steps {
			if s.Kind == model.KindConsole || s.Kind == model.KindPerformance {
				continue
			}
			filtered = append(filtered, s)
		}
		steps = filtered
	}

	return output.Print(output.StepsResult{
		TS:    time.Now().Unix(),
		Count: len(steps),
		Steps: steps,
	})
}

func runStepsAdd(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	target, _ := cmd.Flags().GetString("target")
	text, _ := cmd.Flags().GetString("text")
	field, _ := cmd.Flags().GetString("field")
	session, _ := cmd.Flags().GetString("session")

	st, err := openStore()
	if err != nil {
		return err
	}

	redactor := redact.New(nil, 0)
	step := model.Step{
		Kind:        model.StepKind(kind),
		OccurredAt:  time.Now(),
		Target:      target,
		DisplayText: redactor.Redact(field, text),
		SessionID:   session,
	}
	stored, err := st.Append(step)
	if err != nil {
		return err
	}
	if !stored {
		return printAction("steps add", "suppressed as near-duplicate")
	}
	return printAction("steps add", fmt.Sprintf("appended %s step", kind))
}

func runStepsClear(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.Clear(); err != nil {
		return err
	}
	return printAction("steps clear", "step log cleared")
}
