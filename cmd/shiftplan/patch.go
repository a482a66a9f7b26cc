package main

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/shiftplan/shiftplan/pkg/apperr"
	"github.com/shiftplan/shiftplan/pkg/nlpatch"
)

var (
	patchMonth           string
	patchInstruction     string
	patchRawResponsePath string
)

// patchCmd dispatches an already-produced LLM response against the current
// schedule for a month. Producing that response is the oracle's job (spec
// §4.5); this module only consumes its output, so callers pass it in via
// --raw-response-file rather than the CLI calling out to a model itself.
var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Apply a parsed natural-language edit list against the current schedule",
	RunE:  runPatch,
}

func init() {
	patchCmd.Flags().StringVar(&patchMonth, "month", "", "target month, YYYY-MM (required)")
	patchCmd.Flags().StringVar(&patchInstruction, "instruction", "", "the original natural-language instruction, recorded in the patch log")
	patchCmd.Flags().StringVar(&patchRawResponsePath, "raw-response-file", "", "path to the oracle's raw JSON edit-list response (required)")
	patchCmd.MarkFlagRequired("month")
	patchCmd.MarkFlagRequired("raw-response-file")
}

func runPatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, closeFn, categories, params, cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if !cfg.Nlp.IsConfigured() {
		return apperr.NlpNotConfigured()
	}

	raw, err := os.ReadFile(patchRawResponsePath)
	if err != nil {
		return fail("reading raw response file %s: %w", patchRawResponsePath, err)
	}

	engine := nlpatch.NewEngine(st, params, categories)
	newScheduleID, patchLogID, diffs, err := engine.Dispatch(ctx, patchMonth, patchInstruction, string(raw))
	if err != nil {
		return fail("dispatching patch for %s: %w", patchMonth, err)
	}

	successColor.Printf("schedule %d created from patch (%d cells changed)\n", newScheduleID, len(diffs))
	if len(diffs) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Employee", "Date", "Before", "After"})
	for _, d := range diffs {
		table.Append([]string{d.EmployeeName, d.Date, d.Before, d.After})
	}
	table.Render()
	infoColor.Printf("review the diff above, then approve or reject with --patch-id %d\n", patchLogID)
	return nil
}
