package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/shiftplan/shiftplan/pkg/sched/optimizer"
)

var generateMonth string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the optimizer and persist a new preview schedule for a month",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateMonth, "month", "", "target month, YYYY-MM (required)")
	generateCmd.MarkFlagRequired("month")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, closeFn, categories, params, _, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := optimizer.Generate(ctx, st, generateMonth, categories, params, nil)
	if err != nil {
		return fail("generating schedule for %s: %w", generateMonth, err)
	}

	successColor.Printf("schedule %d generated for %s (%d assignments)\n", result.ScheduleID, generateMonth, len(result.Assignments))

	if len(result.Violations) == 0 {
		infoColor.Println("no staffing shortages")
		return nil
	}

	warningColor.Println("staffing shortages:")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Shortage"})
	for _, v := range result.Violations {
		table.Append([]string{v})
	}
	table.Render()
	fmt.Fprintln(os.Stdout)
	return nil
}
