package main

import (
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/shiftplan/shiftplan/pkg/model"
)

var showMonth string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Render the current schedule for a month as a grid of employees x dates",
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showMonth, "month", "", "target month, YYYY-MM (required)")
	showCmd.MarkFlagRequired("month")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, closeFn, categories, _, _, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	schedule, err := st.GetCurrentSchedule(ctx, showMonth)
	if err != nil {
		return fail("loading current schedule for %s: %w", showMonth, err)
	}
	assignments, err := st.GetAssignments(ctx, schedule.ID)
	if err != nil {
		return fail("loading assignments for schedule %d: %w", schedule.ID, err)
	}
	instance, err := st.LoadProblemInstance(ctx, showMonth)
	if err != nil {
		return fail("loading employee roster for %s: %w", showMonth, err)
	}

	categoryNames := make(map[int]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	cells := make(map[model.AssignmentKey]*model.Assignment, len(assignments))
	var dates []string
	seenDates := make(map[string]bool)
	for _, a := range assignments {
		cells[a.Key()] = a
		d := model.ISODate(a.Date)
		if !seenDates[d] {
			seenDates[d] = true
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	headerColor.Printf("schedule %d for %s (%s)\n", schedule.ID, schedule.TargetMonth, schedule.Status)

	header := append([]string{"Employee"}, dates...)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	for _, emp := range instance.Employees {
		row := make([]string, 0, len(dates)+1)
		row = append(row, emp.Name)
		for _, d := range dates {
			a, ok := cells[model.AssignmentKey{EmployeeID: emp.ID, Date: d}]
			row = append(row, cellLabel(a, ok, categoryNames))
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

func cellLabel(a *model.Assignment, ok bool, categoryNames map[int]string) string {
	if !ok || a.IsOff() || a.JobCategoryID == nil {
		return "-"
	}
	if name, ok := categoryNames[*a.JobCategoryID]; ok {
		return name
	}
	return "?"
}
