package main

import (
	"github.com/spf13/cobra"

	"github.com/shiftplan/shiftplan/pkg/nlpatch"
)

var approvePatchID int64

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve a pending NL patch, keeping its rebuilt schedule",
	RunE:  runApprove,
}

func init() {
	approveCmd.Flags().Int64Var(&approvePatchID, "patch-id", 0, "patch log id to approve (required)")
	approveCmd.MarkFlagRequired("patch-id")
}

func runApprove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, closeFn, categories, params, _, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	engine := nlpatch.NewEngine(st, params, categories)
	if err := engine.Approve(ctx, approvePatchID); err != nil {
		return fail("approving patch %d: %w", approvePatchID, err)
	}
	successColor.Printf("patch %d approved\n", approvePatchID)
	return nil
}
