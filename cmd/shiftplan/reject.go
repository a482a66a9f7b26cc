package main

import (
	"github.com/spf13/cobra"

	"github.com/shiftplan/shiftplan/pkg/nlpatch"
)

var rejectPatchID int64

var rejectCmd = &cobra.Command{
	Use:   "reject",
	Short: "Reject a pending NL patch, discarding its rebuilt schedule",
	RunE:  runReject,
}

func init() {
	rejectCmd.Flags().Int64Var(&rejectPatchID, "patch-id", 0, "patch log id to reject (required)")
	rejectCmd.MarkFlagRequired("patch-id")
}

func runReject(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, closeFn, categories, params, _, err := setup(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	engine := nlpatch.NewEngine(st, params, categories)
	if err := engine.Reject(ctx, rejectPatchID); err != nil {
		return fail("rejecting patch %d: %w", rejectPatchID, err)
	}
	warningColor.Printf("patch %d rejected, rebuilt schedule discarded\n", rejectPatchID)
	return nil
}
