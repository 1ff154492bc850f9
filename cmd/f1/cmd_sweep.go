package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired verification and referral codes",
		RunE:  runSweep,
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	deleted, err := b.codes.Sweep(ctx)
	if err != nil {
		return err
	}
	log.Info().Int64("deleted", deleted).Msg("sweep complete")
	return nil
}
