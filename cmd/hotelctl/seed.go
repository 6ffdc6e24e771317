package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_booking/internal/seed"
)

func newSeedCmd(g *globalOpts) *cobra.Command {
	var (
		file    string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create hotels, rooms and bookings from a JSON seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required (or set SEED_FILE)")
			}
			f, err := seed.Load(file)
			if err != nil {
				return err
			}
			cl, err := g.client()
			if err != nil {
				return err
			}
			log.Debug().Str("file", file).Int("workers", workers).Str("api", g.api).Msg("seeding")

			rep, err := seed.Run(cmd.Context(), cl, f, workers)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded hotels=%d rooms=%d bookings=%d failed=%d\n",
				rep.Hotels, rep.Rooms, rep.Bookings, rep.FailedBookings)
			if rep.FailedBookings > 0 {
				return fmt.Errorf("%d bookings failed", rep.FailedBookings)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", g.cfg.SeedFile, "seed file path (SEED_FILE)")
	cmd.Flags().IntVar(&workers, "workers", g.cfg.SeedWorkers, "concurrent booking requests (SEED_WORKERS)")
	return cmd
}
