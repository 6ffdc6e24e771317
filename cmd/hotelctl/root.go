package main

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_booking/internal/adapters/apiclient"
	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
)

type globalOpts struct {
	api     string
	rps     int
	verbose bool
	cfg     shared.Config
}

func (g *globalOpts) client() (*apiclient.Client, error) {
	return apiclient.New(g.api, g.rps)
}

func newRootCmd() *cobra.Command {
	g := &globalOpts{cfg: shared.Load()}

	root := &cobra.Command{
		Use:           "hotelctl",
		Short:         "Manage hotel rooms and bookings through the booking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = observability.NewLogger(observability.CLILogs(g.verbose))
		},
	}
	root.PersistentFlags().StringVar(&g.api, "api", g.cfg.APIURL, "booking API base URL (HOTEL_API_URL)")
	root.PersistentFlags().IntVar(&g.rps, "rps", 10, "client-side request rate limit")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(newHotelsCmd(g))
	root.AddCommand(newRoomsCmd(g))
	root.AddCommand(newBookCmd(g))
	root.AddCommand(newCancelCmd(g))
	root.AddCommand(newListCmd(g))
	root.AddCommand(newSeedCmd(g))
	return root
}

// parseBooking reads the ROOM and DATE positional arguments.
func parseBooking(room, date string) (int, domain.Date, error) {
	n, err := strconv.Atoi(room)
	if err != nil {
		return 0, domain.Date{}, fmt.Errorf("invalid room number %q", room)
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return 0, domain.Date{}, err
	}
	return n, d, nil
}
