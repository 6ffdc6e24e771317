package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hotel_booking/internal/domain"
)

func newBookCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "book HOTEL ROOM DATE",
		Short: "Book a room for a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, date, err := parseBooking(args[1], args[2])
			if err != nil {
				return err
			}
			cl, err := g.client()
			if err != nil {
				return err
			}
			id, err := cl.ResolveHotel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			price, err := cl.BookRoom(cmd.Context(), id, number, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "booked room %d on %s, price: %s\n", number, date, domain.FormatPrice(price))
			return nil
		},
	}
}

func newCancelCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel HOTEL ROOM DATE",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, date, err := parseBooking(args[1], args[2])
			if err != nil {
				return err
			}
			cl, err := g.client()
			if err != nil {
				return err
			}
			id, err := cl.ResolveHotel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := cl.CancelRoom(cmd.Context(), id, number, date); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cancelled room %d on %s\n", number, date)
			return nil
		},
	}
}

func newListCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list HOTEL",
		Short: "List a hotel's reservations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := g.client()
			if err != nil {
				return err
			}
			id, err := cl.ResolveHotel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			page, err := cl.ListReservations(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(page.Lines) == 0 {
				fmt.Fprintln(out, "no reservations")
				return nil
			}
			for _, l := range page.Lines {
				fmt.Fprintln(out, l)
			}
			return nil
		},
	}
}
