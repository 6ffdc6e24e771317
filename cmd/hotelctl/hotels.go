package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hotel_booking/internal/domain"
)

func newHotelsCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotels",
		Short: "Manage hotels",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List hotels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := g.client()
			if err != nil {
				return err
			}
			hs, err := cl.ListHotels(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, h := range hs {
				fmt.Fprintf(out, "%s\t%s\trooms=%d\n", h.ID, h.Name, len(h.Rooms))
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create a hotel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := g.client()
			if err != nil {
				return err
			}
			h, err := cl.CreateHotel(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created hotel id=%s name=%q\n", h.ID, h.Name)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show HOTEL",
		Short: "Describe a hotel's rooms",
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
			h, err := cl.GetHotel(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", h.Name, h.ID)
			for _, r := range h.Rooms {
				fmt.Fprintln(out, r.Description)
			}
			return nil
		},
	})
	return cmd
}

func newRoomsCmd(g *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Manage a hotel's rooms",
	}

	var (
		variant string
		number  int
		price   float64
	)
	add := &cobra.Command{
		Use:   "add HOTEL",
		Short: "Register a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVariantFlag(variant)
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
			if err := cl.RegisterRoom(cmd.Context(), id, v, number, price); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", domain.Describe(v, number, price))
			return nil
		},
	}
	add.Flags().StringVar(&variant, "variant", "", "room variant: single-bed (single) or double-bed (double)")
	add.Flags().IntVar(&number, "number", 0, "room number")
	add.Flags().Float64Var(&price, "price", 0, "nightly price")
	_ = add.MarkFlagRequired("variant")
	_ = add.MarkFlagRequired("number")
	_ = add.MarkFlagRequired("price")

	cmd.AddCommand(add)
	return cmd
}

// parseVariantFlag lets the command line use "single" and "double" as
// shorthands. The API itself only takes the full names.
func parseVariantFlag(s string) (domain.Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return domain.SingleBed, nil
	case "double":
		return domain.DoubleBed, nil
	}
	return domain.ParseVariant(s)
}
