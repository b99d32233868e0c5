package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"containerbase/internal/pdpa"
)

func newRoundGPSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "round-gps [lat] [lon]",
		Short: "Print a coordinate rounded to three decimal places",
		Example: `  pdpactl round-gps 13.7563309 100.5018
  pdpactl round-gps -- -6.2088 106.8456`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q", args[0])
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q", args[1])
			}
			rLat, rLon := pdpa.RoundGPS(lat, lon)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", pdpa.FormatCoordinate(rLat), pdpa.FormatCoordinate(rLon))
			return nil
		},
	}
}
