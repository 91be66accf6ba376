package cli

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/spf13/cobra"
)

func newLegendCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Print the depth color legend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := domain.LegendBands()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			fmt.Fprintln(out, styleTitle.Render("Depth (km)"))
			for _, e := range entries {
				fmt.Fprintf(out, "%s %s %s\n", swatch(e.Color), pad(e.Label, 6), styleDim.Render(e.Color))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the legend as JSON")
	return cmd
}
