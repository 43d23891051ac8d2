// Package stars implements the select command.
package stars

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/gaiacmd/cmd/gaiacmd/context"
	"github.com/agentstation/gaiacmd/internal/cmd/output"
)

// NewCommand creates the select command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	var radius float64

	cmd := &cobra.Command{
		Use:     "select <object>",
		GroupID: "core",
		Short:   "List Gaia stars with complete photometry around an object",
		Long: `Select runs a cone search against the Gaia archive and keeps the stars
whose BP, G and RP mean magnitudes are all present.

The archive caps the number of rows (row_limit, 2000 by default); larger
cones are truncated silently.`,
		Example: `  gaiacmd select M67 --radius 10
  gaiacmd select "132.825 11.8" -r 5 --format wide`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := appCtx.Client()
			if err != nil {
				return err
			}

			sel, err := client.Select(cmd.Context(), strings.Join(args, " "), radius)
			if err != nil {
				return err
			}

			format := output.DetectFormat(appCtx.OutputFormat())
			return output.FormatSelection(appCtx.Stdout(), format, sel)
		},
	}

	cmd.Flags().Float64VarP(&radius, "radius", "r", 0, "cone radius in arcminutes")
	_ = cmd.MarkFlagRequired("radius")

	return cmd
}
