// Package resolve implements the resolve command.
package resolve

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/gaiacmd/cmd/gaiacmd/context"
	"github.com/agentstation/gaiacmd/internal/cmd/output"
)

// NewCommand creates the resolve command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:     "resolve <object>",
		GroupID: "core",
		Short:   "Resolve an object name or coordinate string to ICRS degrees",
		Long: `Resolve turns an object identifier into an ICRS position.

Identifiers containing a letter are sent to the CDS Sesame name resolver.
Anything else is parsed locally: "HH:MM:SS DD:MM:SS" when it contains a
colon, two decimal degree values otherwise.`,
		Example: `  gaiacmd resolve M67
  gaiacmd resolve "08:51:18 +11:48:00"
  gaiacmd resolve "132.825 11.8"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			object := strings.Join(args, " ")

			client, err := appCtx.Client()
			if err != nil {
				return err
			}

			pos, err := client.Resolve(cmd.Context(), object)
			if err != nil {
				return err
			}

			format := output.DetectFormat(appCtx.OutputFormat())
			return output.FormatCoordinate(appCtx.Stdout(), format, object, pos)
		},
	}
}
