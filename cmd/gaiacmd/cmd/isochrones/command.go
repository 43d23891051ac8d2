// Package isochrones implements the isochrone command.
package isochrones

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/gaiacmd/cmd/gaiacmd/context"
	"github.com/agentstation/gaiacmd/internal/cmd/cmdutil"
	"github.com/agentstation/gaiacmd/internal/cmd/output"
	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/isochrone"
)

// NewCommand creates the isochrone command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	var (
		bands *cmdutil.BandFlags
		iso   *cmdutil.IsochroneFlags
	)

	cmd := &cobra.Command{
		Use:     "isochrone",
		GroupID: "core",
		Short:   "Print the nearest-match MIST or PARSEC isochrone",
		Long: `Isochrone loads the model grid for a family and prints the points at the
grid age and metallicity closest to the requested values. Age and
metallicity are matched independently and never interpolated. The grid
values actually used are logged.`,
		Example: `  gaiacmd isochrone --logage 9.6 --feh 0
  gaiacmd isochrone --logage 9.6 --feh 0 --dist 850 --family parsec --mag g`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := request(bands, iso)
			if err != nil {
				return err
			}

			client, err := appCtx.Client()
			if err != nil {
				return err
			}

			res, err := client.Isochrone(cmd.Context(), req)
			if err != nil {
				return err
			}

			format := output.DetectFormat(appCtx.OutputFormat())
			return output.FormatIsochrone(appCtx.Stdout(), format, res)
		},
	}

	bands = cmdutil.AddBandFlags(cmd)
	iso = cmdutil.AddIsochroneFlags(cmd, "family", string(isochrone.FamilyMIST))

	return cmd
}

func request(bands *cmdutil.BandFlags, iso *cmdutil.IsochroneFlags) (isochrone.Request, error) {
	logAge, feh := iso.Targets()
	var missing []string
	if logAge == nil {
		missing = append(missing, "logage")
	}
	if feh == nil {
		missing = append(missing, "feh")
	}
	if len(missing) > 0 {
		return isochrone.Request{}, errors.NewMissingParameterError("an isochrone needs both logage and feh", missing...)
	}

	family, err := iso.ParseFamily()
	if err != nil {
		return isochrone.Request{}, err
	}
	blue, red, mag, err := bands.Bands()
	if err != nil {
		return isochrone.Request{}, err
	}

	return isochrone.Request{
		LogAge:   *logAge,
		FeH:      *feh,
		Distance: iso.Distance,
		Blue:     blue,
		Red:      red,
		Mag:      mag,
		Family:   family,
	}, nil
}
