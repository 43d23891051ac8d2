// Package plot implements the plot command.
package plot

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/gaiacmd"
	"github.com/agentstation/gaiacmd/cmd/gaiacmd/context"
	"github.com/agentstation/gaiacmd/internal/cmd/cmdutil"
	"github.com/agentstation/gaiacmd/internal/cmd/output"
	"github.com/agentstation/gaiacmd/internal/cmd/table"
	"github.com/agentstation/gaiacmd/pkg/constants"
	"github.com/agentstation/gaiacmd/pkg/isochrone"
)

// Summary is what the plot command prints after writing the image.
type Summary struct {
	Object    string `json:"object" yaml:"object"`
	Stars     int    `json:"stars" yaml:"stars"`
	Isochrone string `json:"isochrone,omitempty" yaml:"isochrone,omitempty"`
	Output    string `json:"output" yaml:"output"`
}

// NewCommand creates the plot command using app context.
func NewCommand(appCtx context.Context) *cobra.Command {
	var (
		radius float64
		out    string
		bands  *cmdutil.BandFlags
		iso    *cmdutil.IsochroneFlags
	)

	cmd := &cobra.Command{
		Use:     "plot <object>",
		GroupID: "core",
		Short:   "Draw a color-magnitude diagram, optionally with an isochrone",
		Long: `Plot selects Gaia stars around an object and draws their color-magnitude
diagram to an image file. With --isos, the nearest-match isochrone of that
family is overlaid; --logage and --feh are then required and are checked
before any remote service is contacted.

The image format follows the file extension: png, svg, pdf, eps, jpg, tif.`,
		Example: `  gaiacmd plot M67 --radius 10
  gaiacmd plot M67 -r 10 --isos mist --logage 9.6 --feh 0 --dist 850 --out m67.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := gaiacmd.PlotRequest{
				Object:   strings.Join(args, " "),
				Radius:   radius,
				Distance: iso.Distance,
				Output:   out,
			}
			req.LogAge, req.FeH = iso.Targets()

			if cmd.Flags().Changed("isos") {
				family, err := iso.ParseFamily()
				if err != nil {
					return err
				}
				req.Isochrone = &family
			}

			var err error
			if req.Blue, req.Red, req.Mag, err = bands.Bands(); err != nil {
				return err
			}

			client, err := appCtx.Client()
			if err != nil {
				return err
			}

			res, err := client.Plot(cmd.Context(), req)
			if err != nil {
				return err
			}

			return output.FormatAny(appCtx.Stdout(), output.DetectFormat(appCtx.OutputFormat()), summarize(req.Object, res))
		},
	}

	cmd.Flags().Float64VarP(&radius, "radius", "r", 0, "cone radius in arcminutes")
	cmd.Flags().StringVar(&out, "out", constants.DefaultPlotOutput, "image file to write")
	_ = cmd.MarkFlagRequired("radius")
	bands = cmdutil.AddBandFlags(cmd)
	iso = cmdutil.AddIsochroneFlags(cmd, "isos", string(isochrone.FamilyMIST))

	return cmd
}

// TableData implements output.Tabular.
func (s Summary) TableData() output.Data {
	return table.Properties(
		[2]string{"object", s.Object},
		[2]string{"stars", strconv.Itoa(s.Stars)},
		[2]string{"isochrone", s.Isochrone},
		[2]string{"output", s.Output},
	)
}

func summarize(object string, res *gaiacmd.PlotResult) Summary {
	s := Summary{
		Object: object,
		Output: res.Output,
	}
	if res.Selection != nil {
		s.Stars = len(res.Selection.Stars)
	}
	if res.Isochrone != nil {
		s.Isochrone = res.Isochrone.Family.Display() + " " +
			"log age " + formatTwo(res.Isochrone.LogAge) + ", [Fe/H] " + formatTwo(res.Isochrone.FeH)
	}
	return s
}

func formatTwo(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
