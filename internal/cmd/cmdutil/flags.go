// Package cmdutil provides shared flags for gaiacmd commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/gaiacmd/pkg/errors"
	"github.com/agentstation/gaiacmd/pkg/isochrone"
)

// BandFlags holds the color and magnitude band selectors.
type BandFlags struct {
	Blue string
	Red  string
	Mag  string
}

// AddBandFlags adds --blue, --red and --mag to a command.
func AddBandFlags(cmd *cobra.Command) *BandFlags {
	flags := &BandFlags{}

	cmd.Flags().StringVar(&flags.Blue, "blue", "bp",
		"Blue band of the color index: bp, g, rp")
	cmd.Flags().StringVar(&flags.Red, "red", "rp",
		"Red band of the color index: bp, g, rp")
	cmd.Flags().StringVar(&flags.Mag, "mag", "rp",
		"Magnitude axis band: bp, g, rp")

	return flags
}

// Bands parses the three selectors.
func (f *BandFlags) Bands() (blue, red, mag isochrone.Band, err error) {
	if blue, err = parseBand("blue", f.Blue); err != nil {
		return
	}
	if red, err = parseBand("red", f.Red); err != nil {
		return
	}
	mag, err = parseBand("mag", f.Mag)
	return
}

func parseBand(flag, value string) (isochrone.Band, error) {
	b, err := isochrone.ParseBand(value)
	if err != nil {
		return "", errors.WrapValidation(flag, err)
	}
	return b, nil
}

// IsochroneFlags holds the isochrone target. LogAge and FeH are only
// meaningful when the matching flag was set; see Targets.
type IsochroneFlags struct {
	LogAge   float64
	FeH      float64
	Distance float64
	Family   string

	cmd *cobra.Command
}

// AddIsochroneFlags adds --logage, --feh, --dist and the family flag
// (named familyFlag, "family" or "isos") to a command.
func AddIsochroneFlags(cmd *cobra.Command, familyFlag, defaultFamily string) *IsochroneFlags {
	flags := &IsochroneFlags{cmd: cmd}

	cmd.Flags().Float64Var(&flags.LogAge, "logage", 0,
		"Target log10 age in years, e.g. 9.6")
	cmd.Flags().Float64Var(&flags.FeH, "feh", 0,
		"Target metallicity [Fe/H], e.g. 0.0")
	cmd.Flags().Float64Var(&flags.Distance, "dist", 10,
		"Distance in parsecs used to shift absolute magnitudes")
	cmd.Flags().StringVar(&flags.Family, familyFlag, defaultFamily,
		"Isochrone model family: mist, parsec")

	return flags
}

// Targets returns pointers to the age and metallicity, nil for unset flags.
func (f *IsochroneFlags) Targets() (logAge, feh *float64) {
	if f.cmd.Flags().Changed("logage") {
		v := f.LogAge
		logAge = &v
	}
	if f.cmd.Flags().Changed("feh") {
		v := f.FeH
		feh = &v
	}
	return logAge, feh
}

// ParseFamily parses the family flag.
func (f *IsochroneFlags) ParseFamily() (isochrone.Family, error) {
	return isochrone.ParseFamily(f.Family)
}
