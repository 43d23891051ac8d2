package coords

import (
	"math"
	"strconv"
	"strings"

	"github.com/agentstation/gaiacmd/pkg/errors"
)

// ParseSexagesimal parses "HH:MM:SS DD:MM:SS". The first component is in
// hours of right ascension, the second in degrees of declination. Minutes
// and seconds may be omitted, and the last field may carry a fraction.
func ParseSexagesimal(s string) (Coordinate, error) {
	parts, err := split(s, "sexagesimal")
	if err != nil {
		return Coordinate{}, err
	}

	hours, err := parseSexagesimalValue(parts[0])
	if err != nil {
		return Coordinate{}, errors.NewParseError("sexagesimal", "", "right ascension "+strconv.Quote(parts[0]), err)
	}
	dec, err := parseSexagesimalValue(parts[1])
	if err != nil {
		return Coordinate{}, errors.NewParseError("sexagesimal", "", "declination "+strconv.Quote(parts[1]), err)
	}

	return ICRS(hours*15, dec), nil
}

// ParseDegrees parses two decimal-degree values, "RA Dec".
func ParseDegrees(s string) (Coordinate, error) {
	parts, err := split(s, "degrees")
	if err != nil {
		return Coordinate{}, err
	}

	ra, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Coordinate{}, errors.NewParseError("degrees", "", "right ascension "+strconv.Quote(parts[0]), err)
	}
	dec, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Coordinate{}, errors.NewParseError("degrees", "", "declination "+strconv.Quote(parts[1]), err)
	}

	return ICRS(ra, dec), nil
}

// split separates the two coordinate components on whitespace or commas.
func split(s, format string) ([]string, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(parts) != 2 {
		return nil, errors.NewParseError(format, "", "expected 2 components, got "+strconv.Itoa(len(parts)), nil)
	}
	return parts, nil
}

// parseSexagesimalValue converts "[+-]D[:M[:S]]" to decimal units. The sign
// applies to the whole value so "-00:30:00" is -0.5.
func parseSexagesimalValue(s string) (float64, error) {
	sign := 1.0
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	fields := strings.Split(s, ":")
	if len(fields) > 3 {
		return 0, errors.New("too many fields")
	}

	var value float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, err
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errors.New("field out of range: " + f)
		}
		value += v / math.Pow(60, float64(i))
	}
	return sign * value, nil
}
