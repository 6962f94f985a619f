package exif

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"geosleuth/types"
)

// ErrInvalidDMS reports GPS tags that are present but cannot be turned into coordinates.
var ErrInvalidDMS = errors.New("invalid DMS GPS data")

// Rational is an unsigned EXIF RATIONAL.
type Rational struct {
	Num int64
	Den int64
}

// DMSToDecimal converts a degrees/minutes/seconds triple to decimal degrees,
// negative for the S and W hemispheres.
func DMSToDecimal(dms []Rational, ref string) (float64, error) {
	if len(dms) < 3 {
		return 0, fmt.Errorf("%w: expected 3 components, got %d", ErrInvalidDMS, len(dms))
	}

	var parts [3]float64
	for i := range parts {
		r := dms[i]
		if r.Den == 0 {
			return 0, fmt.Errorf("%w: zero denominator in component %d", ErrInvalidDMS, i)
		}
		if r.Num < 0 || r.Den < 0 {
			return 0, fmt.Errorf("%w: negative component %d", ErrInvalidDMS, i)
		}
		parts[i] = float64(r.Num) / float64(r.Den)
	}

	dd := parts[0] + parts[1]/60.0 + parts[2]/3600.0

	switch normalizeRef(ref) {
	case "N", "E":
	case "S", "W":
		dd = -dd
	default:
		return 0, fmt.Errorf("%w: unknown reference %q", ErrInvalidDMS, ref)
	}

	return dd, nil
}

func normalizeRef(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}

// coordinates converts both axes and checks hemisphere letters and ranges.
func coordinates(lat []Rational, latRef string, lon []Rational, lonRef string) (*types.GPS, error) {
	if r := normalizeRef(latRef); r != "N" && r != "S" {
		return nil, fmt.Errorf("%w: latitude reference %q", ErrInvalidDMS, latRef)
	}
	if r := normalizeRef(lonRef); r != "E" && r != "W" {
		return nil, fmt.Errorf("%w: longitude reference %q", ErrInvalidDMS, lonRef)
	}

	la, err := DMSToDecimal(lat, latRef)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lo, err := DMSToDecimal(lon, lonRef)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}

	if math.Abs(la) > 90 {
		return nil, fmt.Errorf("%w: latitude %f out of range", ErrInvalidDMS, la)
	}
	if math.Abs(lo) > 180 {
		return nil, fmt.Errorf("%w: longitude %f out of range", ErrInvalidDMS, lo)
	}

	return &types.GPS{Lat: la, Lon: lo}, nil
}
