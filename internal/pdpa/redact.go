package pdpa

import (
	"strconv"
	"strings"
)

const maskedLocalPart = "***"

// MaskEmail replaces the whole local part of an email with "***" and keeps
// the domain. Input without '@', or with nothing after the first '@', is
// returned unchanged.
func MaskEmail(email string) string {
	_, domain, found := strings.Cut(email, "@")
	if !found || domain == "" {
		return email
	}
	return maskedLocalPart + "@" + domain
}

// gpsPrecision is the number of decimal places kept for coordinates.
const gpsPrecision = 3

// RoundGPS generalises a coordinate pair to three decimal places. Ranges are
// not validated. NaN and infinities come back unchanged.
func RoundGPS(latitude, longitude float64) (float64, float64) {
	return roundTo(latitude, gpsPrecision), roundTo(longitude, gpsPrecision)
}

// roundTo rounds v to prec decimal places by formatting the exact binary value
// with correct rounding (exact ties resolve to even) and parsing it back.
func roundTo(v float64, prec int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', prec, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// FormatCoordinate renders a rounded coordinate with exactly three decimals,
// zero padded, e.g. "13.750".
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', gpsPrecision, 64)
}
