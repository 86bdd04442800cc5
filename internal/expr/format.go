package expr

import (
	"math"
	"strconv"
	"strings"
)

// MaxDisplayLength is the widest string the calculator display can show.
const MaxDisplayLength = 18

// roundingScale suppresses floating-point noise below 10 decimal places.
const roundingScale = 1e10

// smallThreshold is the magnitude below which results print in exponential
// form, e.g. 5e-8 instead of 0.00000005.
const smallThreshold = 1e-6

// FormatNumber renders v for the display. The value is rounded to 10
// decimal places and printed in its shortest decimal form. Magnitudes below
// 1e-6 print in shortest exponential form; renderings longer than
// MaxDisplayLength switch to exponential notation with 6 fractional digits.
// Exponents carry no '+' and no leading zeros so the output tokenizes as one
// number.
func FormatNumber(v float64) string {
	rounded := v
	// Beyond 1e15 a float64 has no fractional digits left to round, and the
	// scaled value could overflow.
	if math.Abs(v) < 1e15 {
		rounded = math.Floor(v*roundingScale+0.5) / roundingScale
	}
	if rounded == 0 {
		return "0" // also drops the sign of negative zero
	}

	if math.Abs(rounded) < smallThreshold {
		return trimExponent(strconv.FormatFloat(rounded, 'e', -1, 64))
	}

	s := strconv.FormatFloat(rounded, 'f', -1, 64)
	if len(s) > MaxDisplayLength {
		s = trimExponent(strconv.FormatFloat(rounded, 'e', 6, 64))
	}

	return s
}

// trimExponent turns "1.5e+07" into "1.5e7" and "5e-08" into "5e-8".
func trimExponent(s string) string {
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}

	sign := ""
	if exp[0] == '-' {
		sign = "-"
	}
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
