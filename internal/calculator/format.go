package calculator

import (
	"math"
	"strconv"
	"strings"
)

// truncateCents drops everything past the second decimal, toward zero.
func truncateCents(v float64) float64 {
	return math.Trunc(v*100) / 100
}

// FormatAmount renders v as its shortest round-trip decimal with at least one
// fractional digit: 50 -> "50.0", 3.34 -> "3.34".
// Magnitudes below 1e-3 or from 1e7 up use scientific notation ("1.0E7",
// "4.440892098500626E-16") so float noise stays readable in instructions.
func FormatAmount(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	// strconv gives "4.440892098500626e-16" / "1e+07".
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(n)
}
