// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package tools

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v the way JavaScript's Number-to-String conversion
// does, which is what MCP clients of the calculator expect: shortest
// round-trip digits, plain notation in [1e-6, 1e21) and exponent notation
// outside it.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		// covers negative zero
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	// strconv pads the exponent to two digits ("1e-07").
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
