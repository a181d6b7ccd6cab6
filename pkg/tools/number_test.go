// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package tools

import (
	"math"
	"testing"
)

// Computed at run time; constant expressions would be folded exactly.
func sum(a, b float64) float64      { return a + b }
func quotient(a, b float64) float64 { return a / b }

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 5, want: "5"},
		{in: -3, want: "-3"},
		{in: sum(0.1, 0.2), want: "0.30000000000000004"},
		{in: 2.5, want: "2.5"},
		{in: quotient(10, 3), want: "3.3333333333333335"},
		{in: 123456789012, want: "123456789012"},
		{in: 1e20, want: "100000000000000000000"},
		{in: 1e21, want: "1e+21"},
		{in: -1.5e300, want: "-1.5e+300"},
		{in: 0.000001, want: "0.000001"},
		{in: 1e-7, want: "1e-7"},
		{in: 1.25e-10, want: "1.25e-10"},
		{in: math.Copysign(0, -1), want: "0"},
		{in: math.Inf(1), want: "Infinity"},
		{in: math.Inf(-1), want: "-Infinity"},
		{in: math.NaN(), want: "NaN"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
