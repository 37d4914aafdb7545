package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{50, "50.0"},
		{8, "8.0"},
		{0, "0.0"},
		{3.34, "3.34"},
		{1.0 / 3, "0.3333333333333333"},
		{-12.5, "-12.5"},
		{0.001, "0.001"},
		{9999999.5, "9999999.5"},
		{1e7, "1.0E7"},
		{12345678.9, "1.23456789E7"},
		{4.440892098500626e-16, "4.440892098500626E-16"},
		{0.0005, "5.0E-4"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.in))
		})
	}
}

func TestTruncateCents(t *testing.T) {
	assert.Equal(t, 3.33, truncateCents(10.0/3))
	assert.Equal(t, 11.66, truncateCents(35.0/3))
	assert.Equal(t, -3.33, truncateCents(-10.0/3))
	assert.Equal(t, 50.0, truncateCents(50))
}
