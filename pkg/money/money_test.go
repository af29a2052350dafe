package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDecimalRoundTrip(t *testing.T) {
	tests := []struct {
		in    string
		paise string
	}{
		{"450", "450"},
		{"120.5", "120.5"},
		{"0.01", "0.01"},
		{"1250.505", "1250.51"}, // rounds to whole paise
	}

	for _, tt := range tests {
		mo := FromDecimal(decimal.RequireFromString(tt.in))
		assert.Equal(t, tt.paise, mo.Decimal().String(), "FromDecimal(%s)", tt.in)
	}
}

func TestAdd(t *testing.T) {
	sum, err := New(45000).Add(New(12050))
	require.NoError(t, err)
	assert.Equal(t, "570.5", sum.Decimal().String())
}

func TestIsZero(t *testing.T) {
	assert.True(t, New(0).IsZero())
	assert.False(t, New(1).IsZero())
}

func TestDisplay(t *testing.T) {
	// Exact symbol placement belongs to go-money; we only rely on value
	// and symbol being present.
	d := New(1250050).Display()
	assert.Contains(t, d, "12,500.50")
	assert.Contains(t, d, "₹")
}
