package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculate_Intrastate(t *testing.T) {
	b := Calculate(dec("1000"), dec("18"), false)

	assert.True(t, b.CGST.Equal(dec("90")))
	assert.True(t, b.SGST.Equal(dec("90")))
	assert.True(t, b.IGST.IsZero())
	assert.True(t, b.Total.Equal(dec("1180")))
	assert.False(t, b.Interstate)
}

func TestCalculate_Interstate(t *testing.T) {
	b := Calculate(dec("1000"), dec("18"), true)

	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
	assert.True(t, b.IGST.Equal(dec("180")))
	assert.True(t, b.Total.Equal(dec("1180")))
	assert.True(t, b.Interstate)
}

func TestCalculate_ZeroInputs(t *testing.T) {
	for _, tc := range []struct {
		name     string
		subtotal string
		rate     string
	}{
		{"zero amount", "0", "18"},
		{"zero rate", "1000", "0"},
		{"both zero", "0", "0"},
		{"negative amount", "-50", "18"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := Calculate(dec(tc.subtotal), dec(tc.rate), false)
			assert.True(t, b.TaxAmount().IsZero())
			assert.True(t, b.Total.Equal(dec(tc.subtotal)))
		})
	}
}

// The halves must sum back to the whole even when the levy does not split
// evenly, so the SGST side absorbs the remainder.
func TestCalculate_SplitIsExact(t *testing.T) {
	cases := []struct {
		subtotal   string
		rate       string
		interstate bool
	}{
		{"1000", "18", false},
		{"1000", "18", true},
		{"1", "3", false},
		{"999.99", "12", false},
		{"0.01", "28", false},
		{"123.45", "5", true},
		{"7777.77", "18", false},
	}

	for _, tc := range cases {
		b := Calculate(dec(tc.subtotal), dec(tc.rate), tc.interstate)
		want := dec(tc.subtotal).Mul(dec(tc.rate)).Div(decimal.NewFromInt(100))

		assert.True(t, b.TaxAmount().Equal(want),
			"subtotal=%s rate=%s interstate=%v: got %s want %s",
			tc.subtotal, tc.rate, tc.interstate, b.TaxAmount(), want)

		if tc.interstate {
			assert.True(t, b.CGST.IsZero())
			assert.True(t, b.SGST.IsZero())
		} else {
			assert.True(t, b.IGST.IsZero())
			assert.True(t, b.CGST.Equal(b.SGST), "cgst=%s sgst=%s", b.CGST, b.SGST)
		}
	}
}

func TestCalculateItem_RatesSplit(t *testing.T) {
	intra := CalculateItem(dec("200"), dec("18"), false)
	require.True(t, intra.CGSTRate.Equal(dec("9")))
	require.True(t, intra.SGSTRate.Equal(dec("9")))
	require.True(t, intra.IGSTRate.IsZero())
	assert.True(t, intra.CGSTAmount.Equal(dec("18")))
	assert.True(t, intra.SGSTAmount.Equal(dec("18")))

	inter := CalculateItem(dec("200"), dec("18"), true)
	require.True(t, inter.IGSTRate.Equal(dec("18")))
	assert.True(t, inter.IGSTAmount.Equal(dec("36")))
	assert.True(t, inter.CGSTAmount.IsZero())
	assert.True(t, inter.SGSTAmount.IsZero())
}

func TestInterstate(t *testing.T) {
	for _, tc := range []struct {
		seller string
		other  string
		want   bool
	}{
		{"Maharashtra", "Gujarat", true},
		{"Maharashtra", "Maharashtra", false},
		{"maharashtra", "MAHARASHTRA", false},
		{"  Kerala ", "kerala", false},
		{"Kerala", "", false},
		{"", "Kerala", false},
		{"", "", false},
	} {
		assert.Equal(t, tc.want, Interstate(tc.seller, tc.other),
			"seller=%q other=%q", tc.seller, tc.other)
	}
}
