package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusFor(t *testing.T) {
	d := decimal.RequireFromString

	cases := []struct {
		name  string
		paid  decimal.Decimal
		total decimal.Decimal
		want  string
	}{
		{"zero paid", d("0"), d("500"), PaymentUnpaid},
		{"negative paid", d("-10"), d("500"), PaymentUnpaid},
		{"partial", d("200"), d("500"), PaymentPartial},
		{"one paisa short", d("499.99"), d("500"), PaymentPartial},
		{"exact", d("500"), d("500"), PaymentPaid},
		{"over", d("600"), d("500"), PaymentPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PaymentStatusFor(tc.paid, tc.total))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusDraft, StatusSent, StatusPaid, StatusCancelled} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("shipped"))
	assert.False(t, ValidStatus(""))
}

func TestBalance(t *testing.T) {
	inv := Invoice{
		Total:      decimal.RequireFromString("590"),
		AmountPaid: decimal.RequireFromString("200"),
	}
	assert.Equal(t, "390", inv.Balance().String())
}
