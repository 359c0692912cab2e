// Package tax implements Indian GST computation: the intrastate CGST/SGST
// split and the interstate IGST levy.
package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	oneHundred = decimal.NewFromInt(100)
	two        = decimal.NewFromInt(2)
)

// Breakdown is the tax split for a taxable amount. Exactly one of the
// CGST/SGST pair or IGST carries the levy; the untaxed amount is echoed
// back unchanged. CGST+SGST+IGST always equals amount*rate/100 exactly:
// SGST is derived as the remainder of the halving so the halves sum back
// to the whole instead of being rounded independently.
type Breakdown struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	CGST       decimal.Decimal `json:"cgst"`
	SGST       decimal.Decimal `json:"sgst"`
	IGST       decimal.Decimal `json:"igst"`
	Total      decimal.Decimal `json:"total"`
	Interstate bool            `json:"is_interstate"`
}

// TaxAmount returns the total levy.
func (b Breakdown) TaxAmount() decimal.Decimal {
	return b.CGST.Add(b.SGST).Add(b.IGST)
}

// ItemBreakdown carries the per-line split amounts and rates persisted on
// document line items as immutable snapshots.
type ItemBreakdown struct {
	CGSTRate   decimal.Decimal `json:"cgst_rate"`
	SGSTRate   decimal.Decimal `json:"sgst_rate"`
	IGSTRate   decimal.Decimal `json:"igst_rate"`
	CGSTAmount decimal.Decimal `json:"cgst_amount"`
	SGSTAmount decimal.Decimal `json:"sgst_amount"`
	IGSTAmount decimal.Decimal `json:"igst_amount"`
}

// TaxAmount returns the total levy for the line.
func (b ItemBreakdown) TaxAmount() decimal.Decimal {
	return b.CGSTAmount.Add(b.SGSTAmount).Add(b.IGSTAmount)
}

// Calculate computes the GST breakdown for a subtotal at ratePercent.
// Zero or negative amount or rate yields all-zero tax fields.
func Calculate(subtotal, ratePercent decimal.Decimal, interstate bool) Breakdown {
	gst := levy(subtotal, ratePercent)

	b := Breakdown{
		Subtotal:   subtotal,
		Total:      subtotal.Add(gst),
		Interstate: interstate,
	}
	if interstate {
		b.IGST = gst
		return b
	}

	half := gst.Div(two)
	b.CGST = half
	b.SGST = gst.Sub(half)
	return b
}

// CalculateItem computes the per-line breakdown for a line total at
// ratePercent. Intrastate lines carry half the rate on each of CGST and
// SGST, mirroring how the split is printed on GST invoices.
func CalculateItem(lineTotal, ratePercent decimal.Decimal, interstate bool) ItemBreakdown {
	gst := levy(lineTotal, ratePercent)

	if interstate {
		return ItemBreakdown{
			IGSTRate:   ratePercent,
			IGSTAmount: gst,
		}
	}

	halfRate := ratePercent.Div(two)
	half := gst.Div(two)
	return ItemBreakdown{
		CGSTRate:   halfRate,
		SGSTRate:   halfRate,
		CGSTAmount: half,
		SGSTAmount: gst.Sub(half),
	}
}

// Interstate reports whether a supply between the seller's state and the
// counterparty's state crosses state lines. Comparison is case-insensitive
// and ignores surrounding whitespace. A missing state on either side is
// treated as intrastate: charging IGST on an incomplete address would be
// wrong more often than not, and the caller can always correct the record.
func Interstate(sellerState, otherState string) bool {
	seller := strings.ToLower(strings.TrimSpace(sellerState))
	other := strings.ToLower(strings.TrimSpace(otherState))
	if seller == "" || other == "" {
		return false
	}
	return seller != other
}

func levy(amount, ratePercent decimal.Decimal) decimal.Decimal {
	if amount.Sign() <= 0 || ratePercent.Sign() <= 0 {
		return decimal.Zero
	}
	return amount.Mul(ratePercent).Div(oneHundred)
}
