// Package pricing computes checkout totals. Every flow uses the same policy:
// the per-page tax and shipping constants of the old storefront were collapsed
// into one configurable rule set.
package pricing

import "math"

type Policy struct {
	TaxRate         float64
	ShippingFee     float64
	FreeShippingMin float64
}

func DefaultPolicy() Policy {
	return Policy{
		TaxRate:         0.18,
		ShippingFee:     10,
		FreeShippingMin: 100,
	}
}

type Line struct {
	Price float64
	Qty   uint
}

type Totals struct {
	Subtotal float64 `json:"itemsPrice"`
	Shipping float64 `json:"shippingPrice"`
	Tax      float64 `json:"taxPrice"`
	Total    float64 `json:"totalPrice"`
}

// Quote computes subtotal, shipping and tax for a set of lines.
// subtotal = sum(price*qty), tax = subtotal*rate, shipping is the flat fee
// waived at or above FreeShippingMin. Values are rounded to cents.
func (p Policy) Quote(lines []Line) Totals {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.Price * float64(l.Qty)
	}
	subtotal = Round2(subtotal)

	shipping := p.ShippingFee
	if subtotal >= p.FreeShippingMin {
		shipping = 0
	}

	tax := Round2(subtotal * p.TaxRate)

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    Round2(subtotal + shipping + tax),
	}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
