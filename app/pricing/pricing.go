// Package pricing computes sale totals and splits revenue across the
// ingredients that produced it. Arithmetic runs on shopspring/decimal;
// callers round at presentation boundaries only.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Addition is an extra charged on top of the discounted item price.
type Addition struct {
	Name  string
	Price float64
}

// Quote is the full price breakdown for one sale.
type Quote struct {
	OriginalPrice      float64
	DiscountApplied    bool
	DiscountPercentage float64
	DiscountedPrice    float64
	AdditionsTotal     float64
	FinalPrice         float64
}

// Compute prices a sale of quantity units at unitPrice, applying the discount
// percentage when active and stacking additions on the discounted price.
func Compute(unitPrice float64, quantity int, discountActive bool, discountPercentage float64, additions []Addition) Quote {
	original := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))

	discounted := original
	if discountActive && discountPercentage > 0 {
		pct := decimal.NewFromFloat(discountPercentage).Div(decimal.NewFromInt(100))
		discounted = original.Mul(decimal.NewFromInt(1).Sub(pct))
	}

	extras := decimal.Zero
	for _, a := range additions {
		extras = extras.Add(decimal.NewFromFloat(a.Price))
	}

	final := discounted.Add(extras)

	originalF, _ := original.Float64()
	discountedF, _ := discounted.Float64()
	extrasF, _ := extras.Float64()
	finalF, _ := final.Float64()

	return Quote{
		OriginalPrice:      originalF,
		DiscountApplied:    discountActive && discountPercentage > 0,
		DiscountPercentage: discountPercentage,
		DiscountedPrice:    discountedF,
		AdditionsTotal:     extrasF,
		FinalPrice:         finalF,
	}
}

// Share is one ingredient's slice of the sale revenue.
type Share struct {
	SaleShare float64
	Profit    float64
}

// Apportion splits the discounted sale price across ingredient costs in
// proportion to each cost. When the total cost is zero every per-ingredient
// share and profit is zero, while the total profit is still the full
// discounted price.
func Apportion(discountedPrice float64, costs []float64) (shares []Share, totalProfit float64) {
	total := decimal.Zero
	for _, c := range costs {
		total = total.Add(decimal.NewFromFloat(c))
	}

	price := decimal.NewFromFloat(discountedPrice)
	shares = make([]Share, len(costs))
	if total.IsZero() {
		totalProfit, _ = price.Float64()
		return shares, totalProfit
	}

	for i, c := range costs {
		cost := decimal.NewFromFloat(c)
		share := cost.Div(total).Mul(price)
		shareF, _ := share.Float64()
		profitF, _ := share.Sub(cost).Float64()
		shares[i] = Share{SaleShare: shareF, Profit: profitF}
	}

	totalProfit, _ = price.Sub(total).Float64()
	return shares, totalProfit
}
