package services

// PricingEngineDeps carries the storefront pricing configuration.
type PricingEngineDeps struct {
	// DeliveryFeeCents is charged once per non-empty cart.
	DeliveryFeeCents int64
	// TaxRateBasisPoints applies to the subtotal; 100 basis points is 1%.
	TaxRateBasisPoints int64
}

type pricingEngine struct {
	deliveryFeeCents   int64
	taxRateBasisPoints int64
}

// NewPricingEngine constructs the totals calculator. Negative settings are
// treated as zero.
func NewPricingEngine(deps PricingEngineDeps) CartPricer {
	fee := deps.DeliveryFeeCents
	if fee < 0 {
		fee = 0
	}
	rate := deps.TaxRateBasisPoints
	if rate < 0 {
		rate = 0
	}
	return &pricingEngine{
		deliveryFeeCents:   fee,
		taxRateBasisPoints: rate,
	}
}

// Totals computes the order breakdown. An empty cart carries no delivery
// fee; tax rounds down to the cent.
func (e *pricingEngine) Totals(lines []CartLine) OrderTotals {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.LineTotalCents()
	}

	var delivery int64
	if len(lines) > 0 {
		delivery = e.deliveryFeeCents
	}
	tax := subtotal * e.taxRateBasisPoints / 10_000

	return OrderTotals{
		SubtotalCents: subtotal,
		DeliveryCents: delivery,
		TaxCents:      tax,
		TotalCents:    subtotal + delivery + tax,
	}
}
