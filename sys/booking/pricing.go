package booking

import "math"

// AddOn is one extra service line requested by the customer
type AddOn struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Quote is the priced breakdown of a booking request
type Quote struct {
	BaseAmount      float64 `json:"baseAmount"`
	AddOnTotal      float64 `json:"addOnTotal"`
	TravelFeeAmount float64 `json:"travelFeeAmount"`
	DiscountAmount  float64 `json:"discountAmount"`
	TotalAmount     float64 `json:"totalAmount"`
}

// CalculateQuote prices a booking: base rate times duration, plus add-ons and
// travel fee, minus discount. Pure computation, no I/O. The total never goes
// below zero.
func CalculateQuote(baseHourlyPrice, durationHours float64, addOns []AddOn, travelFee, discountAmount float64) Quote {
	quote := Quote{
		BaseAmount:      baseHourlyPrice * durationHours,
		TravelFeeAmount: travelFee,
		DiscountAmount:  discountAmount,
	}

	for _, addOn := range addOns {
		quote.AddOnTotal += addOn.Price
	}

	total := quote.BaseAmount + quote.AddOnTotal + quote.TravelFeeAmount - quote.DiscountAmount
	quote.TotalAmount = math.Max(0, total)

	return quote
}

// TotalCents converts the total to the smallest currency unit, rounding half
// away from zero. Applied once on the total, never per line item.
func (q Quote) TotalCents() int64 {
	return int64(math.Round(q.TotalAmount * 100))
}
