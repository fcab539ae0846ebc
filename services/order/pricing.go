package order

import (
	"kigalimove/models"

	"github.com/shopspring/decimal"
)

// Prices in RWF.
const (
	ServiceFee       int64 = 15000
	TransportPrice   int64 = 40000
	HelperPrice      int64 = 10000
	CleaningPrice    int64 = 5000
	KeyDeliveryPrice int64 = 5000
)

var vipMultiplier = decimal.NewFromFloat(1.5)

// PriceLine is one billable line of an order.
type PriceLine struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// PriceLines itemises the undiscounted, non-VIP price of a service selection.
// The flat service fee is always the first line.
func PriceLines(s models.Services) []PriceLine {
	lines := []PriceLine{{Name: models.ServiceFeeLine, Amount: ServiceFee}}
	for _, kind := range s.Requested() {
		switch kind {
		case models.ServiceTransport:
			lines = append(lines, PriceLine{Name: string(kind), Amount: TransportPrice})
		case models.ServiceHelpers:
			lines = append(lines, PriceLine{Name: string(kind), Amount: HelperPrice * int64(s.Helpers)})
		case models.ServiceCleaning:
			lines = append(lines, PriceLine{Name: string(kind), Amount: CleaningPrice})
		case models.ServiceKeyDelivery:
			lines = append(lines, PriceLine{Name: string(kind), Amount: KeyDeliveryPrice})
		}
	}
	return lines
}

// CalculateTotal prices an order. VIP multiplies the whole total by 1.5,
// rounded half-up to whole francs.
func CalculateTotal(s models.Services, vip bool) int64 {
	var total int64
	for _, line := range PriceLines(s) {
		total += line.Amount
	}
	if !vip {
		return total
	}
	return decimal.NewFromInt(total).Mul(vipMultiplier).Round(0).IntPart()
}
