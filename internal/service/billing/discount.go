package billing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DiscountTier порог скидки: от MinBookings бронирований - Percent процентов
type DiscountTier struct {
	MinBookings int
	Percent     decimal.Decimal
}

// VolumeDiscount скидка за количество бронирований в периоде
// Применяется наибольший порог, который достигнут
type VolumeDiscount struct {
	tiers []DiscountTier
}

// NewVolumeDiscount создает правило скидки; порядок порогов не важен
func NewVolumeDiscount(tiers []DiscountTier) *VolumeDiscount {
	sorted := make([]DiscountTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinBookings > sorted[j].MinBookings })
	return &VolumeDiscount{tiers: sorted}
}

// Discount сумма скидки, округлённая до сотых
func (v *VolumeDiscount) Discount(bookingCount int, base decimal.Decimal) decimal.Decimal {
	for _, tier := range v.tiers {
		if bookingCount >= tier.MinBookings {
			return base.Mul(tier.Percent).Div(decimal.NewFromInt(100)).Round(2)
		}
	}
	return decimal.Zero
}

// NoDiscount правило без скидок
type NoDiscount struct{}

func (NoDiscount) Discount(int, decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}
