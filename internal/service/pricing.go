package service

import (
	"fmt"
	"math"
)

// Session pricing rates, charged per kWh drawn and per hour plugged in.
const (
	RatePerKWh  = 0.50
	RatePerHour = 2.00
)

// CostBreakdown itemizes the price of a charging session. All values carry
// full float precision; Rounded returns a copy for display.
type CostBreakdown struct {
	EnergyCost float64 `json:"energy_cost"`
	TimeCost   float64 `json:"time_cost"`
	BaseCost   float64 `json:"base_cost"`
	TotalCost  float64 `json:"total_cost"`
}

// CalculateCost prices a session from energy drawn, elapsed time and the
// subscription discount percentage. It has no side effects.
func CalculateCost(energyKWh, durationHours, discountPercent float64) (CostBreakdown, error) {
	if energyKWh < 0 {
		return CostBreakdown{}, fmt.Errorf("pricing: energy %.2f kWh is negative: %w", energyKWh, ErrInvalidInput)
	}
	if durationHours < 0 {
		return CostBreakdown{}, fmt.Errorf("pricing: duration %.2f h is negative: %w", durationHours, ErrInvalidInput)
	}
	if discountPercent < 0 || discountPercent > 100 {
		return CostBreakdown{}, fmt.Errorf("pricing: discount %.2f%% out of range: %w", discountPercent, ErrInvalidInput)
	}

	energyCost := energyKWh * RatePerKWh
	timeCost := durationHours * RatePerHour
	baseCost := energyCost + timeCost

	return CostBreakdown{
		EnergyCost: energyCost,
		TimeCost:   timeCost,
		BaseCost:   baseCost,
		TotalCost:  baseCost * (1 - discountPercent/100),
	}, nil
}

// Rounded returns the breakdown rounded to cents for display. The persisted
// total keeps full precision.
func (b CostBreakdown) Rounded() CostBreakdown {
	return CostBreakdown{
		EnergyCost: Round2(b.EnergyCost),
		TimeCost:   Round2(b.TimeCost),
		BaseCost:   Round2(b.BaseCost),
		TotalCost:  Round2(b.TotalCost),
	}
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
