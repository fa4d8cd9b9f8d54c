package normalizer

import (
	"math"

	"speclogic/internal/models"
)

// tierLimit is the ceiling one tier allows.
type tierLimit struct {
	tier     models.Tier
	maxPrice float64
	maxTDP   float64
}

var unlimited = math.Inf(1)

var tierThresholds = map[models.ComponentType][]tierLimit{
	models.CPU: {
		{models.TierBudget, 150, 65},
		{models.TierMidRange, 350, 105},
		{models.TierHighEnd, 550, 170},
		{models.TierEnthusiast, unlimited, unlimited},
	},
	models.GPU: {
		{models.TierBudget, 250, 150},
		{models.TierMidRange, 500, 250},
		{models.TierHighEnd, 900, 350},
		{models.TierEnthusiast, unlimited, unlimited},
	},
	models.Motherboard: {
		{models.TierBudget, 150, unlimited},
		{models.TierMidRange, 300, unlimited},
		{models.TierHighEnd, 500, unlimited},
		{models.TierEnthusiast, unlimited, unlimited},
	},
}

// DerivePerformanceTier picks the first tier whose price and TDP ceilings
// are not exceeded. A nil price or tdp places no constraint on that
// dimension. Types without thresholds are mid-range.
func DerivePerformanceTier(t models.ComponentType, price, tdp *float64) models.Tier {
	limits, ok := tierThresholds[t]
	if !ok {
		return models.TierMidRange
	}

	for _, limit := range limits {
		priceOK := price == nil || *price <= limit.maxPrice
		tdpOK := tdp == nil || *tdp <= limit.maxTDP

		if priceOK && tdpOK {
			return limit.tier
		}
	}

	return models.TierEnthusiast
}
