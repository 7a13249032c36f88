package testing

import "github.com/aristath/boxengine/internal/domain"

// NewSteadyBoxFixture returns a cheap, high-floor, low-volatility box
func NewSteadyBoxFixture() domain.Box {
	return domain.Box{
		BoxName:                     "Steady Box",
		BoxPrice:                    10,
		ExpectedValuePercentOfPrice: 86,
		StandardDeviationPercent:    81.3,
		FloorRatePercent:            40,
		VolatilityBucket:            domain.VolatilityLow,
		AllItems: []domain.BoxItem{
			{Name: "Keychain", Value: 4, DropChance: 60, Type: "accessory"},
			{Name: "Mug", Value: 12, DropChance: 35, Type: "home"},
			{Name: "Headphones", Value: 40, DropChance: 5, Type: "tech"},
		},
		UnwantedItems: []domain.BoxItem{
			{Name: "Keychain", Value: 4, DropChance: 60, Type: "accessory"},
		},
	}
}

// NewValueBoxFixture returns a box whose expected value exceeds its price
func NewValueBoxFixture() domain.Box {
	return domain.Box{
		BoxName:                     "Value Box",
		BoxPrice:                    25,
		ExpectedValuePercentOfPrice: 101,
		StandardDeviationPercent:    150,
		FloorRatePercent:            2,
		VolatilityBucket:            domain.VolatilityMedium,
		AllItems: []domain.BoxItem{
			{Name: "Sticker Pack", Value: 0.5, DropChance: 50, Type: "accessory"},
			{Name: "Hoodie", Value: 20, DropChance: 30, Type: "apparel"},
			{Name: "Sneakers", Value: 60, DropChance: 15, Type: "apparel"},
			{Name: "Console", Value: 200, DropChance: 5, Type: "tech"},
		},
		JackpotItems: []domain.BoxItem{
			{Name: "Console", Value: 200, DropChance: 5, Type: "tech"},
		},
		UnwantedItems: []domain.BoxItem{
			{Name: "Sticker Pack", Value: 0.5, DropChance: 50, Type: "accessory"},
		},
	}
}

// NewJackpotBoxFixture returns an expensive box with rare, very valuable items
func NewJackpotBoxFixture() domain.Box {
	return domain.Box{
		BoxName:                     "Jackpot Box",
		BoxPrice:                    100,
		ExpectedValuePercentOfPrice: 56.85,
		StandardDeviationPercent:    600,
		FloorRatePercent:            1,
		VolatilityBucket:            domain.VolatilityHigh,
		AllItems: []domain.BoxItem{
			{Name: "Socks", Value: 1, DropChance: 85, Type: "apparel"},
			{Name: "Smartwatch", Value: 50, DropChance: 12, Type: "tech"},
			{Name: "Laptop", Value: 1000, DropChance: 2.5, Type: "tech"},
			{Name: "Diamond Watch", Value: 5000, DropChance: 0.5, Type: "luxury"},
		},
		JackpotItems: []domain.BoxItem{
			{Name: "Laptop", Value: 1000, DropChance: 2.5, Type: "tech"},
			{Name: "Diamond Watch", Value: 5000, DropChance: 0.5, Type: "luxury"},
		},
	}
}

// NewBudgetBoxFixture returns a box that no strategy considers eligible
func NewBudgetBoxFixture() domain.Box {
	return domain.Box{
		BoxName:                     "Budget Box",
		BoxPrice:                    2,
		ExpectedValuePercentOfPrice: 5.49,
		StandardDeviationPercent:    45,
		FloorRatePercent:            1,
		VolatilityBucket:            domain.VolatilityLow,
		AllItems: []domain.BoxItem{
			{Name: "Sticker", Value: 0.02, DropChance: 99, Type: "accessory"},
			{Name: "Cap", Value: 9, DropChance: 1, Type: "apparel"},
		},
	}
}

// NewCatalogFixture returns one box of each profile
func NewCatalogFixture() []domain.Box {
	return []domain.Box{
		NewSteadyBoxFixture(),
		NewValueBoxFixture(),
		NewJackpotBoxFixture(),
		NewBudgetBoxFixture(),
	}
}
