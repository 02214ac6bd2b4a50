package service

import (
	"sahaaya.org/actionhub/internal/entity"
	"sahaaya.org/actionhub/pkg/apperror"
)

// Default item weights. These are configuration defaults, not invariants:
// campaigns can override the table when constructing the service.
var defaultWeights = map[entity.ItemCategory]int{
	entity.CategoryClothes:         10,
	entity.CategoryBooks:           15,
	entity.CategoryFurniture:       25,
	entity.CategoryElectronics:     30,
	entity.CategoryToys:            10,
	entity.CategoryMedicalSupplies: 40,
	entity.CategoryFood:            20,
	entity.CategoryUtensils:        10,
	entity.CategoryStationery:      5,
	entity.CategoryBlankets:        15,
	entity.CategoryShoes:           10,
	entity.CategoryOther:           5,
}

// DefaultFallbackWeight is credited for categories missing from the table.
// An explicit, named fallback rather than a silent zero, so a typo'd or
// newly added category still earns something visible.
const DefaultFallbackWeight = 5

// DefaultMoneyRate is points per whole currency unit donated.
const DefaultMoneyRate = 1

// PointTable maps item categories to point weights. Total over the category
// domain: unknown categories resolve to the fallback weight.
type PointTable struct {
	weights  map[entity.ItemCategory]int
	fallback int
}

func NewPointTable(weights map[entity.ItemCategory]int, fallback int) PointTable {
	w := make(map[entity.ItemCategory]int, len(weights))
	for cat, pts := range weights {
		if pts < 0 {
			pts = 0
		}
		w[cat] = pts
	}
	if fallback < 0 {
		fallback = 0
	}
	return PointTable{weights: w, fallback: fallback}
}

func DefaultPointTable() PointTable {
	return NewPointTable(defaultWeights, DefaultFallbackWeight)
}

func (t PointTable) PointsFor(category entity.ItemCategory) int {
	if pts, ok := t.weights[category]; ok {
		return pts
	}
	return t.fallback
}

// Item is one (category, quantity) pair of a donation submission.
type Item struct {
	Category entity.ItemCategory
	Quantity int
}

// Scorer converts a donation submission into a point total.
type Scorer struct {
	table     PointTable
	moneyRate int
}

func NewScorer(table PointTable, moneyRate int) Scorer {
	if moneyRate < 0 {
		moneyRate = DefaultMoneyRate
	}
	return Scorer{table: table, moneyRate: moneyRate}
}

// Score sums quantity x weight over all items plus amount x money rate.
// A submission with no items and no positive amount is an empty donation
// and is rejected here, before anything is recorded.
func (s Scorer) Score(items []Item, amount int) (int, error) {
	if amount < 0 {
		return 0, apperror.ErrInvalidInput
	}
	if len(items) == 0 && amount == 0 {
		return 0, apperror.ErrEmptyDonation
	}

	total := 0
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			// Presence-only submissions count each listed item once.
			qty = 1
		}
		total += s.table.PointsFor(item.Category) * qty
	}

	total += amount * s.moneyRate
	return total, nil
}
