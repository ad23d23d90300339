package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetkeeper/internal/models"
)

// CategoryGroup is the items of one category in their original order.
type CategoryGroup struct {
	Category models.Category
	Items    []models.Item
	Total    decimal.Decimal
}

// GroupByCategory splits items by category. Groups follow the order of
// models.Categories; empty categories are omitted. Items with an unknown
// category are collected in trailing groups in order of first appearance.
func GroupByCategory(items []models.Item) []CategoryGroup {
	byCategory := make(map[models.Category]*CategoryGroup)
	var unknown []models.Category

	for _, item := range items {
		g, ok := byCategory[item.Category]
		if !ok {
			g = &CategoryGroup{Category: item.Category, Total: decimal.Zero}
			byCategory[item.Category] = g
			if !item.Category.Valid() {
				unknown = append(unknown, item.Category)
			}
		}
		g.Items = append(g.Items, item)
		g.Total = g.Total.Add(item.Amount)
	}

	groups := make([]CategoryGroup, 0, len(byCategory))
	for _, c := range models.Categories {
		if g, ok := byCategory[c]; ok {
			groups = append(groups, *g)
		}
	}
	for _, c := range unknown {
		groups = append(groups, *byCategory[c])
	}
	return groups
}

// CategoryTotal sums the amounts of the items in one category.
func CategoryTotal(items []models.Item, c models.Category) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Category == c {
			total = total.Add(item.Amount)
		}
	}
	return total
}
