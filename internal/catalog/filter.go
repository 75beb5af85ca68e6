package catalog

import (
	"sort"
	"strings"

	"ehurt-storefront/internal/model"
)

// The filter engine is pure: every function derives a new view from its
// inputs and never mutates a snapshot. The UI keeps name and category
// filters mutually exclusive, but composition is supported.

// FilterByName returns items whose name contains the substring,
// case-insensitive. An empty substring matches everything.
func FilterByName(items []model.CatalogItem, substring string) []model.CatalogItem {
	if substring == "" {
		return items
	}
	needle := strings.ToLower(substring)

	var matched []model.CatalogItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}

// FilterByCategory returns items whose category equals the given one
// exactly. An empty category matches everything.
func FilterByCategory(items []model.CatalogItem, category string) []model.CatalogItem {
	if category == "" {
		return items
	}

	var matched []model.CatalogItem
	for _, item := range items {
		if item.Category == category {
			matched = append(matched, item)
		}
	}
	return matched
}

// Filter composes the name and category filters.
func Filter(items []model.CatalogItem, substring, category string) []model.CatalogItem {
	return FilterByName(FilterByCategory(items, category), substring)
}

// Group is one category section of the unfiltered catalog view.
type Group struct {
	Category string              `json:"category"`
	Items    []model.CatalogItem `json:"items"`
}

// GroupByCategory partitions a snapshot's items into category sections.
// Sections follow the snapshot's category list order; items in categories
// the server didn't list get their own sections appended alphabetically.
// Grouping applies only to unfiltered browsing: filtered results render
// as a flat list and never pass through here.
func GroupByCategory(snap *Snapshot) []Group {
	byCategory := make(map[string][]model.CatalogItem)
	for _, item := range snap.Items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	var groups []Group
	for _, category := range snap.Categories {
		if items, ok := byCategory[category]; ok {
			groups = append(groups, Group{Category: category, Items: items})
			delete(byCategory, category)
		}
	}

	var leftover []string
	for category := range byCategory {
		leftover = append(leftover, category)
	}
	sort.Strings(leftover)
	for _, category := range leftover {
		groups = append(groups, Group{Category: category, Items: byCategory[category]})
	}

	return groups
}

// BonusItems returns the weekly-bonus promotion items in snapshot order.
func BonusItems(snap *Snapshot) []model.CatalogItem {
	var bonus []model.CatalogItem
	for _, item := range snap.Items {
		if item.HasBonus() {
			bonus = append(bonus, item)
		}
	}
	return bonus
}
