package mealdb

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter orders meals by display name using locale-aware collation.
// A Sorter is not safe for concurrent use; collate.Collator keeps buffers.
type Sorter struct {
	collator *collate.Collator
}

// NewSorter builds a sorter for a BCP 47 locale such as "en" or "de-CH".
// Unparseable locales fall back to English.
func NewSorter(locale string) *Sorter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Sorter{collator: collate.New(tag)}
}

// SortByName sorts meals ascending by Name in place. Equal names keep
// their response order.
func (s *Sorter) SortByName(meals []Meal) {
	sort.SliceStable(meals, func(i, j int) bool {
		return s.collator.CompareString(meals[i].Name, meals[j].Name) < 0
	})
}
