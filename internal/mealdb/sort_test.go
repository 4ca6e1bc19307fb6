package mealdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(meals []Meal) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.Name
	}
	return out
}

func TestSortByName(t *testing.T) {
	meals := []Meal{
		{ID: "1", Name: "banana pancakes"},
		{ID: "2", Name: "Apple Frangipan Tart"},
		{ID: "3", Name: "Écrevisses"},
		{ID: "4", Name: "apam balik"},
		{ID: "5", Name: "Eccles Cake"},
	}

	NewSorter("en").SortByName(meals)

	assert.Equal(t, []string{
		"apam balik",
		"Apple Frangipan Tart",
		"banana pancakes",
		"Eccles Cake",
		"Écrevisses",
	}, names(meals))
}

func TestSortByNameStable(t *testing.T) {
	meals := []Meal{
		{ID: "1", Name: "Soup"},
		{ID: "2", Name: "Cake"},
		{ID: "3", Name: "Soup"},
	}

	NewSorter("en").SortByName(meals)

	assert.Equal(t, "2", meals[0].ID)
	assert.Equal(t, "1", meals[1].ID)
	assert.Equal(t, "3", meals[2].ID)
}

func TestNewSorterInvalidLocale(t *testing.T) {
	meals := []Meal{{Name: "cherry"}, {Name: "banana"}, {Name: "Apple"}}
	NewSorter("!!not-a-locale").SortByName(meals)
	assert.Equal(t, []string{"Apple", "banana", "cherry"}, names(meals))
}
