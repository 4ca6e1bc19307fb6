package mealdb

import (
	"iter"
	"strings"
)

// SlotCount is the number of numbered ingredient/measure pairs in a meal record.
const SlotCount = 20

// IngredientSlot is one strIngredientN/strMeasureN pair. Either side may be blank.
type IngredientSlot struct {
	Ingredient string
	Measure    string
}

// Meal is a read-only recipe record decoded from the API.
type Meal struct {
	ID           string
	Name         string
	Thumbnail    string
	Category     string
	Area         string
	Instructions string
	Tags         string
	YouTube      string
	Source       string
	Slots        [SlotCount]IngredientSlot
}

// Ingredients yields "<measure> <ingredient>" for every slot whose trimmed
// ingredient is non-blank, in slot order. The measure is omitted when blank.
// The sequence is computed on each iteration.
func (m *Meal) Ingredients() iter.Seq[string] {
	return func(yield func(string) bool) {
		if m == nil {
			return
		}
		for _, slot := range m.Slots {
			ingredient := strings.TrimSpace(slot.Ingredient)
			if ingredient == "" {
				continue
			}
			line := ingredient
			if measure := strings.TrimSpace(slot.Measure); measure != "" {
				line = measure + " " + ingredient
			}
			if !yield(line) {
				return
			}
		}
	}
}

// TagList splits the comma separated tag field, dropping empty entries.
func (m *Meal) TagList() []string {
	var tags []string
	for _, t := range strings.Split(m.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Links returns the meal's external URLs in display order: thumbnail,
// video, source. Blank ones are skipped.
func (m *Meal) Links() []string {
	var links []string
	for _, u := range []string{m.Thumbnail, m.YouTube, m.Source} {
		if u = strings.TrimSpace(u); u != "" {
			links = append(links, u)
		}
	}
	return links
}
