package search

import (
	"slices"
	"strings"
	"unicode"

	"github.com/pders01/mymeals/internal/config"
	"github.com/pders01/mymeals/internal/debuglog"
	"github.com/pders01/mymeals/internal/mealdb"
)

// NewFilter returns the local filter for the configured engine. If the
// bleve index cannot be created the token filter is used instead.
func NewFilter(engine string) Filter {
	switch engine {
	case config.FilterEngineToken:
		return NewTokenFilter()
	default:
		f, err := NewBleveFilter()
		if err != nil {
			debuglog.Warnf("bleve filter unavailable, falling back to token filter: %v", err)
			return NewTokenFilter()
		}
		return f
	}
}

// mealFields are the searchable texts of a meal, keyed by field name.
func mealFields(m *mealdb.Meal) map[string]string {
	return map[string]string{
		"name":        m.Name,
		"category":    m.Category,
		"area":        m.Area,
		"tags":        strings.ReplaceAll(m.Tags, ",", " "),
		"ingredients": strings.Join(slices.Collect(m.Ingredients()), " "),
	}
}

// tokenize breaks text into lowercase letter/digit terms, skipping
// single characters.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len([]rune(term)) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if term := current.String(); len([]rune(term)) > 1 {
		terms = append(terms, term)
	}

	return terms
}
