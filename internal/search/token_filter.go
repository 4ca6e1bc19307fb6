package search

import (
	"math"
	"strings"
	"sync"

	"github.com/pders01/mymeals/internal/mealdb"
)

// field weights shared with the bleve mapping boosts
var fieldWeights = map[string]float64{
	"name":        4.0,
	"ingredients": 2.0,
	"category":    1.5,
	"area":        1.5,
	"tags":        1.0,
}

// TokenFilter scores meals term by term without building an index.
type TokenFilter struct {
	mu    sync.RWMutex
	meals []mealdb.Meal
}

func NewTokenFilter() *TokenFilter {
	return &TokenFilter{}
}

func (f *TokenFilter) Reset(meals []mealdb.Meal) error {
	f.mu.Lock()
	f.meals = meals
	f.mu.Unlock()
	return nil
}

// Match keeps the meals where every query term scores in some field.
func (f *TokenFilter) Match(query string) ([]int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	terms := tokenize(query)
	if len(terms) == 0 {
		return all(len(f.meals)), nil
	}

	out := []int{}
	for i := range f.meals {
		if scoreMeal(&f.meals[i], terms) > 0 {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *TokenFilter) DocCount() (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.meals), nil
}

func (f *TokenFilter) Close() error {
	return f.Reset(nil)
}

// scoreMeal sums per-term field scores. A term that matches no field
// disqualifies the meal.
func scoreMeal(m *mealdb.Meal, terms []string) float64 {
	fields := mealFields(m)
	var total float64
	for _, term := range terms {
		var termScore float64
		for name, text := range fields {
			termScore += scoreField(text, term, fieldWeights[name])
		}
		if termScore == 0 {
			return 0
		}
		total += termScore
	}
	return total
}

// scoreField rates one term against a field: substring, exact word, word
// prefix/suffix, and word infix matches, damped by field length.
func scoreField(text, term string, weight float64) float64 {
	if text == "" {
		return 0
	}

	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matched := 0

	if strings.Contains(strings.ToLower(text), term) {
		score += 2.0
		matched++
	}

	for _, word := range words {
		switch {
		case word == term:
			score += 1.5
			matched++
		case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
			score += 1.0
			matched++
		case strings.Contains(word, term):
			score += 0.5
			matched++
		}
	}

	tf := float64(matched) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}
