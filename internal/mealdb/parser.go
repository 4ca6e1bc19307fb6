package mealdb

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/gjson"
)

// Parse decodes a {"meals": [...]} envelope. A null, missing or empty
// "meals" field yields an empty slice and no error.
func Parse(r io.Reader) ([]Meal, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return ParseBytes(body)
}

func ParseBytes(body []byte) ([]Meal, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON payload")
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("unexpected payload: want object, got %s", root.Type)
	}

	list := root.Get("meals")
	if !list.Exists() || list.Type == gjson.Null {
		return []Meal{}, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("unexpected meals field: %s", list.Type)
	}

	items := list.Array()
	meals := make([]Meal, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		meals = append(meals, decodeMeal(item))
	}
	return meals, nil
}

func decodeMeal(obj gjson.Result) Meal {
	m := Meal{
		ID:           str(obj, "idMeal"),
		Name:         str(obj, "strMeal"),
		Thumbnail:    str(obj, "strMealThumb"),
		Category:     str(obj, "strCategory"),
		Area:         str(obj, "strArea"),
		Instructions: str(obj, "strInstructions"),
		Tags:         str(obj, "strTags"),
		YouTube:      str(obj, "strYoutube"),
		Source:       str(obj, "strSource"),
	}
	for i := range m.Slots {
		n := strconv.Itoa(i + 1)
		m.Slots[i] = IngredientSlot{
			Ingredient: str(obj, "strIngredient"+n),
			Measure:    str(obj, "strMeasure"+n),
		}
	}
	return m
}

// str reads a string field; null and missing keys are "".
func str(obj gjson.Result, key string) string {
	v := obj.Get(key)
	if v.Type == gjson.Null {
		return ""
	}
	return v.String()
}
