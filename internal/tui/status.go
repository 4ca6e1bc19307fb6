package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingMeals = "Loading meals…"
	MsgRefreshing   = "Refreshing…"
	MsgSearching    = "Searching…"
	MsgLoadingMeal  = "Loading meal…"
	MsgRendering    = "Preparing recipe…"
	MsgNoLinks      = "This meal has no links"
)

func MsgNoMealsFor(query string) string {
	return fmt.Sprintf("No meals found for %q", strings.TrimSpace(query))
}

func MsgMealCount(n int) string {
	if n == 1 {
		return "1 meal"
	}
	return fmt.Sprintf("%d meals", n)
}

func MsgOpened(title string) string {
	return "Opened " + strings.TrimSpace(title)
}
