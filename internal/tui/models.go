package tui

import (
	"context"
	"strings"

	"github.com/pders01/mymeals/internal/loader"
	"github.com/pders01/mymeals/internal/mealdb"
	"github.com/pders01/mymeals/internal/plugins"
	"github.com/pders01/mymeals/internal/search"
)

type View int

const (
	ViewWelcome View = iota
	ViewList
	ViewDetail
	ViewLinks
)

func (v View) String() string {
	switch v {
	case ViewWelcome:
		return "welcome"
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	case ViewLinks:
		return "links"
	default:
		return "unknown"
	}
}

// MealService is everything the UI needs from the recipe API.
// *mealdb.Client satisfies it.
type MealService interface {
	loader.ListSource
	loader.DetailSource
	search.Searcher
}

// linkOpener launches a described link in an external program.
type linkOpener interface {
	OpenLink(info *plugins.LinkInfo) error
}

// linkDescriber turns raw meal URLs into displayable links.
type linkDescriber interface {
	DescribeAll(ctx context.Context, urls []string) []*plugins.LinkInfo
}

type mealItem struct {
	meal mealdb.Meal
}

func (i mealItem) Title() string { return i.meal.Name }

func (i mealItem) Description() string {
	var parts []string
	for _, s := range []string{i.meal.Category, i.meal.Area} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " • ")
}

func (i mealItem) FilterValue() string { return i.meal.Name }

type linkItem struct {
	info *plugins.LinkInfo
}

func (i linkItem) Title() string {
	return kindIcon(i.info.Kind) + " " + i.info.Title
}

func (i linkItem) Description() string {
	return truncateMiddle(i.info.OriginalURL, 60)
}

func (i linkItem) FilterValue() string { return i.info.Title + " " + i.info.URL }

func kindIcon(k plugins.Kind) string {
	switch k {
	case plugins.KindVideo:
		return "▶"
	case plugins.KindImage:
		return "◼"
	default:
		return "↗"
	}
}

type detailRenderedMsg struct {
	id      string
	content string
}

type linkOpenedMsg struct {
	title string
}

type errorMsg struct {
	err error
}
