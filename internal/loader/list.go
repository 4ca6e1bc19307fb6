package loader

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/mymeals/internal/debuglog"
	"github.com/pders01/mymeals/internal/mealdb"
)

// ListLoadedMsg carries the outcome of a default list fetch.
type ListLoadedMsg struct {
	req   *request
	Meals []mealdb.Meal
	Err   error
}

// ListLoader owns the default (non-search) meal list.
type ListLoader struct {
	source ListSource
	letter string
	sorter *mealdb.Sorter

	meals      []mealdb.Meal
	loading    bool
	refreshing bool
	loaded     bool
	err        string
	closed     bool

	inflight *request
}

func NewListLoader(source ListSource, letter string, sorter *mealdb.Sorter) *ListLoader {
	if letter == "" {
		letter = "a"
	}
	if sorter == nil {
		sorter = mealdb.NewSorter("en")
	}
	return &ListLoader{source: source, letter: letter, sorter: sorter}
}

func (l *ListLoader) Meals() []mealdb.Meal { return l.meals }

func (l *ListLoader) Loading() bool { return l.loading }

func (l *ListLoader) Refreshing() bool { return l.refreshing }

// Loaded reports whether at least one fetch succeeded.
func (l *ListLoader) Loaded() bool { return l.loaded }

// Err is the user-visible failure message, empty when none.
func (l *ListLoader) Err() string { return l.err }

// Load starts the initial fetch. It is a no-op once a list has loaded or
// while a fetch is already running.
func (l *ListLoader) Load() tea.Cmd {
	if l.closed || l.loaded || l.inflight != nil {
		return nil
	}
	l.loading = true
	return l.fetch()
}

// Refresh re-issues the fetch. The current list stays visible until the
// new one arrives.
func (l *ListLoader) Refresh() tea.Cmd {
	if l.closed {
		return nil
	}
	l.refreshing = true
	if !l.loaded {
		l.loading = true
	}
	return l.fetch()
}

func (l *ListLoader) fetch() tea.Cmd {
	req := replace(l.inflight)
	l.inflight = req

	source, letter := l.source, l.letter
	return func() tea.Msg {
		meals, err := source.ListByFirstLetter(req.ctx, letter)
		return ListLoadedMsg{req: req, Meals: meals, Err: err}
	}
}

// Update applies a ListLoadedMsg belonging to the current request.
func (l *ListLoader) Update(msg tea.Msg) {
	m, ok := msg.(ListLoadedMsg)
	if !ok || l.closed || m.req == nil || m.req != l.inflight {
		return
	}
	l.inflight = nil
	defer m.req.cancel()

	l.loading = false
	l.refreshing = false

	if m.Err != nil && m.req.cancelledByUs(m.Err) {
		return
	}
	if m.Err != nil {
		debuglog.WithFields(map[string]interface{}{
			"letter": l.letter,
		}).Errorf("loading meal list: %v", m.Err)
		l.err = ListErrorMessage
		return
	}

	meals := make([]mealdb.Meal, len(m.Meals))
	copy(meals, m.Meals)
	l.sorter.SortByName(meals)

	l.meals = meals
	l.loaded = true
	l.err = ""
	debuglog.Infof("loaded %d meals for letter %q", len(meals), l.letter)
}

// Close cancels any in-flight fetch; later results are ignored.
func (l *ListLoader) Close() {
	if l.inflight != nil {
		l.inflight.cancel()
		l.inflight = nil
	}
	l.closed = true
	l.loading = false
	l.refreshing = false
}
