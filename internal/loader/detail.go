package loader

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/mymeals/internal/debuglog"
	"github.com/pders01/mymeals/internal/mealdb"
)

// DetailLoadedMsg carries the outcome of a meal lookup.
type DetailLoadedMsg struct {
	req  *request
	ID   string
	Meal *mealdb.Meal
	Err  error
}

// DetailLoader fetches a single meal for the detail view.
type DetailLoader struct {
	source DetailSource

	id      string
	meal    *mealdb.Meal
	loading bool
	done    bool
	err     string

	inflight *request
}

func NewDetailLoader(source DetailSource) *DetailLoader {
	return &DetailLoader{source: source}
}

func (d *DetailLoader) ID() string { return d.id }

func (d *DetailLoader) Meal() *mealdb.Meal { return d.meal }

func (d *DetailLoader) Loading() bool { return d.loading }

func (d *DetailLoader) Err() string { return d.err }

// NotFound reports a finished lookup that returned no meal.
func (d *DetailLoader) NotFound() bool {
	return d.done && d.err == "" && d.meal == nil
}

// Load starts fetching id, abandoning any earlier lookup.
func (d *DetailLoader) Load(id string) tea.Cmd {
	req := replace(d.inflight)
	d.inflight = req
	d.id = id
	d.meal = nil
	d.err = ""
	d.done = false
	d.loading = true

	source := d.source
	return func() tea.Msg {
		meal, err := source.Lookup(req.ctx, id)
		return DetailLoadedMsg{req: req, ID: id, Meal: meal, Err: err}
	}
}

// Update applies a DetailLoadedMsg belonging to the current request.
func (d *DetailLoader) Update(msg tea.Msg) {
	m, ok := msg.(DetailLoadedMsg)
	if !ok || m.req == nil || m.req != d.inflight {
		return
	}
	d.inflight = nil
	defer m.req.cancel()

	d.loading = false
	if m.Err != nil && m.req.cancelledByUs(m.Err) {
		return
	}

	d.done = true
	if m.Err != nil {
		debuglog.WithFields(map[string]interface{}{
			"meal_id": m.ID,
		}).Errorf("loading meal details: %v", m.Err)
		d.err = DetailErrorMessage
		return
	}
	d.meal = m.Meal
}

// Close cancels the lookup and forgets the meal. It is called when the
// detail view is left; the loader can be reused by a later Load.
func (d *DetailLoader) Close() {
	if d.inflight != nil {
		d.inflight.cancel()
		d.inflight = nil
	}
	d.id = ""
	d.meal = nil
	d.err = ""
	d.done = false
	d.loading = false
}
