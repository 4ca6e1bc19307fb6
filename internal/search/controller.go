package search

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/mymeals/internal/debuglog"
	"github.com/pders01/mymeals/internal/mealdb"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 300 * time.Millisecond

// handle identifies one scheduled debounce or one issued request. Only the
// handle currently stored on the Controller may change its state.
type handle struct {
	ctx    context.Context
	cancel context.CancelFunc
	query  string
}

func newHandle(query string) *handle {
	ctx, cancel := context.WithCancel(context.Background())
	return &handle{ctx: ctx, cancel: cancel, query: query}
}

// DebounceFiredMsg is delivered when a debounce period elapses without being
// superseded.
type DebounceFiredMsg struct {
	h *handle
}

// ResultsMsg carries the outcome of one search request.
type ResultsMsg struct {
	h     *handle
	Query string
	Meals []mealdb.Meal
	Err   error
}

// State is a snapshot of the controller's observable state.
type State struct {
	Query   string
	Results []mealdb.Meal
	Loading bool
}

// Searching reports whether the trimmed query is non-empty.
func (s State) Searching() bool {
	return strings.TrimSpace(s.Query) != ""
}

// Controller turns keystrokes into at most one search request per settled
// input. It must only be driven from the Bubble Tea update goroutine; the
// commands it returns are the only code that runs elsewhere.
type Controller struct {
	searcher Searcher
	sorter   *mealdb.Sorter
	delay    time.Duration
	after    func(time.Duration) <-chan time.Time

	state  State
	closed bool

	debounce *handle
	inflight *handle
}

// NewController builds a controller. A non-positive delay selects
// DefaultDebounce; a nil sorter sorts with English collation.
func NewController(searcher Searcher, delay time.Duration, sorter *mealdb.Sorter) *Controller {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if sorter == nil {
		sorter = mealdb.NewSorter("en")
	}
	return &Controller{
		searcher: searcher,
		sorter:   sorter,
		delay:    delay,
		after:    time.After,
	}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Query() string { return c.state.Query }

func (c *Controller) Results() []mealdb.Meal { return c.state.Results }

func (c *Controller) Loading() bool { return c.state.Loading }

func (c *Controller) Searching() bool { return c.state.Searching() }

// Pending reports whether a debounce is scheduled.
func (c *Controller) Pending() bool { return c.debounce != nil }

// InFlight reports whether a request is outstanding.
func (c *Controller) InFlight() bool { return c.inflight != nil }

func (c *Controller) Closed() bool { return c.closed }

// InputChanged records text as the current query and (re)schedules the
// debounce. Blank input clears results and loading at once, abandons any
// outstanding request and issues nothing.
func (c *Controller) InputChanged(text string) tea.Cmd {
	if c.closed {
		return nil
	}
	c.state.Query = text
	c.cancelDebounce()

	if strings.TrimSpace(text) == "" {
		c.cancelInflight()
		c.state.Results = nil
		c.state.Loading = false
		return nil
	}

	c.state.Loading = true
	h := newHandle(text)
	c.debounce = h
	return c.wait(h)
}

func (c *Controller) wait(h *handle) tea.Cmd {
	delay := c.delay
	timer := c.after
	return func() tea.Msg {
		select {
		case <-timer(delay):
		case <-h.ctx.Done():
		}
		if h.ctx.Err() != nil {
			return nil
		}
		return DebounceFiredMsg{h: h}
	}
}

// Update applies controller messages. Messages from superseded handles, or
// any message after Close, leave the state untouched.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	if c.closed {
		return nil
	}
	switch msg := msg.(type) {
	case DebounceFiredMsg:
		return c.fire(msg.h)
	case ResultsMsg:
		c.complete(msg)
	}
	return nil
}

func (c *Controller) fire(h *handle) tea.Cmd {
	if h == nil || h != c.debounce {
		return nil
	}
	c.debounce = nil
	h.cancel()

	query := strings.TrimSpace(h.query)
	if h.query != c.state.Query || query == "" {
		return nil
	}

	c.cancelInflight()
	req := newHandle(query)
	c.inflight = req
	c.state.Loading = true

	debuglog.Debugf("search: issuing request for %q", query)
	searcher := c.searcher
	return func() tea.Msg {
		meals, err := searcher.Search(req.ctx, query)
		return ResultsMsg{h: req, Query: query, Meals: meals, Err: err}
	}
}

func (c *Controller) complete(msg ResultsMsg) {
	if msg.h == nil || msg.h != c.inflight {
		return
	}
	c.inflight = nil
	defer msg.h.cancel()

	c.state.Loading = false
	if msg.Err != nil {
		// a cancellation we did not ask for is a failure like any other
		if mealdb.IsCancelled(msg.Err) && msg.h.ctx.Err() != nil {
			return
		}
		debuglog.WithFields(map[string]interface{}{
			"query": msg.Query,
		}).Warnf("search failed: %v", msg.Err)
		c.state.Results = nil
		return
	}

	meals := make([]mealdb.Meal, len(msg.Meals))
	copy(meals, msg.Meals)
	c.sorter.SortByName(meals)
	c.state.Results = meals
}

// Reset clears the query and results and abandons any pending work. The
// controller stays usable.
func (c *Controller) Reset() {
	c.cancelDebounce()
	c.cancelInflight()
	c.state = State{}
}

// Close abandons any pending work; every later call or message is a no-op.
func (c *Controller) Close() {
	c.cancelDebounce()
	c.cancelInflight()
	c.closed = true
}

func (c *Controller) cancelDebounce() {
	if c.debounce != nil {
		c.debounce.cancel()
		c.debounce = nil
	}
}

func (c *Controller) cancelInflight() {
	if c.inflight != nil {
		c.inflight.cancel()
		c.inflight = nil
	}
}
