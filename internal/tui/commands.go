package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/mymeals/internal/debuglog"
	"github.com/pders01/mymeals/internal/loader"
	"github.com/pders01/mymeals/internal/mealdb"
	"github.com/pders01/mymeals/internal/plugins"
	"github.com/pders01/mymeals/internal/search"
)

// mountList enters the list view with a fresh search controller and
// default list loader.
func (a *App) mountList() tea.Cmd {
	a.controller = search.NewController(a.svc, a.config.Search.Debounce, a.sorter)
	a.listLoader = loader.NewListLoader(a.svc, a.config.API.DefaultLetter, a.sorter)
	a.view = ViewList
	a.clearStatus()

	a.searchInput.Reset()
	focus := a.searchInput.Focus()

	return tea.Batch(a.listLoader.Load(), focus, textinput.Blink, a.spin())
}

// unmountList tears the list view down. Nothing started by it may change
// state afterwards.
func (a *App) unmountList() {
	if a.controller != nil {
		a.controller.Close()
		a.controller = nil
	}
	if a.listLoader != nil {
		a.listLoader.Close()
		a.listLoader = nil
	}
	a.searchInput.Reset()
	a.searchInput.Blur()
	a.mealList.ResetFilter()
	a.mealList.SetItems([]list.Item{})
	a.shown = nil
	if err := a.filter.Reset(nil); err != nil {
		debuglog.Warnf("clearing local filter: %v", err)
	}
	a.view = ViewWelcome
	a.clearStatus()
}

// queryChanged feeds the search input into the controller.
func (a *App) queryChanged(text string) tea.Cmd {
	if a.controller == nil {
		return nil
	}
	cmd := a.controller.InputChanged(text)
	return tea.Batch(cmd, a.syncMealList(), a.spin())
}

// refreshList drops an active search and reloads the default list.
func (a *App) refreshList() tea.Cmd {
	if a.listLoader == nil {
		return nil
	}
	if a.controller != nil && a.controller.Searching() {
		a.controller.Reset()
		a.searchInput.Reset()
	}
	a.mealList.ResetFilter()
	a.clearStatus()

	cmd := a.listLoader.Refresh()
	return tea.Batch(cmd, a.syncMealList(), a.spin())
}

func (a *App) displayedMeals() []mealdb.Meal {
	if a.controller != nil && a.controller.Searching() {
		return a.controller.Results()
	}
	if a.listLoader != nil {
		return a.listLoader.Meals()
	}
	return nil
}

// syncMealList pushes the displayed meals into the list and the local
// filter when they changed.
func (a *App) syncMealList() tea.Cmd {
	meals := a.displayedMeals()
	if sameMeals(meals, a.shown) {
		return nil
	}
	a.shown = meals

	if err := a.filter.Reset(meals); err != nil {
		debuglog.Warnf("indexing %d meals for filtering: %v", len(meals), err)
	} else {
		debuglog.Debugf("local filter holds %d of %d meals", a.filterDocCount(), len(meals))
	}

	items := make([]list.Item, len(meals))
	for i, m := range meals {
		items[i] = mealItem{meal: m}
	}
	return a.mealList.SetItems(items)
}

// sameMeals compares slice identity. Result sets are replaced, never
// edited, so this is enough to spot a change.
func sameMeals(x, y []mealdb.Meal) bool {
	if len(x) != len(y) {
		return false
	}
	return len(x) == 0 || &x[0] == &y[0]
}

func (a *App) openDetail(meal mealdb.Meal) tea.Cmd {
	a.view = ViewDetail
	a.rendered = false
	a.content = ""
	a.viewport.SetContent("")
	a.viewport.GotoTop()
	a.clearStatus()

	cmd := a.detail.Load(meal.ID)
	return tea.Batch(cmd, a.spin())
}

func (a *App) reloadDetail() tea.Cmd {
	id := a.detail.ID()
	if id == "" {
		return nil
	}
	a.rendered = false
	a.clearStatus()
	cmd := a.detail.Load(id)
	return tea.Batch(cmd, a.spin())
}

func (a *App) closeDetail() {
	a.detail.Close()
	a.rendered = false
	a.content = ""
	a.viewport.SetContent("")
	a.linkList.SetItems([]list.Item{})
	a.clearStatus()
}

// renderDetail renders the loaded meal off the update goroutine.
func (a *App) renderDetail() tea.Cmd {
	meal := a.detail.Meal()
	if meal == nil {
		return nil
	}

	r, err := a.getRenderer()
	if err != nil {
		return func() tea.Msg {
			return errorMsg{err: wrapErr("preparing renderer", err)}
		}
	}

	id := a.detail.ID()
	md := mealMarkdown(meal)
	mu := &a.renderMu
	return func() tea.Msg {
		mu.Lock()
		out, err := r.Render(md)
		mu.Unlock()
		if err != nil {
			debuglog.Warnf("rendering meal %s: %v", id, err)
			out = md
		}
		return detailRenderedMsg{id: id, content: out}
	}
}

// mealMarkdown lays a meal out as markdown. Ingredients are flattened from
// the slots on every call.
func mealMarkdown(m *mealdb.Meal) string {
	var b strings.Builder

	name := strings.TrimSpace(m.Name)
	if name == "" {
		name = "Untitled meal"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	var meta []string
	for _, s := range []string{m.Category, m.Area} {
		if s = strings.TrimSpace(s); s != "" {
			meta = append(meta, s)
		}
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " | "))
	}

	b.WriteString("## Ingredients\n\n")
	n := 0
	for line := range m.Ingredients() {
		fmt.Fprintf(&b, "- %s\n", line)
		n++
	}
	if n == 0 {
		b.WriteString("*No ingredients listed.*\n")
	}
	b.WriteString("\n")

	if instructions := strings.TrimSpace(m.Instructions); instructions != "" {
		b.WriteString("## Instructions\n\n")
		b.WriteString(strings.ReplaceAll(instructions, "\r\n", "\n"))
		b.WriteString("\n\n")
	}

	if tags := m.TagList(); len(tags) > 0 {
		fmt.Fprintf(&b, "---\n\n**Tags:** %s\n", strings.Join(tags, " · "))
	}

	return b.String()
}

// openLinks shows the meal's links, or opens the only one directly.
func (a *App) openLinks() tea.Cmd {
	meal := a.detail.Meal()
	if meal == nil {
		return nil
	}

	urls := meal.Links()
	if len(urls) == 0 {
		a.setStatus(MsgNoLinks, StatusWarn)
		return nil
	}

	infos := a.links.DescribeAll(context.Background(), urls)
	if len(infos) == 1 {
		return a.openLink(infos[0])
	}

	items := make([]list.Item, len(infos))
	for i, info := range infos {
		items[i] = linkItem{info: info}
	}
	a.linkList.SetItems(items)
	a.linkList.Select(0)
	a.linkList.Title = "› links: " + truncateEnd(meal.Name, 40)
	a.view = ViewLinks
	a.clearStatus()
	return nil
}

func (a *App) openLink(info *plugins.LinkInfo) tea.Cmd {
	if info == nil {
		return nil
	}
	opener := a.opener
	return func() tea.Msg {
		if err := opener.OpenLink(info); err != nil {
			return errorMsg{err: wrapErr("opening "+info.Title, err)}
		}
		return linkOpenedMsg{title: info.Title}
	}
}
