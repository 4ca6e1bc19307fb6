package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/mymeals/internal/config"
)

type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Back      key.Binding
	Select    key.Binding
	Refresh   key.Binding
	OpenLinks key.Binding
	Filter    key.Binding
	Focus     key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	b := cfg.Keys.Bindings
	combo := func(k string) string {
		if cfg.Keys.Modifier == "" {
			return k
		}
		return cfg.Keys.Modifier + "+" + k
	}

	return keyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Quit:      key.NewBinding(key.WithKeys(b.Quit), key.WithHelp(b.Quit, "quit")),
		Back:      key.NewBinding(key.WithKeys(b.Back), key.WithHelp(b.Back, "back")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Refresh:   key.NewBinding(key.WithKeys(combo(b.Refresh)), key.WithHelp(combo(b.Refresh), "refresh")),
		OpenLinks: key.NewBinding(key.WithKeys(combo(b.OpenLinks)), key.WithHelp(combo(b.OpenLinks), "links")),
		Filter:    key.NewBinding(key.WithKeys(b.Filter), key.WithHelp(b.Filter, "filter")),
		Focus:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "results")),
	}
}

// withHelp copies a binding under a different help label.
func withHelp(b key.Binding, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(b.Keys()...), key.WithHelp(b.Help().Key, desc))
}

type KeyHandler struct {
	app    *App
	config *config.Config
	keys   keyMap
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, config: cfg, keys: newKeyMap(cfg)}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, kh.keys.ForceQuit) {
		return kh.app, tea.Quit
	}

	// an open "/" prompt owns the keyboard
	if kh.isSettingFilter() {
		return kh.delegateToCharm(msg)
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isSettingFilter() bool {
	return kh.app.view == ViewList && kh.app.mealList.SettingFilter()
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewList && kh.app.searchInput.Focused()
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, kh.keys.Back):
		return kh.navigateBack()
	case key.Matches(msg, kh.keys.Refresh):
		return kh.app, kh.app.refreshList()
	case key.Matches(msg, kh.keys.Select):
		return kh.openSelectedMeal()
	}

	switch msg.String() {
	case "tab", "down":
		if len(kh.app.mealList.VisibleItems()) > 0 {
			kh.app.searchInput.Blur()
			kh.app.mealList.Select(0)
		}
		return kh.app, nil
	}

	return kh.delegateToTextInput(msg)
}

// delegateToTextInput types into the search box and tells the controller
// when the text actually changed.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := kh.app.searchInput.Value()

	var cmd tea.Cmd
	kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)

	if v := kh.app.searchInput.Value(); v != prev {
		return kh.app, tea.Batch(cmd, kh.app.queryChanged(v))
	}
	return kh.app, cmd
}

func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.Quit):
		return kh.app, tea.Quit, true
	case key.Matches(msg, kh.keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}

	switch kh.app.view {
	case ViewWelcome:
		if key.Matches(msg, kh.keys.Select) {
			return kh.app, kh.app.mountList(), true
		}
		return kh.app, nil, true
	case ViewList:
		return kh.handleListCustomKeys(msg)
	case ViewDetail:
		return kh.handleDetailCustomKeys(msg)
	case ViewLinks:
		return kh.handleLinksCustomKeys(msg)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleListCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.Refresh):
		return kh.app, kh.app.refreshList(), true
	case key.Matches(msg, kh.keys.Select):
		model, cmd := kh.openSelectedMeal()
		return model, cmd, true
	case key.Matches(msg, kh.keys.Focus):
		return kh.app, kh.app.searchInput.Focus(), true
	case msg.String() == "up" && kh.app.mealList.Index() == 0:
		return kh.app, kh.app.searchInput.Focus(), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleDetailCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.OpenLinks):
		return kh.app, kh.app.openLinks(), true
	case key.Matches(msg, kh.keys.Refresh):
		return kh.app, kh.app.reloadDetail(), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleLinksCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if key.Matches(msg, kh.keys.Select) || key.Matches(msg, kh.keys.OpenLinks) {
		if i, ok := kh.app.linkList.SelectedItem().(linkItem); ok {
			return kh.app, kh.app.openLink(i.info), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

// delegateToCharm lets the bubbles components handle keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewList:
		kh.app.mealList, cmd = kh.app.mealList.Update(msg)
		return kh.app, cmd
	case ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd
	case ViewLinks:
		kh.app.linkList, cmd = kh.app.linkList.Update(msg)
		return kh.app, cmd
	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) openSelectedMeal() (tea.Model, tea.Cmd) {
	if i, ok := kh.app.mealList.SelectedItem().(mealItem); ok {
		return kh.app, kh.app.openDetail(i.meal)
	}
	return kh.app, nil
}

// navigateBack walks one step towards the welcome view, quitting from there.
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewLinks:
		kh.app.view = ViewDetail
		kh.app.clearStatus()
		return kh.app, nil

	case ViewDetail:
		kh.app.closeDetail()
		kh.app.view = ViewList
		return kh.app, nil

	case ViewList:
		if kh.app.mealList.FilterState() == list.FilterApplied {
			kh.app.mealList.ResetFilter()
			return kh.app, nil
		}
		kh.app.unmountList()
		return kh.app, nil

	default:
		return kh.app, tea.Quit
	}
}

// HelpBindings lists the keys worth showing in the status bar for the
// current view.
func (kh *KeyHandler) HelpBindings() []key.Binding {
	k := kh.keys
	switch kh.app.view {
	case ViewWelcome:
		return []key.Binding{withHelp(k.Select, "get started"), k.Quit}

	case ViewList:
		if kh.app.searchInput.Focused() {
			return []key.Binding{k.Select, k.Focus, k.Refresh, k.Back}
		}
		return []key.Binding{k.Select, k.Filter, withHelp(k.Focus, "search"), k.Refresh, k.Back}

	case ViewDetail:
		return []key.Binding{k.OpenLinks, withHelp(k.Refresh, "reload"), k.Back}

	case ViewLinks:
		return []key.Binding{k.Select, k.Back}

	default:
		return nil
	}
}
