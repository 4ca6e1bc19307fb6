package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/mymeals/internal/config"
	"github.com/pders01/mymeals/internal/debuglog"
	"github.com/pders01/mymeals/internal/loader"
	"github.com/pders01/mymeals/internal/mealdb"
	"github.com/pders01/mymeals/internal/media"
	"github.com/pders01/mymeals/internal/plugins"
	"github.com/pders01/mymeals/internal/plugins/user"
	"github.com/pders01/mymeals/internal/search"
)

// rows above the meal list: header (2), input frame (3), status line, gap
const listChrome = 7

// rows below every view: separator and status bar
const footerRows = 2

type App struct {
	config     *config.Config
	svc        MealService
	sorter     *mealdb.Sorter
	filter     search.Filter
	links      linkDescriber
	opener     linkOpener
	keyHandler *KeyHandler

	// list view state, alive between entering and leaving the list
	controller *search.Controller
	listLoader *loader.ListLoader
	shown      []mealdb.Meal

	detail   *loader.DetailLoader
	rendered bool
	content  string

	mealList    list.Model
	linkList    list.Model
	searchInput textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model
	help        help.Model

	view       View
	width      int
	height     int
	err        error
	status     string
	statusKind StatusKind

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	// renders run in commands; a TermRenderer must not render twice at once
	renderMu sync.Mutex
}

func NewApp(svc MealService, cfg *config.Config) *App {
	ApplyTheme(cfg.UI.Colors)

	mealList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	mealList.Title = "› meals"
	mealList.SetShowTitle(false)
	mealList.SetShowStatusBar(false)
	mealList.SetShowHelp(false)
	mealList.SetFilteringEnabled(true)
	mealList.DisableQuitKeybindings()
	if f := cfg.Keys.Bindings.Filter; f != "" {
		mealList.KeyMap.Filter = key.NewBinding(key.WithKeys(f), key.WithHelp(f, "filter"))
	}

	linkList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	linkList.Title = "› links"
	linkList.SetShowStatusBar(false)
	linkList.SetShowHelp(false)
	linkList.SetFilteringEnabled(false)
	linkList.DisableQuitKeybindings()

	si := textinput.New()
	si.Placeholder = "Search meals..."
	si.Prompt = "⌕ "
	si.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	registry := plugins.NewRegistry()
	registry.Register(user.NewYouTubePlugin())

	app := &App{
		config:      cfg,
		svc:         svc,
		sorter:      mealdb.NewSorter(cfg.UI.Locale),
		filter:      search.NewFilter(cfg.Search.FilterEngine),
		links:       registry,
		opener:      media.NewLauncher(cfg),
		detail:      loader.NewDetailLoader(svc),
		mealList:    mealList,
		linkList:    linkList,
		searchInput: si,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		help:        help.New(),
		view:        ViewWelcome,
	}
	app.mealList.Filter = app.filterRanks
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

// Close abandons all outstanding work. Call it after the program exits.
func (a *App) Close() error {
	if a.controller != nil {
		a.controller.Close()
	}
	if a.listLoader != nil {
		a.listLoader.Close()
	}
	a.detail.Close()
	return a.filter.Close()
}

// filterRanks backs the list's "/" filter with the local meal filter. The
// list calls it off the update goroutine.
func (a *App) filterRanks(term string, targets []string) []list.Rank {
	idx, err := a.filter.Match(term)
	if err != nil {
		debuglog.Warnf("local filter failed, using fuzzy match: %v", err)
		return list.DefaultFilter(term, targets)
	}
	ranks := make([]list.Rank, 0, len(idx))
	for _, i := range idx {
		if i < len(targets) {
			ranks = append(ranks, list.Rank{Index: i})
		}
	}
	return ranks
}

// filterDocCount reports how many meals the local filter holds, or -1 when
// the engine cannot tell.
func (a *App) filterDocCount() int {
	stats, ok := a.filter.(search.DebugStatser)
	if !ok {
		return -1
	}
	n, err := stats.DocCount()
	if err != nil {
		debuglog.Warnf("counting filter documents: %v", err)
		return -1
	}
	return n
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	maxWidth := a.config.UI.Detail.WordWrapMaxWidth
	minWidth := a.config.UI.Detail.WordWrapMinWidth

	wordWrapWidth := (a.width * 9) / 10
	if maxWidth > 0 && wordWrapWidth > maxWidth {
		wordWrapWidth = maxWidth
	}
	if wordWrapWidth < minWidth {
		wordWrapWidth = minWidth
	}
	if a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle(AppName),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		if a.view == ViewDetail && a.rendered {
			return a, a.renderDetail()
		}
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case search.DebounceFiredMsg, search.ResultsMsg:
		if a.controller == nil {
			return a, nil
		}
		cmd := a.controller.Update(msg)
		return a, tea.Batch(cmd, a.syncMealList(), a.spin())

	case loader.ListLoadedMsg:
		if a.listLoader == nil {
			return a, nil
		}
		a.listLoader.Update(msg)
		return a, a.syncMealList()

	case loader.DetailLoadedMsg:
		a.detail.Update(msg)
		return a, a.renderDetail()

	case detailRenderedMsg:
		if msg.id == a.detail.ID() && a.detail.Meal() != nil {
			a.content = msg.content
			a.viewport.SetContent(msg.content)
			if !a.rendered {
				a.viewport.GotoTop()
			}
			a.rendered = true
		}
		return a, nil

	case linkOpenedMsg:
		a.err = nil
		a.setStatus(MsgOpened(msg.title), StatusSuccess)
		return a, nil

	case errorMsg:
		a.err = msg.err
		return a, nil
	}

	var cmds []tea.Cmd
	switch a.view {
	case ViewList:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		cmds = append(cmds, cmd)
		a.mealList, cmd = a.mealList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewDetail:
		if _, ok := msg.(tea.MouseMsg); ok {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	case ViewLinks:
		var cmd tea.Cmd
		a.linkList, cmd = a.linkList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.help.Width = width

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = 10
	}
	a.searchInput.Width = inputWidth

	a.mealList.SetSize(width, max(height-footerRows-listChrome, 3))
	a.linkList.SetSize(width, max(height-footerRows, 3))
	a.viewport.Width = width
	a.viewport.Height = max(height-footerRows, 1)
}

// busy reports whether the current view waits on something worth a spinner.
func (a *App) busy() bool {
	switch a.view {
	case ViewList:
		if a.controller != nil && a.controller.Loading() {
			return true
		}
		return a.listLoader != nil && (a.listLoader.Loading() || a.listLoader.Refreshing())
	case ViewDetail:
		return a.detail.Loading() || (a.detail.Meal() != nil && !a.rendered)
	default:
		return false
	}
}

func (a *App) spin() tea.Cmd {
	if !a.busy() {
		return nil
	}
	return a.spinner.Tick
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
	a.err = nil
}

func (a *App) View() string {
	bodyHeight := max(a.height-footerRows, 0)

	var content string
	switch a.view {
	case ViewWelcome:
		content = renderCentered(a.width, bodyHeight, GetWelcomeMessage())
	case ViewList:
		content = a.listView(bodyHeight)
	case ViewDetail:
		content = a.detailView(bodyHeight)
	case ViewLinks:
		content = a.linkList.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Top,
		content,
		renderSeparator(a.width),
		a.getCustomStatusBar(),
	)
}

func (a *App) listView(height int) string {
	subtitle := "Browsing meals starting with " + strings.ToUpper(a.config.API.DefaultLetter)
	if a.controller != nil && a.controller.Searching() {
		subtitle = "Searching by name"
	}

	text, kind := a.listStatus()
	status := kind.style().Render(text)
	if a.busy() {
		status = a.spinner.View() + " " + status
	}

	body := a.mealList.View()
	if a.listLoader != nil && a.listLoader.Err() != "" && len(a.shown) == 0 {
		body = renderCentered(a.width, max(height-listChrome, 3), lipgloss.JoinVertical(
			lipgloss.Center,
			ErrorMessageStyle.Render(a.listLoader.Err()),
			renderHelp("press "+a.keyHandler.keys.Refresh.Help().Key+" to try again"),
		))
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		MaxHeight(height).
		Render(lipgloss.JoinVertical(
			lipgloss.Top,
			renderHeader("› meals", subtitle, a.width),
			renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
			status,
			"",
			body,
		))
}

// listStatus is the one-line state of the list view.
func (a *App) listStatus() (string, StatusKind) {
	if a.controller != nil && a.controller.Searching() {
		switch {
		case a.controller.Loading():
			return MsgSearching, StatusInfo
		case len(a.controller.Results()) == 0:
			return MsgNoMealsFor(a.controller.Query()), StatusWarn
		default:
			return MsgMealCount(len(a.controller.Results())), StatusInfo
		}
	}

	if a.listLoader == nil {
		return "", StatusInfo
	}
	switch {
	case a.listLoader.Loading():
		return MsgLoadingMeals, StatusInfo
	case a.listLoader.Refreshing():
		return MsgRefreshing, StatusInfo
	case a.listLoader.Err() != "":
		return a.listLoader.Err(), StatusError
	default:
		return MsgMealCount(len(a.listLoader.Meals())), StatusInfo
	}
}

func (a *App) detailView(height int) string {
	switch {
	case a.detail.Loading():
		return renderCentered(a.width, height, a.spinner.View()+" "+renderMuted(MsgLoadingMeal))
	case a.detail.Err() != "":
		return renderCentered(a.width, height, lipgloss.JoinVertical(
			lipgloss.Center,
			ErrorMessageStyle.Render(a.detail.Err()),
			renderHelp("press "+a.keyHandler.keys.Refresh.Help().Key+" to try again"),
		))
	case a.detail.NotFound():
		return renderCentered(a.width, height, renderMuted(loader.NotFoundMessage))
	case !a.rendered:
		return renderCentered(a.width, height, a.spinner.View()+" "+renderMuted(MsgRendering))
	default:
		return a.viewport.View()
	}
}

func (a *App) getCustomStatusBar() string {
	style := lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(MutedColor)

	if a.err != nil {
		return style.Render(ErrorMessageStyle.Render("✗ " + a.err.Error()))
	}

	var parts []string
	if a.status != "" {
		parts = append(parts, a.statusKind.style().Render(a.status))
	}
	if bindings := a.keyHandler.HelpBindings(); len(bindings) > 0 {
		parts = append(parts, a.help.ShortHelpView(bindings))
	}
	return style.Render(strings.Join(parts, " • "))
}
