// Package ui is the interactive terminal interface: a bubbletea program over
// the screen controllers.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/mixxbar/mixx/pkg/catalog"
	"github.com/mixxbar/mixx/pkg/model"
	"github.com/mixxbar/mixx/pkg/screen"
	"github.com/mixxbar/mixx/pkg/session"
	"github.com/mixxbar/mixx/pkg/watcher"
)

// Tab is one top-level view.
type Tab int

const (
	TabCocktails Tab = iota
	TabIngredients
	TabRecommendations
	TabAccount
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabCocktails:
		return "Cocktails"
	case TabIngredients:
		return "Ingredients"
	case TabRecommendations:
		return "For You"
	case TabAccount:
		return "Account"
	default:
		return "?"
	}
}

// Options wires the TUI to its collaborators.
type Options struct {
	Backend             screen.Backend
	Account             screen.AccountBackend
	Session             *session.Session
	Logger              *zap.Logger
	Facets              catalog.FacetSet
	SearchDebounce      time.Duration
	RecommendationCount int
	// GlamourStyle names the markdown style for the cocktail view; empty
	// detects it from the terminal.
	GlamourStyle string
	// WatchPath is the session database to watch for logins and logouts
	// made by other processes. Empty disables watching.
	WatchPath string
}

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	opts   Options
	theme  Theme
	keys   keyMap
	logger *zap.Logger

	width  int
	height int
	tab    Tab

	source    screen.Source
	cocktails map[screen.Source]*screen.Cocktails
	list      list.Model
	search    textinput.Model
	searching bool
	searchSeq int

	ingredients *screen.Ingredients
	ingMine     bool
	ingCursor   string
	usedIn      string

	detail         *screen.Detail
	viewport       viewport.Model
	showDetail     bool
	favoritesStale bool

	recs         *screen.Recommendations
	recPicks     []screen.IngredientPick
	recCocktails []model.CocktailSummary
	recCursor    int

	account    *screen.Account
	form       *huh.Form
	formKind   FormKind
	formValues *FormValues

	jump    *JumpModel
	help    HelpOverlayModel
	spinner spinner.Model
	loading map[string]bool

	status    string
	statusErr bool

	sessionEvents <-chan struct{}
}

// NewModel builds the root model. ctx bounds every backend request it makes.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = watcher.DefaultDebounceDuration
	}
	theme := DefaultTheme(nil)

	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 80
	ti.Prompt = "/ "

	l := list.New(nil, CocktailDelegate{Theme: theme, ShowGlass: true}, 80, 20)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		opts:     opts,
		theme:    theme,
		keys:     defaultKeyMap(),
		logger:   opts.Logger,
		source:   screen.SourceAll,
		list:     l,
		search:   ti,
		viewport: viewport.New(80, 20),
		help:     NewHelpOverlayModel(theme),
		spinner:  sp,
		loading:  make(map[string]bool),
		account:  screen.NewAccount(opts.Account, opts.Session),
	}
	m.resetScreens()
	return m
}

// resetScreens drops every loaded screen, e.g. after the user changes.
func (m *Model) resetScreens() {
	auth := m.opts.Session
	m.cocktails = map[screen.Source]*screen.Cocktails{
		screen.SourceAll:       screen.NewCocktails(m.opts.Backend, auth, screen.SourceAll, m.opts.Facets),
		screen.SourceMine:      screen.NewCocktails(m.opts.Backend, auth, screen.SourceMine, m.opts.Facets),
		screen.SourceFavorites: screen.NewCocktails(m.opts.Backend, auth, screen.SourceFavorites, m.opts.Facets),
	}
	m.ingredients = screen.NewIngredients(m.opts.Backend, auth)
	m.recs = screen.NewRecommendations(m.opts.Backend, auth, m.opts.RecommendationCount, nil)
	m.recPicks, m.recCocktails, m.recCursor = nil, nil, 0
	m.ingCursor, m.usedIn = "", ""
	m.detail, m.showDetail = nil, false
	m.loading = make(map[string]bool)
	m.list.SetItems(nil)
}

func (m Model) loggedIn() bool {
	return m.opts.Session != nil && m.opts.Session.LoggedIn()
}

func (m Model) currentCocktails() *screen.Cocktails {
	return m.cocktails[m.source]
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.ensureLoaded()}
	if m.sessionEvents != nil {
		cmds = append(cmds, waitForSessionFile(m.sessionEvents))
	}
	return tea.Batch(cmds...)
}

// Tab returns the active view.
func (m Model) Tab() Tab {
	return m.tab
}

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status, m.statusErr = text, isErr
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	listHeight := height - 9
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(width, listHeight)
	m.viewport.Width = width
	m.viewport.Height = height - 4
	m.help.SetSize(width, height)
	if m.jump != nil {
		m.jump.SetSize(width, height)
	}
	if m.form != nil {
		m.form = m.form.WithWidth(min(width-4, 60))
	}
	if m.showDetail && m.detail != nil {
		m.renderDetail()
	}
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewModel(ctx, opts)
	if opts.WatchPath != "" {
		events := make(chan struct{}, 1)
		fw, err := watcher.NewFileWatcher(opts.WatchPath, 0, m.logger, func() {
			select {
			case events <- struct{}{}:
			default:
			}
		})
		if err != nil {
			m.logger.Warn("session watch disabled", zap.Error(err))
		} else if err := fw.Start(ctx); err != nil {
			fw.Close()
			m.logger.Warn("session watch disabled", zap.Error(err))
		} else {
			defer fw.Close()
			m.sessionEvents = events
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
