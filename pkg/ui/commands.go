package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/model"
	"github.com/mixxbar/mixx/pkg/screen"
)

type cocktailsLoadedMsg struct {
	source screen.Source
	err    error
}

type ingredientsLoadedMsg struct{ err error }

type recsLoadedMsg struct{ err error }

type detailLoadedMsg struct {
	detail *screen.Detail
	err    error
}

// actionDoneMsg reports a finished user action. authChanged means the
// logged-in user may differ and every screen must reload.
type actionDoneMsg struct {
	status      string
	err         error
	authChanged bool
	// refresh names what the action made stale.
	refresh refreshScope
}

type refreshScope int

const (
	refreshNone refreshScope = iota
	refreshDetail
	refreshPantry
)

type usedInMsg struct {
	name      string
	cocktails []model.Cocktail
	err       error
}

type searchTickMsg struct{ seq int }

type sessionFileMsg struct{}

type sessionReloadedMsg struct {
	changed bool
	err     error
}

// copyFunc writes to the system clipboard.
var copyFunc = clipboard.WriteAll

// errText is the status line for a failed action.
func errText(err error) string {
	if errors.Is(err, api.ErrNotLoggedIn) {
		return "Log in from the Account view to do that."
	}
	return screen.ErrorText(err)
}

func loadKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// startLoad marks key as loading and returns cmd plus the spinner tick. It
// returns nil if key is already loading.
func (m *Model) startLoad(key string, cmd tea.Cmd) tea.Cmd {
	if m.loading[key] {
		return nil
	}
	wasIdle := len(m.loading) == 0
	m.loading[key] = true
	if wasIdle {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

func (m *Model) finishLoad(key string) {
	delete(m.loading, key)
}

// ensureLoaded fetches whatever the active view needs and has not loaded.
func (m *Model) ensureLoaded() tea.Cmd {
	switch m.tab {
	case TabCocktails:
		c := m.currentCocktails()
		if c.Loaded() || (m.source.NeedsLogin() && !m.loggedIn()) {
			return nil
		}
		return m.loadCocktails(m.source)
	case TabIngredients:
		if m.ingredients.Loaded() {
			return nil
		}
		return m.loadIngredients()
	case TabRecommendations:
		if m.recs.Loaded() || !m.loggedIn() {
			return nil
		}
		return m.loadRecommendations()
	}
	return nil
}

func (m *Model) loadCocktails(src screen.Source) tea.Cmd {
	c, ctx := m.cocktails[src], m.ctx
	return m.startLoad(loadKey("cocktails", string(src)), func() tea.Msg {
		return cocktailsLoadedMsg{source: src, err: c.Load(ctx)}
	})
}

func (m *Model) loadIngredients() tea.Cmd {
	s, ctx := m.ingredients, m.ctx
	return m.startLoad("ingredients", func() tea.Msg {
		return ingredientsLoadedMsg{err: s.Load(ctx)}
	})
}

func (m *Model) loadRecommendations() tea.Cmd {
	r, ctx := m.recs, m.ctx
	return m.startLoad("recommendations", func() tea.Msg {
		return recsLoadedMsg{err: r.Load(ctx)}
	})
}

// openDetail shows cocktail id and starts loading it.
func (m *Model) openDetail(id string) tea.Cmd {
	d := screen.NewDetail(m.opts.Backend, m.opts.Session, id)
	m.detail, m.showDetail = d, true
	m.viewport.SetContent("")
	m.viewport.GotoTop()
	ctx := m.ctx
	return m.startLoad(loadKey("detail", id), func() tea.Msg {
		return detailLoadedMsg{detail: d, err: d.Load(ctx)}
	})
}

func (m *Model) renderDetail() {
	if m.detail == nil {
		return
	}
	width := m.width - 2
	out, err := m.detail.Render(width, m.opts.GlamourStyle)
	if err != nil {
		if !errors.Is(err, screen.ErrNothingToRender) {
			m.logger.Sugar().Warnw("render cocktail", "id", m.detail.ID(), "error", err)
		}
		out = m.detail.PlainText()
	}
	m.viewport.SetContent(out)
}

func (m *Model) setLikeStatus(want model.LikeStatus) tea.Cmd {
	d, ctx := m.detail, m.ctx
	return func() tea.Msg {
		status, err := d.SetLikeStatus(ctx, want)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		text := "Rating cleared."
		switch status {
		case model.LikeLiked:
			text = "Liked."
		case model.LikeDisliked:
			text = "Disliked."
		}
		return actionDoneMsg{status: text, refresh: refreshDetail}
	}
}

func (m *Model) toggleDetailFavorite() tea.Cmd {
	d, ctx := m.detail, m.ctx
	return func() tea.Msg {
		fav, err := d.ToggleFavorite(ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: favoriteText(fav), refresh: refreshDetail}
	}
}

func favoriteText(fav bool) string {
	if fav {
		return "Added to favorites."
	}
	return "Removed from favorites."
}

func (m *Model) toggleListFavorite(id string) tea.Cmd {
	c, ctx := m.currentCocktails(), m.ctx
	return func() tea.Msg {
		fav, err := c.ToggleFavorite(ctx, id)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: favoriteText(fav)}
	}
}

func (m *Model) toggleRecFavorite(id string) tea.Cmd {
	r, ctx := m.recs, m.ctx
	return func() tea.Msg {
		fav, err := r.ToggleFavorite(ctx, id)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: favoriteText(fav)}
	}
}

func (m *Model) copyRecipe() tea.Cmd {
	text := m.detail.PlainText()
	return func() tea.Msg {
		if text == "" {
			return actionDoneMsg{status: "Nothing to copy yet."}
		}
		if err := copyFunc(text); err != nil {
			return actionDoneMsg{status: "Could not copy: " + err.Error()}
		}
		return actionDoneMsg{status: "Recipe copied to clipboard."}
	}
}

func (m *Model) savePantry() tea.Cmd {
	s, ctx := m.ingredients, m.ctx
	return m.startLoad("pantry", func() tea.Msg {
		if s.Pending().IsEmpty() {
			return actionDoneMsg{status: "No changes to save."}
		}
		if err := s.Save(ctx); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "Your bar is saved.", refresh: refreshPantry}
	})
}

func (m *Model) showUsedIn(id string) tea.Cmd {
	s, ctx := m.ingredients, m.ctx
	ref, _ := s.Lookup(id)
	name := ref.Name
	if name == "" {
		name = id
	}
	return func() tea.Msg {
		cocktails, err := s.CocktailsWith(ctx, id)
		return usedInMsg{name: name, cocktails: cocktails, err: err}
	}
}

func (m *Model) logout() tea.Cmd {
	a, ctx := m.account, m.ctx
	return func() tea.Msg {
		if err := a.Logout(ctx); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: "Logged out.", authChanged: true}
	}
}

// submitForm runs the account action behind a completed form.
func (m *Model) submitForm(kind FormKind, v FormValues) tea.Cmd {
	a, ctx := m.account, m.ctx
	return func() tea.Msg {
		switch kind {
		case FormLogin:
			u, err := a.Login(ctx, v.Email, v.Password)
			if err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{status: "Welcome back, " + u.FirstName + ".", authChanged: true}
		case FormSignup:
			u, err := a.Signup(ctx, v.Signup())
			if err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{status: "Welcome, " + u.FirstName + ".", authChanged: true}
		case FormName:
			if err := a.UpdateName(ctx, v.FirstName, v.LastName, v.Password); err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{status: "Name updated."}
		case FormEmail:
			if err := a.UpdateEmail(ctx, v.Email, v.Password); err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{status: "Email updated."}
		case FormPassword:
			if err := a.UpdatePassword(ctx, v.PasswordChange()); err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{status: "Password updated."}
		case FormDelete:
			if !v.Confirm {
				return actionDoneMsg{status: "Account not deleted."}
			}
			if err := a.Delete(ctx, v.Password); err != nil {
				return actionDoneMsg{err: err}
			}
			return actionDoneMsg{status: "Account deleted.", authChanged: true}
		}
		return nil
	}
}

func (m *Model) scheduleSearch() tea.Cmd {
	m.searchSeq++
	seq := m.searchSeq
	return tea.Tick(m.opts.SearchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	})
}

func waitForSessionFile(events <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return sessionFileMsg{}
	}
}

func (m *Model) reloadSession() tea.Cmd {
	sess, ctx := m.opts.Session, m.ctx
	return func() tea.Msg {
		changed, err := sess.Reload(ctx)
		return sessionReloadedMsg{changed: changed, err: err}
	}
}
