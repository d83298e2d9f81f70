package ui

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/catalog"
	"github.com/mixxbar/mixx/pkg/model"
	"github.com/mixxbar/mixx/pkg/pantry"
	"github.com/mixxbar/mixx/pkg/screen"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if len(m.loading) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case cocktailsLoadedMsg:
		m.finishLoad(loadKey("cocktails", string(msg.source)))
		if msg.err != nil {
			return m.fail(msg.err)
		}
		if msg.source == m.source {
			cmd := m.refreshList()
			return m, cmd
		}
		return m, nil

	case ingredientsLoadedMsg:
		m.finishLoad("ingredients")
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.clampIngredientCursor()
		return m, nil

	case recsLoadedMsg:
		m.finishLoad("recommendations")
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.recPicks = m.recs.Ingredients()
		m.recCocktails = m.recs.Cocktails()
		m.recCursor = 0
		return m, nil

	case detailLoadedMsg:
		m.finishLoad(loadKey("detail", msg.detail.ID()))
		if msg.detail != m.detail {
			return m, nil
		}
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.renderDetail()
		return m, nil

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case usedInMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.usedIn = usedInText(msg.name, msg.cocktails)
		return m, nil

	case searchTickMsg:
		if msg.seq == m.searchSeq {
			cmd := m.applySearch()
			return m, cmd
		}
		return m, nil

	case sessionFileMsg:
		return m, tea.Batch(m.reloadSession(), waitForSessionFile(m.sessionEvents))

	case sessionReloadedMsg:
		if msg.err != nil {
			m.logger.Warn("reload session", zap.Error(msg.err))
			return m, nil
		}
		if !msg.changed {
			return m, nil
		}
		st := m.opts.Session.State()
		if st.LoggedIn {
			m.setStatus("Signed in as "+st.DisplayName()+" in another window.", false)
		} else {
			m.setStatus("Signed out in another window.", false)
		}
		m.resetScreens()
		cmd := m.ensureLoaded()
		return m, cmd
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// fail shows err on the status line. An expired session resets every screen.
func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.logger.Debug("action failed", zap.Error(err))
	m.setStatus(errText(err), true)
	if api.Code(err) == http.StatusUnauthorized {
		m.resetScreens()
		cmd := m.ensureLoaded()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	m.finishLoad("pantry")
	if msg.err != nil {
		return m.fail(msg.err)
	}
	m.setStatus(msg.status, false)

	if msg.authChanged {
		m.resetScreens()
		cmd := m.ensureLoaded()
		return m, cmd
	}

	var cmds []tea.Cmd
	switch msg.refresh {
	case refreshDetail:
		m.renderDetail()
		m.favoritesStale = true
	case refreshPantry:
		// Owned ingredients changed, so the makeable list is stale.
		m.cocktails[screen.SourceMine] = screen.NewCocktails(m.opts.Backend, m.opts.Session, screen.SourceMine, m.opts.Facets)
		m.recs = screen.NewRecommendations(m.opts.Backend, m.opts.Session, m.opts.RecommendationCount, nil)
		m.recPicks, m.recCocktails = nil, nil
	}
	if m.tab == TabCocktails && !m.showDetail {
		cmds = append(cmds, m.refreshList())
	}
	return m, tea.Batch(cmds...)
}

func usedInText(name string, cocktails []model.Cocktail) string {
	if len(cocktails) == 0 {
		return "No cocktails use " + name + "."
	}
	names := make([]string, len(cocktails))
	for i, c := range catalog.SortByName(cocktails) {
		names[i] = c.Name
	}
	return name + " is used in: " + strings.Join(names, ", ")
}

// refreshList re-derives the cocktail list from the active screen.
func (m *Model) refreshList() tea.Cmd {
	c := m.currentCocktails()
	return m.list.SetItems(cocktailItems(c.Results(), c.GlassName, c.IsFavorite))
}

// applySearch pushes the search box into the active screen.
func (m *Model) applySearch() tea.Cmd {
	q := m.search.Value()
	switch m.tab {
	case TabCocktails:
		m.currentCocktails().SetQuery(q)
		m.list.ResetSelected()
		return m.refreshList()
	case TabIngredients:
		m.ingredients.SetQuery(q)
		m.clampIngredientCursor()
	}
	return nil
}

func (m *Model) switchTab(t Tab) tea.Cmd {
	m.tab = (t + tabCount) % tabCount
	m.searching = false
	m.search.Blur()
	m.usedIn = ""
	switch m.tab {
	case TabCocktails:
		m.search.SetValue(m.currentCocktails().Query())
	case TabIngredients:
		m.search.SetValue(m.ingredients.Query())
	default:
		m.search.SetValue("")
	}
	return tea.Batch(m.ensureLoaded(), m.refreshList())
}

func (m *Model) openForm(kind FormKind) tea.Cmd {
	m.formKind = kind
	m.formValues = &FormValues{}
	if kind == FormName {
		st := m.opts.Session.State()
		m.formValues.FirstName, m.formValues.LastName = st.FirstName, st.LastName
	}
	m.form = NewAccountForm(kind, m.formValues)
	if m.width > 0 {
		m.form = m.form.WithWidth(min(m.width-4, 60))
	}
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.form, m.formKind, m.formValues = nil, FormNone, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}
	next, cmd := m.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		kind, values := m.formKind, *m.formValues
		m.closeForm()
		return m, m.submitForm(kind, values)
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.help.IsVisible() {
		m.help, _ = m.help.Update(msg)
		return m, nil
	}
	if m.form != nil {
		return m.updateForm(msg)
	}
	if m.jump != nil {
		return m.handleJumpKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.showDetail {
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		cmd := m.switchTab(m.tab + 1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevTab):
		cmd := m.switchTab(m.tab - 1)
		return m, cmd
	case key.Matches(msg, m.keys.Jump):
		m.openJump()
		return m, nil
	}

	switch m.tab {
	case TabCocktails:
		return m.handleCocktailsKey(msg)
	case TabIngredients:
		return m.handleIngredientsKey(msg)
	case TabRecommendations:
		return m.handleRecommendationsKey(msg)
	case TabAccount:
		return m.handleAccountKey(msg)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.searchSeq++
		cmd := m.applySearch()
		return m, cmd
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, tea.Batch(cmd, m.scheduleSearch())
}

func (m *Model) startSearch() tea.Cmd {
	m.searching = true
	return m.search.Focus()
}

func (m Model) handleCocktailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		cmd := m.startSearch()
		return m, cmd
	case key.Matches(msg, m.keys.Source):
		m.source = nextSource(m.source)
		m.search.SetValue(m.currentCocktails().Query())
		m.list.ResetSelected()
		cmd := tea.Batch(m.ensureLoaded(), m.refreshList())
		return m, cmd
	case key.Matches(msg, m.keys.FacetName):
		cmd := m.toggleFacet(catalog.FacetName)
		return m, cmd
	case key.Matches(msg, m.keys.FacetIng):
		cmd := m.toggleFacet(catalog.FacetIngredient)
		return m, cmd
	case key.Matches(msg, m.keys.FacetGlas):
		cmd := m.toggleFacet(catalog.FacetGlassware)
		return m, cmd
	case key.Matches(msg, m.keys.Open):
		if it, ok := m.list.SelectedItem().(CocktailItem); ok {
			cmd := m.openDetail(it.Cocktail.ID)
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.Favorite):
		if it, ok := m.list.SelectedItem().(CocktailItem); ok {
			return m, m.toggleListFavorite(it.Cocktail.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			cmd := m.applySearch()
			return m, cmd
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func nextSource(s screen.Source) screen.Source {
	switch s {
	case screen.SourceAll:
		return screen.SourceMine
	case screen.SourceMine:
		return screen.SourceFavorites
	default:
		return screen.SourceAll
	}
}

func (m *Model) toggleFacet(f catalog.Facet) tea.Cmd {
	set := m.currentCocktails().ToggleFacet(f)
	m.setStatus("Searching by "+facetSummary(set)+".", false)
	return m.refreshList()
}

func facetSummary(set catalog.FacetSet) string {
	labels := make([]string, 0, 3)
	for _, f := range set.Enabled() {
		labels = append(labels, strings.ToLower(f.Label()))
	}
	return strings.Join(labels, ", ")
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), msg.String() == "q":
		m.showDetail = false
		m.detail = nil
		if m.favoritesStale {
			m.favoritesStale = false
			cmd := m.reloadFavorites()
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.Like):
		return m, m.setLikeStatus(model.LikeLiked)
	case key.Matches(msg, m.keys.Dislike):
		return m, m.setLikeStatus(model.LikeDisliked)
	case key.Matches(msg, m.keys.Favorite):
		return m, m.toggleDetailFavorite()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyRecipe()
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// reloadFavorites refetches the lists whose favorite marks may be stale.
func (m *Model) reloadFavorites() tea.Cmd {
	var cmds []tea.Cmd
	for _, src := range []screen.Source{screen.SourceAll, screen.SourceMine, screen.SourceFavorites} {
		if m.cocktails[src].Loaded() {
			cmds = append(cmds, m.loadCocktails(src))
		}
	}
	if m.recs.Loaded() {
		cmds = append(cmds, m.loadRecommendations())
	}
	return tea.Batch(cmds...)
}

// ingredientTree is the tree the ingredients view currently shows.
func (m Model) ingredientTree() renderedTree {
	tree := m.ingredients.All()
	if m.ingMine {
		tree = m.ingredients.Mine()
	}
	var state func(string) pantry.State
	if m.loggedIn() {
		state = m.ingredients.State
	}
	return renderTree(buildTreeNodes(tree), m.ingCursor, state, m.theme)
}

func (m *Model) clampIngredientCursor() {
	leaves := m.ingredientTree().Leaves()
	for _, id := range leaves {
		if id == m.ingCursor {
			return
		}
	}
	m.ingCursor = ""
	if len(leaves) > 0 {
		m.ingCursor = leaves[0]
	}
}

func (m *Model) moveIngredientCursor(delta int) {
	leaves := m.ingredientTree().Leaves()
	if len(leaves) == 0 {
		m.ingCursor = ""
		return
	}
	idx := 0
	for i, id := range leaves {
		if id == m.ingCursor {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(leaves) {
		idx = len(leaves) - 1
	}
	m.ingCursor = leaves[idx]
}

func (m Model) handleIngredientsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		cmd := m.startSearch()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		m.moveIngredientCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveIngredientCursor(1)
	case key.Matches(msg, m.keys.Mine):
		if !m.loggedIn() {
			m.setStatus(errText(api.ErrNotLoggedIn), true)
			return m, nil
		}
		m.ingMine = !m.ingMine
		m.clampIngredientCursor()
	case key.Matches(msg, m.keys.Toggle):
		if m.ingCursor == "" {
			return m, nil
		}
		if _, err := m.ingredients.Toggle(m.ingCursor); err != nil {
			return m.fail(err)
		}
		m.setStatus(pendingText(m.ingredients.Pending().Added, m.ingredients.Pending().Removed), false)
	case key.Matches(msg, m.keys.Save):
		cmd := m.savePantry()
		return m, cmd
	case key.Matches(msg, m.keys.Open):
		if m.ingCursor != "" {
			return m, m.showUsedIn(m.ingCursor)
		}
	case key.Matches(msg, m.keys.Back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			cmd := m.applySearch()
			return m, cmd
		}
	}
	return m, nil
}

func pendingText(added, removed []string) string {
	if len(added) == 0 && len(removed) == 0 {
		return "No unsaved changes."
	}
	var parts []string
	if n := len(added); n > 0 {
		parts = append(parts, plural(n, "addition"))
	}
	if n := len(removed); n > 0 {
		parts = append(parts, plural(n, "removal"))
	}
	return strings.Join(parts, " and ") + " unsaved. Press s to save."
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

func (m Model) handleRecommendationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.recCursor > 0 {
			m.recCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.recCursor < len(m.recCocktails)-1 {
			m.recCursor++
		}
	case key.Matches(msg, m.keys.Shuffle):
		if m.recs.Loaded() {
			m.recPicks = m.recs.Ingredients()
			m.recCocktails = m.recs.Cocktails()
			m.recCursor = 0
		}
	case key.Matches(msg, m.keys.Open):
		if m.recCursor < len(m.recCocktails) {
			cmd := m.openDetail(m.recCocktails[m.recCursor].ID)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Favorite):
		if m.recCursor < len(m.recCocktails) {
			return m, m.toggleRecFavorite(m.recCocktails[m.recCursor].ID)
		}
	}
	return m, nil
}

func (m Model) handleAccountKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.loggedIn() {
		switch {
		case key.Matches(msg, m.keys.Login):
			cmd := m.openForm(FormLogin)
			return m, cmd
		case key.Matches(msg, m.keys.Signup):
			cmd := m.openForm(FormSignup)
			return m, cmd
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Logout):
		return m, m.logout()
	case key.Matches(msg, m.keys.Name):
		cmd := m.openForm(FormName)
		return m, cmd
	case key.Matches(msg, m.keys.Email):
		cmd := m.openForm(FormEmail)
		return m, cmd
	case key.Matches(msg, m.keys.Password):
		cmd := m.openForm(FormPassword)
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		cmd := m.openForm(FormDelete)
		return m, cmd
	}
	return m, nil
}

func (m *Model) openJump() {
	var cocktails []model.Cocktail
	if all := m.cocktails[screen.SourceAll]; all.Loaded() {
		cocktails = all.All()
	}
	jm := NewJumpModel(cocktails, m.ingredients.Flat(), m.theme)
	jm.SetSize(m.width, m.height)
	m.jump = &jm
}

func (m Model) handleJumpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.jump.Update(msg.String())
	if msg.Type == tea.KeyEsc {
		m.jump = nil
		return m, nil
	}
	if !m.jump.IsConfirmed() {
		return m, nil
	}
	target := m.jump.SelectedItem()
	m.jump = nil
	if target == nil {
		return m, nil
	}
	switch target.Kind {
	case JumpCocktail:
		cmd := m.openDetail(target.ID)
		return m, cmd
	case JumpIngredient:
		cmd := m.switchTab(TabIngredients)
		m.ingMine = false
		m.search.SetValue("")
		m.ingredients.SetQuery("")
		m.ingCursor = target.ID
		return m, cmd
	}
	return m, nil
}
