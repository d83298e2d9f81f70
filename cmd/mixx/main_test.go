package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/config"
	"github.com/mixxbar/mixx/pkg/export"
)

// bar is an in-memory backend with three cocktails and one user.
type bar struct {
	mu        sync.Mutex
	owned     []string
	favorites []string
	rating    string
	requests  []string
}

var (
	barCocktails = []map[string]any{
		{"_id": "c1", "name": "Gimlet", "glass": "g1", "directions": "shake with ice", "garnish": "lime wheel",
			"ingredients": []map[string]any{{"ingredient": "i1", "quantity": 2, "unit": "oz"}, {"ingredient": "i3", "quantity": "3/4", "unit": "oz"}}},
		{"_id": "c2", "name": "Negroni", "subtitle": "Bitter and bold", "glass": "g2", "directions": "stir",
			"ingredients": []map[string]any{{"ingredient": "i1", "quantity": 1, "unit": "oz"}, {"ingredient": "i2", "quantity": 1, "unit": "oz"}}},
		{"_id": "c3", "name": "Daiquiri", "glass": "g1", "directions": "shake",
			"ingredients": []map[string]any{{"ingredient": "i4", "quantity": 2, "unit": "oz"}, {"ingredient": "i3", "quantity": 1, "unit": "oz"}}},
	}
	barIngredients = []map[string]string{
		{"_id": "i1", "name": "Gin", "category": "Spirits", "subcategory": "Gin"},
		{"_id": "i2", "name": "Campari", "category": "Liqueurs", "subcategory": "Bitter"},
		{"_id": "i3", "name": "Lime Juice", "category": "Mixers", "subcategory": "Juice"},
		{"_id": "i4", "name": "Rum", "category": "Spirits", "subcategory": "Rum"},
	}
	barCategorized = map[string]map[string][]map[string]string{
		"Spirits":  {"Gin": {{"id": "i1", "name": "Gin"}}, "Rum": {{"id": "i4", "name": "Rum"}}},
		"Liqueurs": {"Bitter": {{"id": "i2", "name": "Campari"}}},
		"Mixers":   {"Juice": {{"id": "i3", "name": "Lime Juice"}}},
	}
	barGlassware = []map[string]string{{"_id": "g1", "name": "Coupe"}, {"_id": "g2", "name": "Rocks"}}
)

func reply(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (b *bar) possible() []map[string]any {
	var out []map[string]any
	for _, c := range barCocktails {
		makeable := true
		for _, item := range c["ingredients"].([]map[string]any) {
			if !slices.Contains(b.owned, item["ingredient"].(string)) {
				makeable = false
			}
		}
		if makeable {
			out = append(out, c)
		}
	}
	return out
}

func (b *bar) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cocktails", func(w http.ResponseWriter, r *http.Request) {
		reply(w, barCocktails)
	})
	mux.HandleFunc("GET /cocktails/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, c := range barCocktails {
			if c["_id"] == r.PathValue("id") {
				reply(w, map[string]any{"cocktail": c})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("GET /cocktails/containing/{id}", func(w http.ResponseWriter, r *http.Request) {
		var out []map[string]any
		for _, c := range barCocktails {
			for _, item := range c["ingredients"].([]map[string]any) {
				if item["ingredient"] == r.PathValue("id") {
					out = append(out, c)
				}
			}
		}
		reply(w, out)
	})
	mux.HandleFunc("GET /ingredients", func(w http.ResponseWriter, r *http.Request) {
		reply(w, barIngredients)
	})
	mux.HandleFunc("GET /ingredients/categorized", func(w http.ResponseWriter, r *http.Request) {
		reply(w, barCategorized)
	})
	mux.HandleFunc("GET /glassware", func(w http.ResponseWriter, r *http.Request) {
		reply(w, barGlassware)
	})
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "hunter2" {
			w.WriteHeader(api.CodeIncorrectPassword)
			return
		}
		reply(w, map[string]string{"userID": "u1", "firstName": "Ann", "lastName": "Lee"})
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {})

	mux.HandleFunc("GET /user/u1/cocktails", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		reply(w, b.possible())
	})
	mux.HandleFunc("GET /user/u1/cocktails/favorites", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		reply(w, map[string]any{"cocktailIDs": b.favorites})
	})
	mux.HandleFunc("GET /user/u1/cocktails/recommendations", func(w http.ResponseWriter, r *http.Request) {
		reply(w, []map[string]string{{"_id": "c3", "name": "Daiquiri"}})
	})
	mux.HandleFunc("GET /user/u1/cocktails/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		reply(w, map[string]string{"likeStatus": b.rating})
	})
	mux.HandleFunc("POST /user/u1/cocktails/{action}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		action := r.PathValue("action")
		b.requests = append(b.requests, action+" "+body["cocktailID"])
		switch action {
		case "favorite":
			b.favorites = append(b.favorites, body["cocktailID"])
		case "unfavorite":
			b.favorites = slices.DeleteFunc(b.favorites, func(id string) bool { return id == body["cocktailID"] })
		case "like":
			b.rating = "Liked"
		case "dislike":
			b.rating = "Disliked"
		case "remove_like", "remove_dislike":
			b.rating = "None"
		}
	})
	mux.HandleFunc("GET /user/u1/ingredients", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		reply(w, map[string]any{"ingredientIDs": b.owned})
	})
	mux.HandleFunc("GET /user/u1/ingredients/recommendations", func(w http.ResponseWriter, r *http.Request) {
		reply(w, map[string]any{"i4": []map[string]string{{"_id": "c3", "name": "Daiquiri"}}})
	})
	mux.HandleFunc("POST /user/u1/ingredients/update", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Added   []string `json:"newIngredients"`
			Removed []string `json:"removedIngredients"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests = append(b.requests, "update +"+strings.Join(body.Added, ",")+" -"+strings.Join(body.Removed, ","))
		b.owned = slices.DeleteFunc(b.owned, func(id string) bool { return slices.Contains(body.Removed, id) })
		b.owned = append(b.owned, body.Added...)
		reply(w, map[string]any{"ingredientIDs": b.owned})
	})
	mux.HandleFunc("POST /user/u1/updateName", func(w http.ResponseWriter, r *http.Request) {})
	return mux
}

// harness runs commands in-process against a bar backend with a private
// config and data directory.
type harness struct {
	t       *testing.T
	bar     *bar
	cfgPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := &bar{owned: []string{"i1", "i2"}, rating: "None"}
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.BackendURL = srv.URL
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.Log.File = filepath.Join(dir, "data", "mixx.log")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, cfg.Save(cfgPath))

	return &harness{t: t, bar: b, cfgPath: cfgPath}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes mixx with args and stdin, returning stdout and the error.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(append([]string{"--config", h.cfgPath}, args...))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, "mixx %s", strings.Join(args, " "))
	return out
}

func (h *harness) login() {
	h.t.Helper()
	out := h.mustRun("login", "--email", "ann@example.com", "--password", "hunter2")
	require.Equal(h.t, "Welcome back, Ann.\n", out)
}

func TestCocktailsTable(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("cocktails")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[2], "Daiquiri")
	assert.Contains(t, lines[3], "Gimlet")
	assert.Contains(t, lines[3], "Coupe")
	assert.Contains(t, lines[4], "Bitter and bold")
}

func TestCocktailsSearchJSON(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("cocktails", "--search", "campari", "--json")

	var rows []cocktailJSONRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []cocktailJSONRow{{ID: "c2", Name: "Negroni", Subtitle: "Bitter and bold", Glass: "Rocks"}}, rows)

	out = h.mustRun("cocktails", "--search", "campari", "--facet", "name", "--json")
	assert.Equal(t, "[]\n", out)
}

func TestCocktailsDidYouMean(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("cocktails", "--search", "gmlt")
	assert.Contains(t, out, `No cocktails match "gmlt".`)
	assert.Contains(t, out, "Did you mean: Gimlet")
}

func TestMineNeedsLogin(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "cocktails", "--mine")
	require.ErrorIs(t, err, api.ErrNotLoggedIn)
	assert.Equal(t, "not logged in. Run `mixx login` first.", errorText(err))
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "Not logged in.\n", h.mustRun("whoami"))

	_, err := h.run("", "login", "--email", "ann@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Incorrect Password", errorText(err))

	out, err := h.run("hunter2\n", "login", "--email", "ann@example.com", "--password-stdin")
	require.NoError(t, err)
	assert.Equal(t, "Welcome back, Ann.\n", out)

	out = h.mustRun("whoami", "--history", "5")
	assert.True(t, strings.HasPrefix(out, "Ann Lee (user u1)\n"), out)
	assert.Contains(t, out, "login")

	assert.Equal(t, "Logged out.\n", h.mustRun("logout"))
	assert.Equal(t, "Not logged in.\n", h.mustRun("whoami"))
}

func TestLoginWithoutTerminalNeedsFlags(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "login", "--email", "ann@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password")
}

func TestMineAndFavorites(t *testing.T) {
	h := newHarness(t)
	h.login()

	out := h.mustRun("cocktails", "--mine", "--json")
	var rows []cocktailJSONRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Negroni", rows[0].Name)

	assert.Equal(t, "Added 1 cocktail to favorites.\n", h.mustRun("favorite", "c1"))
	out = h.mustRun("cocktails", "--favorites")
	assert.Contains(t, out, "★")
	assert.Contains(t, out, "Gimlet")
	assert.NotContains(t, out, "Negroni")

	assert.Equal(t, "Removed 1 cocktail from favorites.\n", h.mustRun("unfavorite", "c1"))
	assert.Empty(t, h.bar.favorites)
}

func TestCocktailPlainAndCopy(t *testing.T) {
	h := newHarness(t)
	var copied string
	old := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = old })

	out := h.mustRun("cocktail", "c1", "--copy")
	assert.Contains(t, out, "Gimlet")
	assert.Contains(t, out, "2 oz Gin")
	assert.Contains(t, out, "3/4 oz Lime Juice")
	assert.Contains(t, out, "Shake with ice")
	assert.Contains(t, out, "Glass: Coupe")
	assert.True(t, strings.HasPrefix(copied, "Gimlet\n"), copied)
	assert.Contains(t, copied, "Garnish: Lime wheel")

	_, err := h.run("", "cocktail", "nope")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, api.Code(err))
}

func TestRateCommands(t *testing.T) {
	h := newHarness(t)
	h.login()

	assert.Equal(t, "Liked Gimlet.\n", h.mustRun("like", "c1"))
	assert.Equal(t, "Gimlet is already liked.\n", h.mustRun("like", "c1"))
	assert.Equal(t, "Disliked Gimlet.\n", h.mustRun("dislike", "c1"))
	assert.Equal(t, "Cleared your rating of Gimlet.\n", h.mustRun("unrate", "c1"))

	assert.Equal(t, []string{"like c1", "remove_like c1", "dislike c1", "remove_dislike c1"}, h.bar.requests)
}

func TestIngredientsTreeAndEdits(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("ingredients")
	assert.Equal(t, strings.Join([]string{
		"Spirits",
		"  Gin",
		"    Gin  (i1)",
		"  Rum",
		"    Rum  (i4)",
		"Liqueurs",
		"  Bitter",
		"    Campari  (i2)",
		"Mixers",
		"  Juice",
		"    Lime Juice  (i3)",
	}, "\n")+"\n", out)

	h.login()
	out = h.mustRun("ingredients", "--search", "gin")
	assert.Contains(t, out, "[x] Gin  (i1)")

	out = h.mustRun("ingredients", "add", "lime juice", "i1")
	assert.Equal(t, "Your bar is saved: 1 ingredient added, 0 ingredients removed.\n", out)
	assert.Equal(t, []string{"update +i3 -"}, h.bar.requests)

	out = h.mustRun("ingredients", "remove", "Campari")
	assert.Equal(t, "Your bar is saved: 0 ingredients added, 1 ingredient removed.\n", out)

	out = h.mustRun("ingredients", "--mine")
	assert.Contains(t, out, "Lime Juice")
	assert.NotContains(t, out, "Campari")

	_, err := h.run("", "ingredients", "add", "absinthe")
	assert.EqualError(t, err, "unknown ingredient: absinthe")
}

func TestIngredientUsedIn(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("ingredients", "used-in", "Lime Juice")
	assert.Contains(t, out, "Daiquiri")
	assert.Contains(t, out, "Gimlet")
	assert.NotContains(t, out, "Negroni")
}

func TestRecommend(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "recommend")
	require.ErrorIs(t, err, api.ErrNotLoggedIn)

	h.login()
	out := h.mustRun("recommend")
	assert.Contains(t, out, "Rum unlocks 1 cocktail: Daiquiri")
	assert.Contains(t, out, "Cocktails to try")

	out = h.mustRun("recommend", "cocktails")
	assert.NotContains(t, out, "Ingredients to buy")

	_, err = h.run("", "recommend", "glassware")
	assert.Error(t, err)
}

func TestAccountUpdateName(t *testing.T) {
	h := newHarness(t)
	h.login()
	out := h.mustRun("account", "update-name", "--first-name", "Annie", "--last-name", "Lee", "--password", "hunter2")
	assert.Equal(t, "Name updated.\n", out)
	assert.True(t, strings.HasPrefix(h.mustRun("whoami"), "Annie Lee"))

	_, err := h.run("", "account", "delete", "--password", "hunter2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestExportXLSX(t *testing.T) {
	h := newHarness(t)
	h.login()
	path := filepath.Join(t.TempDir(), "bar.xlsx")
	h.mustRun("export", "--xlsx", path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetCocktails)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Negroni", rows[1][0])

	rows, err = f.GetRows(export.SheetShopping)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Rum", rows[1][0])
}

func TestConfigInitAndShow(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, os.Remove(h.cfgPath))
	out := h.mustRun("config", "init", "--backend", "https://mixx.example.com")
	assert.Equal(t, "Wrote "+h.cfgPath+"\n", out)

	out = h.mustRun("config", "show")
	assert.Contains(t, out, "backend_url: https://mixx.example.com")

	_, err = h.run("", "config", "show", "--backend", "ftp://nope")
	var cfgErr *config.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestTUINeedsTerminal(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a terminal")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, []string{"ID", "NAME"}, [][]string{{"c1", "Gimlet"}, {"c22", "Piña Colada"}})
	assert.Equal(t, "ID   NAME\n---  -----------\nc1   Gimlet\nc22  Piña Colada\n", buf.String())
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "shake with\nice", wrap("shake with ice", 10))
}
