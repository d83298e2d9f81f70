package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixxbar/mixx/pkg/model"
)

type staticIdentity string

func (s staticIdentity) UserID() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("ftp://example.com")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:5000/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
}

func TestLoginSendsCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ann@example.com", body["email"])
		assert.Equal(t, "hunter2", body["password"])

		writeJSON(t, w, map[string]string{"userID": "u1", "firstName": "Ann", "lastName": "Lee"})
	})

	user, err := c.Login(context.Background(), "ann@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: "u1", FirstName: "Ann", LastName: "Lee"}, user)
}

func TestSignupKeepsSubmittedNames(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"userID": "u9"})
	})

	user, err := c.Signup(context.Background(), "a@b.c", "pw", "Bob", "Ray")
	require.NoError(t, err)
	assert.Equal(t, "u9", user.ID)
	assert.Equal(t, "Bob Ray", user.FullName())
}

func TestDomainErrorCodes(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{CodeEmailTaken, "Email Taken"},
		{CodeEmailNotFound, "Email Not Found"},
		{CodeIncorrectPassword, "Incorrect Password"},
		{http.StatusInternalServerError, "Something went wrong. Please try again later."},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status)+tt.want, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.Login(context.Background(), "a@b.c", "pw")
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Code)
			assert.Equal(t, tt.want, Message(err))
		})
	}
}

func TestUnauthorizedInvokesHook(t *testing.T) {
	var cleared atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, WithIdentity(staticIdentity("u1")), OnUnauthorized(func() { cleared.Add(1) }))

	_, err := c.Favorites(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), cleared.Load())
}

func TestUserScopedCallWithoutSession(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, WithIdentity(staticIdentity("")))

	_, err := c.OwnedIngredients(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Zero(t, hits.Load())
}

func TestNetworkFailureHasZeroCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, WithTimeout(time.Second))
	require.NoError(t, err)
	_, err = c.Cocktails(context.Background())
	require.Error(t, err)
	assert.Equal(t, CodeNetwork, Code(err))
	assert.Equal(t, "Something went wrong. Please try again later.", Message(err))
}

func TestUpdateIngredientsRoundTrip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/u1/ingredients/update", r.URL.Path)
		var body struct {
			New     []string `json:"newIngredients"`
			Removed []string `json:"removedIngredients"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"rum"}, body.New)
		assert.Equal(t, []string{}, body.Removed)
		writeJSON(t, w, map[string][]string{"ingredientIDs": {"gin", "rum"}})
	}, WithIdentity(staticIdentity("u1")))

	owned, err := c.UpdateIngredients(context.Background(), []string{"rum"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"gin", "rum"}, owned)
}

func TestListPayloadsBareOrWrapped(t *testing.T) {
	cocktails := []map[string]any{{"_id": "c1", "name": "Martini"}}
	tests := []struct {
		name    string
		payload any
	}{
		{"bare", cocktails},
		{"wrapped", map[string]any{"cocktails": cocktails}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.payload)
			})
			got, err := c.Cocktails(context.Background())
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "Martini", got[0].Name)
		})
	}
}

func TestRatePostsCocktailID(t *testing.T) {
	var gotPath, gotID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body cocktailRef
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotID = body.CocktailID
	}, WithIdentity(staticIdentity("u1")))

	require.NoError(t, c.Rate(context.Background(), ActionRemoveDislike, "c7"))
	assert.Equal(t, "/user/u1/cocktails/remove_dislike", gotPath)
	assert.Equal(t, "c7", gotID)

	assert.Error(t, c.Rate(context.Background(), RateAction("boo"), "c7"))
}

func TestLikeStatusDefaultsToNone(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/u1/cocktails/c1/status", r.URL.Path)
		writeJSON(t, w, map[string]string{"likeStatus": "meh"})
	}, WithIdentity(staticIdentity("u1")))

	status, err := c.LikeStatus(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, model.LikeNone, status)
}

func TestFavoritesBuildsSet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string][]string{"cocktailIDs": {"c2", "c1"}})
	}, WithIdentity(staticIdentity("u1")))

	favs, err := c.Favorites(context.Background())
	require.NoError(t, err)
	assert.True(t, favs.Has("c1"))
	assert.Equal(t, []string{"c1", "c2"}, favs.IDs())
}

func TestCategorizedIngredientsKeepsCanonicalOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ingredients":{
			"Mixers":{"Soda":[{"id":"tonic","name":"Tonic"}]},
			"Spirits":{"Gin":[{"id":"gin","name":"Gin"}]}}}`))
	})

	tree, err := c.CategorizedIngredients(context.Background())
	require.NoError(t, err)
	require.Len(t, tree.Categories, 2)
	assert.Equal(t, "Spirits", tree.Categories[0].Name)
	assert.Equal(t, "Mixers", tree.Categories[1].Name)
}

func TestAddRemoveActions(t *testing.T) {
	assert.Equal(t, ActionLike, AddAction(model.LikeLiked))
	assert.Equal(t, ActionRemoveDislike, RemoveAction(model.LikeDisliked))
	assert.Equal(t, RateAction(""), AddAction(model.LikeNone))
}
