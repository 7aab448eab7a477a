package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsapi/auth"
	"partsapi/models"
	"partsapi/storage"
)

func setup(t *testing.T) (*auth.TokenService, *storage.MemoryStore, http.HandlerFunc) {
	tokens := auth.NewTokenService([]byte("secret"), time.Hour)
	store := storage.NewMemoryStore()
	ok := func(w http.ResponseWriter, r *http.Request) {
		email, _ := EmailFrom(r.Context())
		w.Header().Set("X-Email", email)
		w.WriteHeader(http.StatusOK)
	}
	return tokens, store, ok
}

func serve(h http.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestAuthenticated(t *testing.T) {
	tokens, _, ok := setup(t)
	h := Protect(ok, Authenticated(tokens))

	t.Run("Missing credential", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	})

	t.Run("Not a bearer header", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(h, "Basic Zm9vOmJhcg==").Code)
	})

	t.Run("Invalid token", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(h, "Bearer nope").Code)
	})

	t.Run("Valid token attaches email", func(t *testing.T) {
		token, err := tokens.Issue("a@x.com")
		require.NoError(t, err)

		w := serve(h, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "a@x.com", w.Header().Get("X-Email"))
	})
}

func TestAdmin(t *testing.T) {
	tokens, store, ok := setup(t)
	ctx := context.Background()
	_, _ = store.UpsertUser(ctx, models.User{Email: "admin@x.com", Role: models.RoleAdmin})
	_, _ = store.UpsertUser(ctx, models.User{Email: "cust@x.com", Role: models.RoleCustomer})
	h := Protect(ok, Authenticated(tokens), Admin(store))

	bearer := func(email string) string {
		token, err := tokens.Issue(email)
		require.NoError(t, err)
		return "Bearer " + token
	}

	t.Run("Admin passes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(h, bearer("admin@x.com")).Code)
	})

	t.Run("Customer is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(h, bearer("cust@x.com")).Code)
	})

	t.Run("Unknown user is forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(h, bearer("ghost@x.com")).Code)
	})

	t.Run("Missing credential stops at the first guard", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	})

	t.Run("Admin without Authenticated", func(t *testing.T) {
		alone := Protect(ok, Admin(store))
		assert.Equal(t, http.StatusUnauthorized, serve(alone, bearer("admin@x.com")).Code)
	})

	t.Run("Store failure", func(t *testing.T) {
		broken := Protect(ok, Authenticated(tokens), Admin(failingFinder{}))
		assert.Equal(t, http.StatusInternalServerError, serve(broken, bearer("admin@x.com")).Code)
	})
}

type failingFinder struct{}

func (failingFinder) FindUser(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection reset")
}
