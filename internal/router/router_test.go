package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardvault/internal/auth"
	"cardvault/internal/model"
)

// stubTokenStore is a TokenStoreInterface with a fixed blacklist.
type stubTokenStore struct {
	blacklisted map[string]bool
}

func (s *stubTokenStore) StoreRefreshToken(context.Context, string, uuid.UUID, string, time.Duration) error {
	return nil
}

func (s *stubTokenStore) GetRefreshToken(context.Context, string) (uuid.UUID, string, error) {
	return uuid.Nil, "", nil
}

func (s *stubTokenStore) DeleteRefreshToken(context.Context, string) error {
	return nil
}

func (s *stubTokenStore) BlacklistAccessToken(_ context.Context, tokenID string, _ time.Duration) error {
	s.blacklisted[tokenID] = true
	return nil
}

func (s *stubTokenStore) IsAccessTokenBlacklisted(_ context.Context, tokenID string) (bool, error) {
	return s.blacklisted[tokenID], nil
}

func contextWithClaims(claims *auth.Claims) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("user", &jwt.Token{Claims: claims})
	return c
}

func TestRejectBlacklisted(t *testing.T) {
	store := &stubTokenStore{blacklisted: map[string]bool{"revoked-jti": true}}
	mw := RejectBlacklisted(store)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	t.Run("live token passes", func(t *testing.T) {
		c := contextWithClaims(&auth.Claims{
			UserID:           uuid.New().String(),
			Role:             model.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{ID: "live-jti"},
		})
		assert.NoError(t, mw(next)(c))
	})

	t.Run("revoked token rejected", func(t *testing.T) {
		c := contextWithClaims(&auth.Claims{
			UserID:           uuid.New().String(),
			Role:             model.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{ID: "revoked-jti"},
		})
		err := mw(next)(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("token without jti rejected", func(t *testing.T) {
		c := contextWithClaims(&auth.Claims{UserID: uuid.New().String(), Role: model.RoleUser})
		err := mw(next)(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(model.RoleAdmin)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	t.Run("admin passes", func(t *testing.T) {
		c := contextWithClaims(&auth.Claims{UserID: uuid.New().String(), Role: model.RoleAdmin})
		assert.NoError(t, mw(next)(c))
	})

	t.Run("user rejected", func(t *testing.T) {
		c := contextWithClaims(&auth.Claims{UserID: uuid.New().String(), Role: model.RoleUser})
		err := mw(next)(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})
}
