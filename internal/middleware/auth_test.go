package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

var ada = models.Identity{UID: "ada", Email: "ada@example.com", Provider: models.ProviderPassword}

func TestIssueAndParse(t *testing.T) {
	j := NewJWT("secret", time.Hour, nil, nil)

	tok, err := j.Issue(ada)
	require.NoError(t, err)

	claims, err := j.Parse(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, ada, claims.Identity())
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseRejects(t *testing.T) {
	ctx := context.Background()
	j := NewJWT("secret", time.Hour, nil, nil)

	expired := NewJWT("secret", time.Hour, nil, nil)
	expired.ttl = -time.Minute
	tok, err := expired.Issue(ada)
	require.NoError(t, err)
	_, err = j.Parse(ctx, tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other, err := NewJWT("other-secret", time.Hour, nil, nil).Issue(ada)
	require.NoError(t, err)
	_, err = j.Parse(ctx, other)
	assert.Error(t, err)

	_, err = j.Parse(ctx, "not.a.jwt")
	assert.Error(t, err)
	_, err = j.Parse(ctx, "")
	assert.ErrorIs(t, err, errMissingToken)
}

func TestParseRevoked(t *testing.T) {
	revoked := revokedSet{}
	j := NewJWT("secret", time.Hour, revoked, nil)
	tok, err := j.Issue(ada)
	require.NoError(t, err)

	claims, err := j.Parse(context.Background(), tok)
	require.NoError(t, err)

	revoked[claims.ID] = true
	_, err = j.Parse(context.Background(), tok)
	assert.ErrorIs(t, err, errRevoked)
}

func newProtectedApp(j *JWT) *fiber.App {
	app := fiber.New()
	app.Get("/api/me", j.Protected(), func(c *fiber.Ctx) error {
		return c.SendString(GetIdentity(c).UID)
	})
	app.Get("/app/*", j.Gate("/login"), func(c *fiber.Ctx) error {
		return c.SendString("page for " + GetIdentity(c).UID)
	})
	return app
}

func TestProtected(t *testing.T) {
	j := NewJWT("secret", time.Hour, nil, nil)
	app := newProtectedApp(j)
	tok, err := j.Issue(ada)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ada", string(body))
}

func TestGateRedirectsWithoutSession(t *testing.T) {
	j := NewJWT("secret", time.Hour, nil, nil)
	app := newProtectedApp(j)

	resp, err := app.Test(httptest.NewRequest("GET", "/app/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	tok, err := j.Issue(ada)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/app/dashboard", nil)
	req.Header.Set("Cookie", SessionCookie+"="+tok)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "page for ada", string(body))
}
