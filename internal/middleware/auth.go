package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCookie carries the token for browser page loads.
const SessionCookie = "session"

const (
	localIdentity = "identity"
	localClaims   = "claims"
)

type Claims struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() models.Identity {
	return models.Identity{UID: c.UID, Email: c.Email, Provider: c.Provider}
}

// Revocations reports whether a token id was signed out.
type Revocations interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

var (
	errMissingToken = errors.New("missing token")
	errRevoked      = errors.New("token revoked")
)

// JWT issues and checks HS256 session tokens.
type JWT struct {
	secret  []byte
	ttl     time.Duration
	revoked Revocations
	log     *zap.Logger
}

func NewJWT(secret string, ttl time.Duration, revoked Revocations, log *zap.Logger) *JWT {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &JWT{secret: []byte(secret), ttl: ttl, revoked: revoked, log: log}
}

func (j *JWT) TTL() time.Duration {
	return j.ttl
}

func (j *JWT) Issue(id models.Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:      id.UID,
		Email:    id.Email,
		Provider: id.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.UID,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// Parse validates signature, expiry and revocation.
func (j *JWT) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errMissingToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UID == "" {
		return nil, errors.New("invalid token claims")
	}
	if j.revoked != nil && claims.ID != "" {
		revoked, err := j.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, errRevoked
		}
	}
	return claims, nil
}

// Protected rejects requests without a valid bearer token or session cookie
// and stores the identity for handlers.
func (j *JWT) Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearer(c)
		if tokenString == "" {
			tokenString = c.Cookies(SessionCookie)
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		claims, err := j.Parse(c.UserContext(), tokenString)
		if err != nil {
			j.log.Debug("rejected token", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(localClaims, claims)
		c.Locals(localIdentity, claims.Identity())
		return c.Next()
	}
}

// Gate sends browsers without a valid session cookie to loginPath.
func (j *JWT) Gate(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := j.Parse(c.UserContext(), c.Cookies(SessionCookie))
		if err != nil {
			return c.Redirect(loginPath, fiber.StatusSeeOther)
		}
		c.Locals(localClaims, claims)
		c.Locals(localIdentity, claims.Identity())
		return c.Next()
	}
}

func bearer(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// GetIdentity returns the authenticated identity, or the zero value.
func GetIdentity(c *fiber.Ctx) models.Identity {
	id, ok := c.Locals(localIdentity).(models.Identity)
	if !ok {
		return models.Identity{}
	}
	return id
}

// GetClaims returns the parsed token claims, or nil on public routes.
func GetClaims(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(localClaims).(*Claims)
	return claims
}
