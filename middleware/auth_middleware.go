package middleware

import (
	"errors"
	"log"
	"time"

	"github.com/anjiri1684/digital_tests/auth"
	"github.com/anjiri1684/digital_tests/models"
	"github.com/anjiri1684/digital_tests/sessions"
	"github.com/anjiri1684/digital_tests/utils"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SessionCookie = "access_token"
	identityKey   = "identity"
)

// Identity is the authenticated caller attached to the request by IsLoggedIn.
type Identity struct {
	UserID    uuid.UUID
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// CurrentIdentity returns the identity set by IsLoggedIn.
func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityKey).(Identity)
	return id, ok
}

// IsLoggedIn verifies the session cookie and rejects revoked sessions.
func IsLoggedIn(tokens *auth.Tokens, revocations sessions.RevocationStore) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    tokens.AccessKey(),
		SigningMethod: "HS256",
		TokenLookup:   "cookie:" + SessionCookie,
		ErrorHandler:  jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return utils.NewHTTPError(fiber.StatusUnauthorized, "Auth.middleware.invalid_or_expired_token")
			}
			identity, err := identityFromClaims(token.Claims)
			if err != nil {
				return utils.NewHTTPError(fiber.StatusUnauthorized, "Auth.middleware.invalid_or_expired_token")
			}
			revoked, err := revocations.IsRevoked(c.UserContext(), identity.TokenID)
			if err != nil {
				log.Printf("🔥 Failed to check session revocation: %v", err)
				return err
			}
			if revoked {
				return utils.NewHTTPError(fiber.StatusUnauthorized, "Auth.middleware.invalid_or_expired_token")
			}
			c.Locals(identityKey, identity)
			return c.Next()
		},
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if c.Cookies(SessionCookie) == "" {
		return utils.NewHTTPError(fiber.StatusUnauthorized, "Auth.middleware.not_logged_in")
	}
	return utils.NewHTTPError(fiber.StatusUnauthorized, "Auth.middleware.invalid_or_expired_token")
}

func identityFromClaims(claims jwt.Claims) (Identity, error) {
	mc, ok := claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("unexpected claims type")
	}
	rawID, _ := mc["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return Identity{}, err
	}
	role, _ := mc["role"].(string)
	jti, _ := mc["jti"].(string)
	identity := Identity{UserID: userID, Role: role, TokenID: jti}
	if exp, ok := mc["exp"].(float64); ok {
		identity.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return identity, nil
}

// IsActive only lets active accounts through. It must run after IsLoggedIn.
func IsActive(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return utils.NewHTTPError(fiber.StatusUnauthorized, "Auth.middleware.not_logged_in")
		}
		var user models.User
		err := db.WithContext(c.UserContext()).Select("id", "active").First(&user, "id = ?", identity.UserID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewHTTPError(fiber.StatusNotFound, "Auth.middleware.user_not_found")
		}
		if err != nil {
			return err
		}
		if !user.Active {
			return utils.NewHTTPError(fiber.StatusForbidden, "Auth.middleware.account_inactive")
		}
		return c.Next()
	}
}

// ClearSessionCookie drops any session cookie the client sent, so a fresh login replaces it.
func ClearSessionCookie() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Cookies(SessionCookie) != "" {
			ExpireSessionCookie(c)
		}
		return c.Next()
	}
}

// RequireLoggedOut rejects requests that still carry a live session.
func RequireLoggedOut(tokens *auth.Tokens, revocations sessions.RevocationStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(SessionCookie)
		if raw == "" {
			return c.Next()
		}
		claims, err := tokens.ParseSession(raw)
		if err != nil {
			return c.Next()
		}
		revoked, err := revocations.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return err
		}
		if !revoked {
			return utils.NewHTTPError(fiber.StatusUnauthorized, "Auth.middleware.already_logged_in")
		}
		return c.Next()
	}
}

func SetSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

func ExpireSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}
