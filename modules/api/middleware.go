package api

import (
	"strings"
	"time"

	"github.com/WaqasAhmed27/namak-halal/domain/user"
	"github.com/WaqasAhmed27/namak-halal/modules/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// IdentityContextKey is the key used to store the caller's identity in the Fiber context.
	IdentityContextKey = "identity"
	// SessionContextKey is the key used to store the guest session ID in the Fiber context.
	SessionContextKey = "cart_session"

	// SessionHeader carries the guest session ID for clients without cookies.
	SessionHeader = "X-Cart-Session"
	// SessionCookie carries the guest session ID for browsers.
	SessionCookie = "cart_session"
)

// IdentityMiddleware resolves an optional bearer token. Requests without an
// Authorization header continue anonymously. A malformed or rejected token
// is a 401.
func IdentityMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		id, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
		}

		c.Locals(IdentityContextKey, id)
		return c.Next()
	}
}

// GateMiddleware applies Classify to every request. Page requests are
// redirected; API requests get a JSON 401 or 403.
func GateMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := Classify(c.OriginalURL(), identityFrom(c))
		if d.Outcome == Pass {
			return c.Next()
		}

		if !isAPIPath(c.Path()) {
			return c.Redirect(d.Location, fiber.StatusFound)
		}
		if d.Outcome == NeedSignIn {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Sign in to continue",
			})
		}
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Admin access required",
		})
	}
}

// GuestSessionMiddleware makes sure every cart request carries a guest
// session ID. An unknown or malformed ID is replaced with a fresh one, which
// is echoed back in both the header and the cookie.
func GuestSessionMiddleware(ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Get(SessionHeader)
		if sessionID == "" {
			sessionID = c.Cookies(SessionCookie)
		}
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}

		c.Locals(SessionContextKey, sessionID)
		c.Set(SessionHeader, sessionID)
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    sessionID,
			Path:     "/",
			Expires:  time.Now().Add(ttl),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.Next()
	}
}

// identityFrom returns the caller's identity, or nil for anonymous requests.
func identityFrom(c *fiber.Ctx) *user.Identity {
	id, _ := c.Locals(IdentityContextKey).(*user.Identity)
	return id
}

func sessionFrom(c *fiber.Ctx) string {
	s, _ := c.Locals(SessionContextKey).(string)
	return s
}
