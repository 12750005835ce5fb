package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/dotworkers/api/internal/auth"
	"github.com/dotworkers/api/pkg/response"
	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware authenticates Brain's calls. Brain normally presents an
// Entra-issued bearer token; flows that can't get one send the shared
// secret in X-Worker-Key instead.
type AuthMiddleware struct {
	verifier     auth.TokenVerifier
	sharedSecret string
}

// NewAuthMiddleware creates auth middleware with JWKS verification and an
// optional shared-secret fallback.
func NewAuthMiddleware(verifier auth.TokenVerifier, sharedSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:     verifier,
		sharedSecret: sharedSecret,
	}
}

// NewSharedSecretMiddleware creates auth middleware using only the shared
// secret (for testing/dev).
func NewSharedSecretMiddleware(sharedSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		sharedSecret: sharedSecret,
	}
}

// Authenticate validates the caller before any worker runs.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.sharedSecret != "" {
			workerKey := c.Get("X-Worker-Key")
			if workerKey != "" {
				if subtle.ConstantTimeCompare([]byte(workerKey), []byte(m.sharedSecret)) == 1 {
					c.Locals("caller", "brain")
					return c.Next()
				}
				return response.Unauthorized(c, "Invalid worker key")
			}
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return response.Unauthorized(c, "Invalid authorization header format")
		}

		if m.verifier == nil {
			return response.Unauthorized(c, "Authentication not configured")
		}

		claims, err := m.verifier.Validate(parts[1])
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		c.Locals("caller", claims.AppID)
		c.Locals("claims", claims)
		return c.Next()
	}
}

// GetCaller extracts the authenticated caller id from context.
func GetCaller(c *fiber.Ctx) string {
	if caller, ok := c.Locals("caller").(string); ok {
		return caller
	}
	return ""
}
