package exts

import (
	"strings"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/sessions"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/syncer"
	"github.com/gofiber/fiber/v2"
)

const SessionHeader = "X-Session-Id"

// SessionMiddleware attaches the session client and binds the bearer token to it.
// A request without a token is served signed out.
func SessionMiddleware(registry *sessions.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, client := registry.Obtain(c.UserContext(), c.Get(SessionHeader))
		c.Set(SessionHeader, id)
		c.Locals("session", id)
		c.Locals("client", client)

		if token := bearerToken(c.Get(fiber.HeaderAuthorization)); len(token) > 0 {
			if _, err := client.Session.Restore(c.UserContext(), token); err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, err.Error())
			}
		} else {
			client.Session.Forget()
		}
		return c.Next()
	}
}

func bearerToken(header string) string {
	token, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func GetClient(c *fiber.Ctx) *syncer.Client {
	return c.Locals("client").(*syncer.Client)
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if GetClient(c).Store.Auth.UserID() == nil {
		return fiber.NewError(fiber.StatusUnauthorized, syncer.ErrUnauthenticated.Error())
	}
	return nil
}

func EnsureAdmin(c *fiber.Ctx) error {
	if err := EnsureAuthenticated(c); err != nil {
		return err
	}
	if !GetClient(c).Store.Auth.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, syncer.ErrForbidden.Error())
	}
	return nil
}
