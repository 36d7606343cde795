package admin

import (
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

// MapControllers mounts the admin routes. The base url must sit below the api
// group so the session middleware has already run.
func MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL, func(c *fiber.Ctx) error {
		if err := exts.EnsureAdmin(c); err != nil {
			return err
		}
		return c.Next()
	}).Name("Admin API")
	{
		admin.Get("/posts", listAllPosts)
		admin.Put("/posts/:postId/featured", setPostFeatured)
		admin.Delete("/posts/:postId", deleteAnyPost)

		admin.Get("/users", listUsers)
		admin.Put("/users/:userId/role", setUserRole)

		admin.Post("/categories", createCategory)
		admin.Put("/categories/:categoryId", updateCategory)
		admin.Delete("/categories/:categoryId", deleteCategory)
	}
}
