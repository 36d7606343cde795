package api

import (
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/sessions"
	"github.com/gofiber/fiber/v2"
)

func MapControllers(app *fiber.App, baseURL string, registry *sessions.Registry) {
	api := app.Group(baseURL, exts.SessionMiddleware(registry)).Name("API")
	{
		auth := api.Group("/auth").Name("Auth API")
		{
			auth.Post("/sign-up", signUp)
			auth.Post("/sign-in", signIn)
			auth.Post("/sign-out", signOut)
			auth.Get("/session", getSession)
			auth.Post("/password/reset-request", requestPasswordReset)
			auth.Post("/password/reset", resetPassword)
			auth.Put("/password", updatePassword)
		}

		posts := api.Group("/posts").Name("Posts API")
		{
			posts.Get("/", listPosts)
			posts.Get("/featured", listFeaturedPosts)
			posts.Get("/:slug", getPost)
			posts.Post("/", createPost)
			posts.Put("/:postId", updatePost)
			posts.Delete("/:postId", deletePost)
			posts.Post("/:postId/like", toggleLike)
			posts.Post("/:postId/bookmark", toggleBookmark)

			posts.Get("/:postId/comments", listComments)
			posts.Post("/:postId/comments", createComment)
		}

		comments := api.Group("/comments").Name("Comments API")
		{
			comments.Put("/:commentId", updateComment)
			comments.Delete("/:commentId", deleteComment)
		}

		api.Get("/bookmarks", listBookmarks)

		notifications := api.Group("/notifications").Name("Notifications API")
		{
			notifications.Get("/", listNotifications)
			notifications.Put("/read", markAllNotificationsRead)
			notifications.Put("/:notificationId/read", markNotificationRead)
			notifications.Delete("/:notificationId", deleteNotification)
		}

		api.Get("/categories", listCategories)
		api.Get("/tags", listTags)

		users := api.Group("/users").Name("Users API")
		{
			users.Put("/me", updateMe)
			users.Post("/me/avatar", uploadAvatar)
			users.Get("/:name", getUser)
			users.Post("/:name/follow", toggleFollow)
			users.Get("/:name/followers", listFollowers)
			users.Get("/:name/following", listFollowing)
		}

		api.Post("/uploads/cover", uploadCover)

		api.Get("/theme", getTheme)
		api.Put("/theme", setTheme)
		api.Get("/toasts", drainToasts)
	}
}

func getTheme(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"mode": exts.GetClient(c).Store.Theme.Mode(),
	})
}

func setTheme(c *fiber.Ctx) error {
	var data struct {
		Mode string `json:"mode" validate:"required,oneof=light dark system"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	client := exts.GetClient(c)
	if err := client.SetTheme(data.Mode); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"mode": client.Store.Theme.Mode(),
	})
}

func drainToasts(c *fiber.Ctx) error {
	return c.JSON(exts.GetClient(c).Toasts.Drain())
}
