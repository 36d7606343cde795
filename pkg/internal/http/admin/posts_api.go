package admin

import (
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func listAllPosts(c *fiber.Ctx) error {
	client := exts.GetClient(c)
	if err := client.Admin.LoadPosts(c.UserContext(), c.QueryInt("page", 1), c.Query("search")); err != nil {
		return err
	}
	return c.JSON(client.Store.Posts.State())
}

func setPostFeatured(c *fiber.Ctx) error {
	id, err := exts.ParamID(c, "postId")
	if err != nil {
		return err
	}

	var data struct {
		Featured bool `json:"featured"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	post, err := exts.GetClient(c).Admin.SetFeatured(c.UserContext(), id, data.Featured)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func deleteAnyPost(c *fiber.Ctx) error {
	id, err := exts.ParamID(c, "postId")
	if err != nil {
		return err
	}

	if err := exts.GetClient(c).Admin.DeletePost(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}
