package api

import (
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func listCategories(c *fiber.Ctx) error {
	client := exts.GetClient(c)
	if err := client.Taxonomy.Load(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(client.Store.Categories.State())
}

func listTags(c *fiber.Ctx) error {
	client := exts.GetClient(c)
	if err := client.Taxonomy.Load(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(client.Store.Tags.State())
}
