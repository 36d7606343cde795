package admin

import (
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func createCategory(c *fiber.Ctx) error {
	var data services.CategoryInput
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	category, err := exts.GetClient(c).Taxonomy.CreateCategory(c.UserContext(), data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func updateCategory(c *fiber.Ctx) error {
	id, err := exts.ParamID(c, "categoryId")
	if err != nil {
		return err
	}

	var data services.CategoryInput
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	category, err := exts.GetClient(c).Taxonomy.UpdateCategory(c.UserContext(), id, data)
	if err != nil {
		return err
	}
	return c.JSON(category)
}

func deleteCategory(c *fiber.Ctx) error {
	id, err := exts.ParamID(c, "categoryId")
	if err != nil {
		return err
	}

	if err := exts.GetClient(c).Taxonomy.DeleteCategory(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}
