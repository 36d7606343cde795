package admin

import (
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func listUsers(c *fiber.Ctx) error {
	client := exts.GetClient(c)
	if err := client.Admin.LoadUsers(c.UserContext(), c.QueryInt("page", 1), c.Query("search")); err != nil {
		return err
	}
	return c.JSON(client.Store.Users.State())
}

func setUserRole(c *fiber.Ctx) error {
	id, err := exts.ParamID(c, "userId")
	if err != nil {
		return err
	}

	var data struct {
		Role string `json:"role" validate:"required,oneof=user admin"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := exts.GetClient(c).Admin.SetRole(c.UserContext(), id, data.Role)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
