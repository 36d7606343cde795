package api

import (
	"git.solsynth.dev/hypernet/scribe/pkg/internal/auth"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func signUp(c *fiber.Ctx) error {
	var data auth.SignUpInput
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := exts.GetClient(c).Session.SignUp(c.UserContext(), data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

func signIn(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	session, err := exts.GetClient(c).Session.SignIn(c.UserContext(), data.Email, data.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"token":      session.Token,
		"expired_at": session.ExpiredAt,
		"profile":    session.Profile,
	})
}

func signOut(c *fiber.Ctx) error {
	if err := exts.GetClient(c).Session.SignOut(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

func getSession(c *fiber.Ctx) error {
	return c.JSON(exts.GetClient(c).Store.Auth.State())
}

func requestPasswordReset(c *fiber.Ctx) error {
	var data struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := exts.GetClient(c).Session.RequestPasswordReset(c.UserContext(), data.Email); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

func resetPassword(c *fiber.Ctx) error {
	var data struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := exts.GetClient(c).Session.ResetPassword(c.UserContext(), data.Token, data.Password); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

func updatePassword(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		Password string `json:"password" validate:"required,min=6"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := exts.GetClient(c).Session.UpdatePassword(c.UserContext(), data.Password); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}
