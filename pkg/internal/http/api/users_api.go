package api

import (
	"mime/multipart"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/syncer"
	"github.com/gofiber/fiber/v2"
)

// resolveProfile prefers the profile the session already knows by username.
func resolveProfile(c *fiber.Ctx, client *syncer.Client, username string) (models.Profile, error) {
	if profile, ok := client.Store.Users.Lookup(username); ok {
		return profile, nil
	}
	return client.Profiles.Load(c.UserContext(), username)
}

func getUser(c *fiber.Ctx) error {
	client := exts.GetClient(c)
	profile, err := client.Profiles.Load(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	if err := client.Social.Load(c.UserContext(), profile.ID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"profile": profile,
		"social":  client.Store.Social.State(),
	})
}

func updateMe(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data services.ProfileInput
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := exts.GetClient(c).Profiles.Update(c.UserContext(), data)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func openFormFile(c *fiber.Ctx) (*multipart.FileHeader, multipart.File, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return header, file, nil
}

func uploadAvatar(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	header, file, err := openFormFile(c)
	if err != nil {
		return err
	}
	defer file.Close()

	profile, err := exts.GetClient(c).Profiles.UploadAvatar(
		c.UserContext(),
		header.Filename,
		header.Header.Get(fiber.HeaderContentType),
		file,
	)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func uploadCover(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	header, file, err := openFormFile(c)
	if err != nil {
		return err
	}
	defer file.Close()

	url, err := exts.GetClient(c).Profiles.UploadCover(
		c.UserContext(),
		header.Filename,
		header.Header.Get(fiber.HeaderContentType),
		file,
	)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"url": url,
	})
}

func toggleFollow(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	client := exts.GetClient(c)
	target, err := resolveProfile(c, client, c.Params("name"))
	if err != nil {
		return err
	}
	following, err := client.Social.Toggle(c.UserContext(), target.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"following": following,
		"social":    client.Store.Social.State(),
	})
}

func listFollowers(c *fiber.Ctx) error {
	client := exts.GetClient(c)
	target, err := resolveProfile(c, client, c.Params("name"))
	if err != nil {
		return err
	}
	items, err := client.Social.LoadFollowers(c.UserContext(), target.ID)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func listFollowing(c *fiber.Ctx) error {
	client := exts.GetClient(c)
	target, err := resolveProfile(c, client, c.Params("name"))
	if err != nil {
		return err
	}
	items, err := client.Social.LoadFollowing(c.UserContext(), target.ID)
	if err != nil {
		return err
	}
	return c.JSON(items)
}
