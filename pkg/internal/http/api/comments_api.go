package api

import (
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content" validate:"required,max=4096"`
}

// listComments also opens the realtime channel of the thread.
func listComments(c *fiber.Ctx) error {
	id, err := exts.ParamID(c, "postId")
	if err != nil {
		return err
	}

	client := exts.GetClient(c)
	if err := client.Comments.Open(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(client.Store.Comments.State())
}

func createComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := exts.ParamID(c, "postId")
	if err != nil {
		return err
	}

	var data commentRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	client := exts.GetClient(c)
	if client.Comments.PostID() != id {
		if err := client.Comments.Open(c.UserContext(), id); err != nil {
			return err
		}
	}
	comment, err := client.Comments.Post(c.UserContext(), data.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func updateComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := exts.ParamID(c, "commentId")
	if err != nil {
		return err
	}

	var data commentRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	comment, err := exts.GetClient(c).Comments.Edit(c.UserContext(), id, data.Content)
	if err != nil {
		return err
	}
	return c.JSON(comment)
}

func deleteComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := exts.ParamID(c, "commentId")
	if err != nil {
		return err
	}

	if err := exts.GetClient(c).Comments.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}
