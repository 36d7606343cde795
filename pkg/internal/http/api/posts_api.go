package api

import (
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/syncer"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

func feedParams(c *fiber.Ctx, client *syncer.Client) (syncer.FeedParams, error) {
	params := syncer.FeedParams{
		Page:   c.QueryInt("page", 1),
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
	}

	if category := c.QueryInt("category", 0); category > 0 {
		params.CategoryID = lo.ToPtr(uint(category))
	}
	if len(c.Query("featured")) > 0 {
		params.Featured = lo.ToPtr(c.QueryBool("featured"))
	}
	if len(c.Query("author")) > 0 {
		author, err := resolveProfile(c, client, c.Query("author"))
		if err != nil {
			return params, err
		}
		params.AuthorID = &author.ID
	}

	switch c.Query("scope") {
	case "mine":
		if err := exts.EnsureAuthenticated(c); err != nil {
			return params, err
		}
		params.Scope = services.PostScopeAuthor
	case "drafts":
		if err := exts.EnsureAuthenticated(c); err != nil {
			return params, err
		}
		params.Scope = services.PostScopeDrafts
	}
	return params, nil
}

func listPosts(c *fiber.Ctx) error {
	client := exts.GetClient(c)
	params, err := feedParams(c, client)
	if err != nil {
		return err
	}
	if err := client.Feed.Load(c.UserContext(), params); err != nil {
		return err
	}
	return c.JSON(client.Store.Posts.State())
}

func listFeaturedPosts(c *fiber.Ctx) error {
	client := exts.GetClient(c)
	if err := client.Feed.LoadFeatured(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(client.Store.Posts.State().Featured)
}

func getPost(c *fiber.Ctx) error {
	client := exts.GetClient(c)
	if err := client.Detail.Load(c.UserContext(), c.Params("slug")); err != nil {
		return err
	}
	return c.JSON(client.Store.Posts.State().CurrentPost)
}

func createPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data services.PostInput
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	post, err := exts.GetClient(c).Feed.Create(c.UserContext(), data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func updatePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := exts.ParamID(c, "postId")
	if err != nil {
		return err
	}

	var data services.PostInput
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	post, err := exts.GetClient(c).Feed.Update(c.UserContext(), id, data)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func deletePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := exts.ParamID(c, "postId")
	if err != nil {
		return err
	}

	if err := exts.GetClient(c).Feed.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

func toggleLike(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := exts.ParamID(c, "postId")
	if err != nil {
		return err
	}

	state, err := exts.GetClient(c).Likes.Toggle(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func toggleBookmark(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := exts.ParamID(c, "postId")
	if err != nil {
		return err
	}

	bookmarked, err := exts.GetClient(c).Bookmarks.Toggle(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"bookmarked": bookmarked,
	})
}

func listBookmarks(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	client := exts.GetClient(c)
	if err := client.Bookmarks.Load(c.UserContext(), c.QueryInt("page", 1)); err != nil {
		return err
	}
	return c.JSON(client.Store.Bookmarks.State())
}
