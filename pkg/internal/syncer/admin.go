package syncer

import (
	"context"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
)

// AdminHook drives the administration area. Every action needs the admin role.
type AdminHook struct {
	c     *Client
	posts tracker
	users tracker
}

// LoadPosts lists every post, drafts included, into the posts slice.
func (v *AdminHook) LoadPosts(ctx context.Context, page int, search string) error {
	if _, err := v.c.requireAdmin(); err != nil {
		return err
	}
	posts := v.c.Store.Posts

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	ctx, gen := v.posts.begin(ctx)
	posts.SetLoading(true)

	out, err := v.c.remote.ListPosts(ctx, services.PostFilter{
		Page:   page,
		Limit:  v.c.config.PageSize,
		Search: search,
		Scope:  services.PostScopeAdmin,
	})
	if !v.posts.finish(gen, err) {
		return nil
	}
	posts.SetLoading(false)
	if err != nil {
		return v.c.fail(posts.SetError, "load all posts", err)
	}
	posts.SetPage(out.Items, out.Page, out.TotalPages, out.Total)
	return nil
}

func (v *AdminHook) SetFeatured(ctx context.Context, id uint, featured bool) (models.Post, error) {
	if _, err := v.c.requireAdmin(); err != nil {
		return models.Post{}, err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	post, err := v.c.remote.SetPostFeatured(ctx, id, featured)
	if err != nil {
		return post, v.c.notify("feature post", err)
	}
	v.c.Store.Posts.Update(post)
	return post, nil
}

func (v *AdminHook) DeletePost(ctx context.Context, id uint) error {
	if _, err := v.c.requireAdmin(); err != nil {
		return err
	}
	return v.c.Feed.Delete(ctx, id)
}

func (v *AdminHook) LoadUsers(ctx context.Context, page int, search string) error {
	if _, err := v.c.requireAdmin(); err != nil {
		return err
	}
	users := v.c.Store.Users

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	ctx, gen := v.users.begin(ctx)
	users.SetLoading(true)

	out, err := v.c.remote.ListProfiles(ctx, page, v.c.config.PageSize, search)
	if !v.users.finish(gen, err) {
		return nil
	}
	users.SetLoading(false)
	if err != nil {
		return v.c.fail(users.SetError, "load users", err)
	}
	users.SetAdminPage(out.Items, out.Page, out.TotalPages, out.Total)
	return nil
}

func (v *AdminHook) SetRole(ctx context.Context, id uint, role string) (models.Profile, error) {
	if _, err := v.c.requireAdmin(); err != nil {
		return models.Profile{}, err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	profile, err := v.c.remote.SetProfileRole(ctx, id, role)
	if err != nil {
		return profile, v.c.notify("set role", err)
	}
	v.c.Store.Users.Upsert(profile)
	if current := v.c.Store.Auth.UserID(); current != nil && *current == profile.ID {
		v.c.Store.Auth.SetProfile(profile)
	}
	return profile, nil
}
