package syncer

import (
	"context"
	"sync"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
)

type FeedParams struct {
	Page       int
	Search     string
	CategoryID *uint
	Tag        string
	AuthorID   *uint
	Featured   *bool
	Scope      services.PostScope
}

// PostsFeed keeps the paginated feed in the posts slice.
type PostsFeed struct {
	c       *Client
	tracker tracker

	mu     sync.Mutex
	params FeedParams
}

func (v *PostsFeed) Status() Status {
	return v.tracker.Status()
}

func (v *PostsFeed) Params() FeedParams {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.params
}

// Load fetches the page described by params. A newer Load makes the older one stale.
func (v *PostsFeed) Load(ctx context.Context, params FeedParams) error {
	_, viewer := v.c.viewer()
	posts := v.c.Store.Posts

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	ctx, gen := v.tracker.begin(ctx)
	v.mu.Lock()
	v.params = params
	v.mu.Unlock()
	posts.SetLoading(true)

	page, err := v.c.remote.ListPosts(ctx, services.PostFilter{
		Page:       params.Page,
		Limit:      v.c.config.PageSize,
		Search:     params.Search,
		CategoryID: params.CategoryID,
		Tag:        params.Tag,
		AuthorID:   params.AuthorID,
		Featured:   params.Featured,
		Scope:      params.Scope,
		Viewer:     viewer,
	})
	if !v.tracker.finish(gen, err) {
		return nil
	}
	posts.SetLoading(false)
	if err != nil {
		return v.c.fail(posts.SetError, "load posts", err)
	}
	posts.SetPage(page.Items, page.Page, page.TotalPages, page.Total)
	return nil
}

func (v *PostsFeed) LoadFeatured(ctx context.Context) error {
	_, viewer := v.c.viewer()
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	items, err := v.c.remote.ListFeaturedPosts(ctx, v.c.config.FeaturedCount, viewer)
	if err != nil {
		return v.c.notify("load featured posts", err)
	}
	v.c.Store.Posts.SetFeatured(items)
	return nil
}

// Create publishes a new post. Published posts show up at the head of a public feed.
func (v *PostsFeed) Create(ctx context.Context, in services.PostInput) (models.Post, error) {
	profile, err := v.c.requireUser()
	if err != nil {
		return models.Post{}, err
	}
	if err := v.c.check(in); err != nil {
		return models.Post{}, err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	post, err := v.c.remote.CreatePost(ctx, profile.ID, in)
	if err != nil {
		return post, v.c.notify("create post", err)
	}
	if post.Published && v.showsInFeed(post) {
		v.c.Store.Posts.Insert(post)
	}
	v.c.Toasts.Success("Post created.")
	return post, nil
}

func (v *PostsFeed) showsInFeed(post models.Post) bool {
	params := v.Params()
	return params.Page <= 1 &&
		len(params.Search) == 0 &&
		len(params.Tag) == 0 &&
		params.CategoryID == nil &&
		params.Featured == nil &&
		(params.AuthorID == nil || *params.AuthorID == post.AuthorID)
}

func (v *PostsFeed) Update(ctx context.Context, id uint, in services.PostInput) (models.Post, error) {
	profile, err := v.c.requireUser()
	if err != nil {
		return models.Post{}, err
	}
	if err := v.c.check(in); err != nil {
		return models.Post{}, err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	post, err := v.c.remote.UpdatePost(ctx, id, profile, in)
	if err != nil {
		return post, v.c.notify("update post", err)
	}
	v.c.Store.Posts.Update(post)
	v.c.Toasts.Success("Post updated.")
	return post, nil
}

// Delete removes the post from every slice that holds it.
func (v *PostsFeed) Delete(ctx context.Context, id uint) error {
	profile, err := v.c.requireUser()
	if err != nil {
		return err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	if err := v.c.remote.DeletePost(ctx, id, profile); err != nil {
		return v.c.notify("delete post", err)
	}
	v.c.Store.Posts.Remove(id)
	v.c.Store.Bookmarks.Remove(id)
	v.c.Toasts.Success("Post deleted.")
	return nil
}

// PostDetail keeps the post opened by slug as the current post.
type PostDetail struct {
	c       *Client
	tracker tracker
}

func (v *PostDetail) Status() Status {
	return v.tracker.Status()
}

func (v *PostDetail) Load(ctx context.Context, slug string) error {
	profile, _ := v.c.viewer()
	posts := v.c.Store.Posts

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	ctx, gen := v.tracker.begin(ctx)
	posts.SetLoading(true)

	post, err := v.c.remote.GetPostBySlug(ctx, slug, profile)
	if !v.tracker.finish(gen, err) {
		return nil
	}
	posts.SetLoading(false)
	if err != nil {
		posts.SetCurrent(nil)
		return v.c.fail(posts.SetError, "load post", err)
	}
	posts.SetCurrent(&post)
	return nil
}

// Clear forgets the current post, as when the detail view goes away.
// A fetch still in flight is dropped along with its loading flag.
func (v *PostDetail) Clear() {
	v.tracker.stop()
	v.c.Store.Posts.SetLoading(false)
	v.c.Store.Posts.SetCurrent(nil)
}
