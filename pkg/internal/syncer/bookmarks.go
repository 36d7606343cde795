package syncer

import (
	"context"

	"github.com/rs/zerolog/log"
)

type BookmarksHook struct {
	c       *Client
	tracker tracker
}

func (v *BookmarksHook) Status() Status {
	return v.tracker.Status()
}

func (v *BookmarksHook) Load(ctx context.Context, page int) error {
	profile, err := v.c.requireUser()
	if err != nil {
		return err
	}
	bookmarks := v.c.Store.Bookmarks

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	ctx, gen := v.tracker.begin(ctx)
	bookmarks.SetLoading(true)

	out, err := v.c.remote.ListBookmarkedPosts(ctx, profile.ID, page, v.c.config.PageSize)
	if !v.tracker.finish(gen, err) {
		return nil
	}
	bookmarks.SetLoading(false)
	if err != nil {
		return v.c.fail(bookmarks.SetError, "load bookmarks", err)
	}
	bookmarks.SetPage(out.Items, out.Page, out.TotalPages, out.Total)
	return nil
}

// Toggle bookmarks or un-bookmarks the post and reports the new state.
func (v *BookmarksHook) Toggle(ctx context.Context, post uint) (bool, error) {
	profile, err := v.c.requireUser()
	if err != nil {
		return false, err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	held, ok := v.c.Store.Posts.Find(post)
	bookmarked := held.IsBookmarked
	if !ok {
		if bookmarked, err = v.c.remote.IsBookmarked(ctx, post, profile.ID); err != nil {
			return false, v.c.notify("toggle bookmark", err)
		}
	}

	if bookmarked {
		err = v.c.remote.RemoveBookmark(ctx, post, profile.ID)
	} else {
		err = v.c.remote.AddBookmark(ctx, post, profile.ID)
	}
	if err != nil {
		return bookmarked, v.c.notify("toggle bookmark", err)
	}

	v.c.Store.Posts.PatchBookmark(post, !bookmarked)
	if bookmarked {
		v.c.Store.Bookmarks.Remove(post)
		return false, nil
	}
	if !ok {
		if held, err = v.c.remote.GetPostByID(ctx, post, &profile.ID); err != nil {
			log.Debug().Err(err).Uint("post", post).Msg("Unable to fetch bookmarked post, skipping...")
			return true, nil
		}
	}
	if held.Published {
		held.IsBookmarked = true
		v.c.Store.Bookmarks.Insert(held)
	}
	return true, nil
}
