package syncer

import (
	"context"
	"strings"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/realtime"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CommentsHook keeps the comments of one post in sync, including realtime changes.
type CommentsHook struct {
	c       *Client
	tracker tracker

	mu     sync.Mutex
	postID uint
	sub    *realtime.Subscription
	ctx    context.Context
	cancel context.CancelFunc
}

func (v *CommentsHook) Status() Status {
	return v.tracker.Status()
}

// Open scopes the hook to a post: the previous channel is closed,
// a new one is opened and the thread is fetched.
func (v *CommentsHook) Open(ctx context.Context, post uint) error {
	v.mu.Lock()
	if v.sub == nil || v.postID != post {
		v.closeLocked()
		v.postID = post
		v.ctx, v.cancel = context.WithCancel(v.c.ctx)
		v.c.Store.Comments.Set(post, nil)
		if v.c.realtime != nil {
			v.sub = v.c.realtime.
				Subscribe("comments", realtime.Filter{Column: "post_id", Value: post}).
				OnInsert(v.handleInsert(v.ctx, post)).
				OnUpdate(v.handleUpdate(v.ctx, post)).
				OnDelete(v.handleDelete(post)).
				Start()
		}
	}
	v.mu.Unlock()

	return v.Load(ctx, post)
}

func (v *CommentsHook) Load(ctx context.Context, post uint) error {
	comments := v.c.Store.Comments

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	ctx, gen := v.tracker.begin(ctx)
	comments.SetLoading(true)

	items, err := v.c.remote.ListComments(ctx, post)
	if !v.tracker.finish(gen, err) {
		return nil
	}
	comments.SetLoading(false)
	if err != nil {
		return v.c.fail(comments.SetError, "load comments", err)
	}
	comments.Set(post, items)
	return nil
}

func (v *CommentsHook) PostID() uint {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.postID
}

// Close releases the realtime channel, as when the thread is unmounted.
func (v *CommentsHook) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closeLocked()
	v.tracker.stop()
}

func (v *CommentsHook) closeLocked() {
	if v.sub != nil {
		v.sub.Close()
		v.sub = nil
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *CommentsHook) scoped(post uint) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sub != nil && v.postID == post
}

// handleInsert fetches the new row with its author, the change payload lacks joined data.
// A comment that is already held is ignored.
func (v *CommentsHook) handleInsert(ctx context.Context, post uint) realtime.Handler {
	return func(evt realtime.Event) {
		id := evt.ID()
		if id == 0 || v.c.Store.Comments.Has(id) {
			return
		}
		comment, err := v.c.remote.GetComment(ctx, id)
		if err != nil {
			log.Warn().Err(err).Uint("comment", id).Msg("Unable to fetch the inserted comment...")
			return
		}
		if !v.scoped(post) {
			return
		}
		v.c.Store.Comments.Insert(comment)
	}
}

func (v *CommentsHook) handleUpdate(ctx context.Context, post uint) realtime.Handler {
	return func(evt realtime.Event) {
		var comment models.Comment
		if evt.Truncated {
			fetched, err := v.c.remote.GetComment(ctx, evt.ID())
			if err != nil {
				log.Warn().Err(err).Uint("comment", evt.ID()).Msg("Unable to fetch the updated comment...")
				return
			}
			comment = fetched
		} else if err := evt.Decode(&comment); err != nil {
			log.Warn().Err(err).Msg("Unable to decode the updated comment...")
			return
		}
		if v.scoped(post) {
			v.c.Store.Comments.Merge(comment)
		}
	}
}

func (v *CommentsHook) handleDelete(post uint) realtime.Handler {
	return func(evt realtime.Event) {
		if !v.scoped(post) {
			return
		}
		v.c.Store.Comments.Remove(evt.ID())
	}
}

// Post shows the comment right away and confirms it with the backend.
// A failed call takes the provisional comment back out.
func (v *CommentsHook) Post(ctx context.Context, content string) (models.Comment, error) {
	profile, err := v.c.requireUser()
	if err != nil {
		return models.Comment{}, err
	}
	content = strings.TrimSpace(content)
	if len(content) == 0 {
		v.c.Toasts.Error("Comment cannot be empty.")
		return models.Comment{}, services.ErrInvalid
	}
	post := v.PostID()
	if post == 0 {
		return models.Comment{}, services.ErrInvalid
	}

	key := uuid.NewString()
	v.c.Store.Comments.AddProvisional(models.Comment{
		BaseModel: models.BaseModel{CreatedAt: time.Now()},
		PostID:    post,
		AuthorID:  profile.ID,
		Author:    profile,
		Content:   content,
		ClientKey: key,
	})

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	comment, err := v.c.remote.CreateComment(ctx, profile.ID, services.CommentInput{PostID: post, Content: content})
	if err != nil {
		v.c.Store.Comments.RemoveProvisional(key)
		return comment, v.c.notify("post comment", err)
	}
	v.c.Store.Comments.ReplaceProvisional(key, comment)
	return comment, nil
}

func (v *CommentsHook) Edit(ctx context.Context, id uint, content string) (models.Comment, error) {
	profile, err := v.c.requireUser()
	if err != nil {
		return models.Comment{}, err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	comment, err := v.c.remote.UpdateComment(ctx, id, profile.ID, content)
	if err != nil {
		return comment, v.c.notify("edit comment", err)
	}
	v.c.Store.Comments.Merge(comment)
	return comment, nil
}

func (v *CommentsHook) Delete(ctx context.Context, id uint) error {
	profile, err := v.c.requireUser()
	if err != nil {
		return err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	if err := v.c.remote.DeleteComment(ctx, id, profile); err != nil {
		return v.c.notify("delete comment", err)
	}
	v.c.Store.Comments.Remove(id)
	return nil
}
