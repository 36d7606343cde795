package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// LikeHook toggles likes optimistically.
//
// A toggle flips the flag and moves the counter by one at once, then asks the
// backend. A failure restores both values. Either way the authoritative state
// is fetched again after the reconcile delay, which heals overlapping toggles.
type LikeHook struct {
	c *Client

	mu     sync.Mutex
	timers map[uint]*time.Timer
	closed bool
}

type LikeState struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

func (v *LikeHook) Toggle(ctx context.Context, post uint) (LikeState, error) {
	profile, err := v.c.requireUser()
	if err != nil {
		return LikeState{}, err
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	posts := v.c.Store.Posts
	liked, count, held := posts.LikeState(post)
	if !held {
		status, err := v.c.remote.GetLikeStatus(ctx, post, profile.ID)
		if err != nil {
			return LikeState{}, v.c.notify("toggle like", err)
		}
		liked, count = status.Liked, status.Count
	}

	next := LikeState{Liked: !liked, Count: count + 1}
	if liked {
		next.Count = count - 1
	}
	posts.PatchLike(post, next.Liked, next.Count)

	if next.Liked {
		err = v.c.remote.LikePost(ctx, post, profile.ID)
	} else {
		err = v.c.remote.UnlikePost(ctx, post, profile.ID)
	}
	if err != nil {
		posts.PatchLike(post, liked, count)
		v.schedule(post, profile.ID)
		return LikeState{Liked: liked, Count: count}, v.c.notify("toggle like", err)
	}

	v.schedule(post, profile.ID)
	return next, nil
}

// schedule restarts the reconcile timer of the post.
func (v *LikeHook) schedule(post, user uint) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	if timer, ok := v.timers[post]; ok {
		timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(v.c.config.LikeReconcileDelay, func() {
		v.mu.Lock()
		current, ok := v.timers[post]
		if ok && current == timer {
			delete(v.timers, post)
		}
		stale := v.closed || !ok || current != timer
		v.mu.Unlock()
		if !stale {
			v.reconcile(post, user)
		}
	})
	v.timers[post] = timer
}

func (v *LikeHook) reconcile(post, user uint) {
	status, err := v.c.remote.GetLikeStatus(v.c.ctx, post, user)
	if err != nil {
		log.Debug().Err(err).Uint("post", post).Msg("Unable to reconcile like status, skipping...")
		return
	}

	// The account may have changed while the timer was pending.
	if id := v.c.Store.Auth.UserID(); id == nil || *id != user {
		return
	}
	v.c.Store.Posts.PatchLike(post, status.Liked, status.Count)
}

// Pending reports how many reconcile timers are armed.
func (v *LikeHook) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.timers)
}

// Close stops every pending reconcile timer.
func (v *LikeHook) Close() {
	v.Reset()
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}

// Reset drops pending reconcile timers but keeps the hook usable.
func (v *LikeHook) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for post, timer := range v.timers {
		timer.Stop()
		delete(v.timers, post)
	}
}
