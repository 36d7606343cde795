package syncer

import (
	"context"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"git.solsynth.dev/hypernet/scribe/pkg/internal/services"
)

// SocialHook tracks the follow graph around the viewed profile.
type SocialHook struct {
	c       *Client
	tracker tracker
}

func (v *SocialHook) Status() Status {
	return v.tracker.Status()
}

func (v *SocialHook) Load(ctx context.Context, target uint) error {
	_, viewer := v.c.viewer()
	social := v.c.Store.Social

	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()
	ctx, gen := v.tracker.begin(ctx)
	social.SetLoading(true)

	stats, err := v.c.remote.GetFollowStats(ctx, target, viewer)
	if !v.tracker.finish(gen, err) {
		return nil
	}
	social.SetLoading(false)
	if err != nil {
		return v.c.fail(social.SetError, "load follow stats", err)
	}
	social.SetStats(target, stats)
	return nil
}

// Toggle follows or unfollows the target and reports the new state.
func (v *SocialHook) Toggle(ctx context.Context, target uint) (bool, error) {
	profile, err := v.c.requireUser()
	if err != nil {
		return false, err
	}
	if profile.ID == target {
		v.c.Toasts.Error("You cannot follow yourself.")
		return false, services.ErrInvalid
	}
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	following, known := v.c.Store.Social.IsFollowing(target)
	if !known {
		stats, err := v.c.remote.GetFollowStats(ctx, target, &profile.ID)
		if err != nil {
			return false, v.c.notify("toggle follow", err)
		}
		v.c.Store.Social.SetStats(target, stats)
		following = stats.IsFollowing
	}

	if following {
		err = v.c.remote.Unfollow(ctx, profile.ID, target)
	} else {
		err = v.c.remote.Follow(ctx, profile.ID, target)
	}
	if err != nil {
		return following, v.c.notify("toggle follow", err)
	}
	v.c.Store.Social.SetFollowing(target, !following)
	return !following, nil
}

func (v *SocialHook) LoadFollowers(ctx context.Context, target uint) ([]models.Profile, error) {
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	items, err := v.c.remote.ListFollowers(ctx, target)
	if err != nil {
		return items, v.c.notify("load followers", err)
	}
	v.c.Store.Social.SetFollowerList(target, items)
	return items, nil
}

func (v *SocialHook) LoadFollowing(ctx context.Context, target uint) ([]models.Profile, error) {
	ctx, cancel := v.c.lifetime(ctx)
	defer cancel()

	items, err := v.c.remote.ListFollowing(ctx, target)
	if err != nil {
		return items, v.c.notify("load following", err)
	}
	v.c.Store.Social.SetFollowingList(target, items)
	return items, nil
}
