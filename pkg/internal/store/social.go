package store

import (
	"slices"
	"sync"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
)

type SocialState struct {
	TargetID      uint             `json:"target_id"`
	Followers     int64            `json:"followers"`
	Following     int64            `json:"following"`
	IsFollowing   bool             `json:"is_following"`
	FollowerList  []models.Profile `json:"follower_list"`
	FollowingList []models.Profile `json:"following_list"`
	Loading       bool             `json:"loading"`
	Error         string           `json:"error,omitempty"`
}

// SocialSlice tracks the follow graph around the profile being viewed.
type SocialSlice struct {
	mu    sync.RWMutex
	state SocialState
}

func (v *SocialSlice) State() SocialState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := v.state
	out.FollowerList = slices.Clone(v.state.FollowerList)
	out.FollowingList = slices.Clone(v.state.FollowingList)
	return out
}

func (v *SocialSlice) SetStats(target uint, stats models.FollowStats) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.TargetID != target {
		v.state.FollowerList = nil
		v.state.FollowingList = nil
	}
	v.state.TargetID = target
	v.state.Followers = stats.Followers
	v.state.Following = stats.Following
	v.state.IsFollowing = stats.IsFollowing
	v.state.Error = ""
}

// SetFollowing flips the viewer's follow flag and adjusts the follower count by one.
func (v *SocialSlice) SetFollowing(target uint, following bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.TargetID != target || v.state.IsFollowing == following {
		return
	}
	v.state.IsFollowing = following
	if following {
		v.state.Followers++
	} else if v.state.Followers > 0 {
		v.state.Followers--
	}
}

func (v *SocialSlice) IsFollowing(target uint) (bool, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.IsFollowing, v.state.TargetID == target
}

func (v *SocialSlice) SetFollowerList(target uint, items []models.Profile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.TargetID != target {
		return
	}
	v.state.FollowerList = slices.Clone(items)
}

func (v *SocialSlice) SetFollowingList(target uint, items []models.Profile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state.TargetID != target {
		return
	}
	v.state.FollowingList = slices.Clone(items)
}

func (v *SocialSlice) SetLoading(loading bool) {
	v.mu.Lock()
	v.state.Loading = loading
	v.mu.Unlock()
}

func (v *SocialSlice) SetError(message string) {
	v.mu.Lock()
	v.state.Error = message
	v.mu.Unlock()
}

func (v *SocialSlice) Reset() {
	v.mu.Lock()
	v.state = SocialState{}
	v.mu.Unlock()
}
