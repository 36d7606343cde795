package store

import (
	"slices"
	"sync"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/samber/lo"
)

type PostsState struct {
	Items       []models.Post `json:"items"`
	CurrentPost *models.Post  `json:"current_post"`
	Featured    []models.Post `json:"featured"`
	Page        int           `json:"page"`
	TotalPages  int           `json:"total_pages"`
	Total       int64         `json:"total"`
	Loading     bool          `json:"loading"`
	Error       string        `json:"error,omitempty"`
}

type PostsSlice struct {
	mu    sync.RWMutex
	state PostsState
}

func (v *PostsSlice) State() PostsState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := v.state
	out.Items = slices.Clone(v.state.Items)
	if out.Items == nil {
		out.Items = []models.Post{}
	}
	out.Featured = slices.Clone(v.state.Featured)
	if v.state.CurrentPost != nil {
		current := *v.state.CurrentPost
		out.CurrentPost = &current
	}
	return out
}

func (v *PostsSlice) SetPage(items []models.Post, page, totalPages int, total int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Items = slices.Clone(items)
	v.state.Page = page
	v.state.TotalPages = totalPages
	v.state.Total = total
	v.state.Error = ""
}

func (v *PostsSlice) SetCurrent(post *models.Post) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if post == nil {
		v.state.CurrentPost = nil
		return
	}
	current := *post
	v.state.CurrentPost = &current
	v.state.Error = ""
}

func (v *PostsSlice) SetFeatured(items []models.Post) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Featured = slices.Clone(items)
}

// Find looks the post up in the current post first, then in the feed.
func (v *PostsSlice) Find(id uint) (models.Post, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.state.CurrentPost != nil && v.state.CurrentPost.ID == id {
		return *v.state.CurrentPost, true
	}
	return lo.Find(v.state.Items, func(item models.Post) bool { return item.ID == id })
}

// Insert puts the post at the head of the feed.
func (v *PostsSlice) Insert(post models.Post) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Items = slices.Insert(slices.Clone(v.state.Items), 0, post)
	v.state.Total++
}

// each applies fn to every copy of the post, in the feed, the featured list and the current post.
// Callers hold the write lock.
func (v *PostsSlice) each(id uint, fn func(post *models.Post)) {
	for idx := range v.state.Items {
		if v.state.Items[idx].ID == id {
			fn(&v.state.Items[idx])
		}
	}
	for idx := range v.state.Featured {
		if v.state.Featured[idx].ID == id {
			fn(&v.state.Featured[idx])
		}
	}
	if v.state.CurrentPost != nil && v.state.CurrentPost.ID == id {
		fn(v.state.CurrentPost)
	}
}

// Update replaces the post in place, in the feed and as the current post.
func (v *PostsSlice) Update(post models.Post) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.each(post.ID, func(item *models.Post) {
		*item = post
	})
}

// Remove drops the post and clears the current post only when it is the removed one.
func (v *PostsSlice) Remove(id uint) {
	v.mu.Lock()
	defer v.mu.Unlock()
	before := len(v.state.Items)
	v.state.Items = lo.Filter(v.state.Items, func(item models.Post, _ int) bool { return item.ID != id })
	if len(v.state.Items) < before && v.state.Total > 0 {
		v.state.Total--
	}
	v.state.Featured = lo.Filter(v.state.Featured, func(item models.Post, _ int) bool { return item.ID != id })
	if v.state.CurrentPost != nil && v.state.CurrentPost.ID == id {
		v.state.CurrentPost = nil
	}
}

// LikeState reads the like flag and counter of a post from wherever it is held.
func (v *PostsSlice) LikeState(id uint) (bool, int, bool) {
	post, ok := v.Find(id)
	if !ok {
		return false, 0, false
	}
	return post.IsLiked, post.LikeCount, true
}

// PatchLike sets the like flag and counter on every copy of the post.
func (v *PostsSlice) PatchLike(id uint, liked bool, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.each(id, func(post *models.Post) {
		post.IsLiked = liked
		post.LikeCount = max(count, 0)
	})
}

func (v *PostsSlice) PatchBookmark(id uint, bookmarked bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.each(id, func(post *models.Post) {
		post.IsBookmarked = bookmarked
	})
}

func (v *PostsSlice) ClearViewerFlags() {
	v.mu.Lock()
	defer v.mu.Unlock()
	reset := func(post *models.Post) {
		post.IsLiked = false
		post.IsBookmarked = false
	}
	for idx := range v.state.Items {
		reset(&v.state.Items[idx])
	}
	for idx := range v.state.Featured {
		reset(&v.state.Featured[idx])
	}
	if v.state.CurrentPost != nil {
		reset(v.state.CurrentPost)
	}
}

func (v *PostsSlice) SetLoading(loading bool) {
	v.mu.Lock()
	v.state.Loading = loading
	v.mu.Unlock()
}

func (v *PostsSlice) SetError(message string) {
	v.mu.Lock()
	v.state.Error = message
	v.mu.Unlock()
}
