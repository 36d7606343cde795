package store

import (
	"slices"
	"sync"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/samber/lo"
)

type CommentsState struct {
	PostID  uint             `json:"post_id"`
	Items   []models.Comment `json:"items"`
	Loading bool             `json:"loading"`
	Error   string           `json:"error,omitempty"`
}

// CommentsSlice holds the thread of one post, oldest first.
type CommentsSlice struct {
	mu    sync.RWMutex
	state CommentsState
}

func (v *CommentsSlice) State() CommentsState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := v.state
	out.Items = slices.Clone(v.state.Items)
	if out.Items == nil {
		out.Items = []models.Comment{}
	}
	return out
}

func (v *CommentsSlice) Set(post uint, items []models.Comment) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.PostID = post
	v.state.Items = slices.Clone(items)
	v.state.Error = ""
}

func (v *CommentsSlice) PostID() uint {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.PostID
}

func (v *CommentsSlice) has(id uint) bool {
	return lo.ContainsBy(v.state.Items, func(item models.Comment) bool {
		return item.ID != 0 && item.ID == id
	})
}

func (v *CommentsSlice) Has(id uint) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.has(id)
}

// Insert appends the comment unless one with the same id is already held.
// It reports whether the list changed.
func (v *CommentsSlice) Insert(comment models.Comment) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if comment.PostID != v.state.PostID || v.has(comment.ID) {
		return false
	}
	v.state.Items = append(slices.Clone(v.state.Items), comment)
	return true
}

// AddProvisional shows a comment that the backend has not confirmed yet.
func (v *CommentsSlice) AddProvisional(comment models.Comment) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if comment.PostID != v.state.PostID {
		return
	}
	v.state.Items = append(slices.Clone(v.state.Items), comment)
}

// ReplaceProvisional swaps the provisional entry for the confirmed comment.
// When a realtime insert already delivered it, the provisional entry is simply dropped.
func (v *CommentsSlice) ReplaceProvisional(clientKey string, comment models.Comment) {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, idx, ok := lo.FindIndexOf(v.state.Items, func(item models.Comment) bool {
		return item.IsProvisional() && item.ClientKey == clientKey
	})
	if !ok {
		if comment.PostID == v.state.PostID && !v.has(comment.ID) {
			v.state.Items = append(slices.Clone(v.state.Items), comment)
		}
		return
	}

	items := slices.Clone(v.state.Items)
	if v.has(comment.ID) {
		items = slices.Delete(items, idx, idx+1)
	} else {
		comment.ClientKey = ""
		items[idx] = comment
	}
	v.state.Items = items
}

func (v *CommentsSlice) RemoveProvisional(clientKey string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Items = lo.Filter(v.state.Items, func(item models.Comment, _ int) bool {
		return !(item.IsProvisional() && item.ClientKey == clientKey)
	})
}

// Merge applies the changed fields of a comment and keeps the loaded author when the change lacks one.
func (v *CommentsSlice) Merge(comment models.Comment) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, idx, ok := lo.FindIndexOf(v.state.Items, func(item models.Comment) bool { return item.ID == comment.ID })
	if !ok {
		return false
	}
	current := v.state.Items[idx]
	if comment.Author.ID == 0 {
		comment.Author = current.Author
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = current.CreatedAt
	}
	items := slices.Clone(v.state.Items)
	items[idx] = comment
	v.state.Items = items
	return true
}

func (v *CommentsSlice) Remove(id uint) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	before := len(v.state.Items)
	v.state.Items = lo.Filter(v.state.Items, func(item models.Comment, _ int) bool { return item.ID != id })
	return len(v.state.Items) < before
}

func (v *CommentsSlice) SetLoading(loading bool) {
	v.mu.Lock()
	v.state.Loading = loading
	v.mu.Unlock()
}

func (v *CommentsSlice) SetError(message string) {
	v.mu.Lock()
	v.state.Error = message
	v.mu.Unlock()
}
