package store

import (
	"slices"
	"sync"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/samber/lo"
)

type BookmarksState struct {
	Items      []models.Post `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Total      int64         `json:"total"`
	Loading    bool          `json:"loading"`
	Error      string        `json:"error,omitempty"`
}

type BookmarksSlice struct {
	mu    sync.RWMutex
	state BookmarksState
}

func (v *BookmarksSlice) State() BookmarksState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := v.state
	out.Items = slices.Clone(v.state.Items)
	if out.Items == nil {
		out.Items = []models.Post{}
	}
	return out
}

func (v *BookmarksSlice) SetPage(items []models.Post, page, totalPages int, total int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Items = slices.Clone(items)
	v.state.Page = page
	v.state.TotalPages = totalPages
	v.state.Total = total
	v.state.Error = ""
}

func (v *BookmarksSlice) Insert(post models.Post) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if lo.ContainsBy(v.state.Items, func(item models.Post) bool { return item.ID == post.ID }) {
		return
	}
	post.IsBookmarked = true
	v.state.Items = slices.Insert(slices.Clone(v.state.Items), 0, post)
	v.state.Total++
}

func (v *BookmarksSlice) Remove(post uint) {
	v.mu.Lock()
	defer v.mu.Unlock()
	before := len(v.state.Items)
	v.state.Items = lo.Filter(v.state.Items, func(item models.Post, _ int) bool { return item.ID != post })
	if len(v.state.Items) < before && v.state.Total > 0 {
		v.state.Total--
	}
}

func (v *BookmarksSlice) SetLoading(loading bool) {
	v.mu.Lock()
	v.state.Loading = loading
	v.mu.Unlock()
}

func (v *BookmarksSlice) SetError(message string) {
	v.mu.Lock()
	v.state.Error = message
	v.mu.Unlock()
}

func (v *BookmarksSlice) Reset() {
	v.mu.Lock()
	v.state = BookmarksState{}
	v.mu.Unlock()
}
