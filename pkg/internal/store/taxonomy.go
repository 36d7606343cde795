package store

import (
	"slices"
	"sync"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/samber/lo"
)

type CategoriesState struct {
	Items   []models.Category `json:"items"`
	Loading bool              `json:"loading"`
	Error   string            `json:"error,omitempty"`
}

type CategoriesSlice struct {
	mu    sync.RWMutex
	state CategoriesState

	persist func(key string, value any)
}

func (v *CategoriesSlice) State() CategoriesState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := v.state
	out.Items = slices.Clone(v.state.Items)
	if out.Items == nil {
		out.Items = []models.Category{}
	}
	return out
}

func (v *CategoriesSlice) Set(items []models.Category) {
	v.mu.Lock()
	v.state.Items = slices.Clone(items)
	v.state.Error = ""
	snapshot := slices.Clone(v.state.Items)
	v.mu.Unlock()
	v.save(snapshot)
}

// Upsert keeps the list ordered by name.
func (v *CategoriesSlice) Upsert(category models.Category) {
	v.mu.Lock()
	items := lo.Filter(v.state.Items, func(item models.Category, _ int) bool { return item.ID != category.ID })
	items = append(items, category)
	slices.SortStableFunc(items, func(a, b models.Category) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	v.state.Items = items
	snapshot := slices.Clone(items)
	v.mu.Unlock()
	v.save(snapshot)
}

func (v *CategoriesSlice) Remove(id uint) {
	v.mu.Lock()
	v.state.Items = lo.Filter(v.state.Items, func(item models.Category, _ int) bool { return item.ID != id })
	snapshot := slices.Clone(v.state.Items)
	v.mu.Unlock()
	v.save(snapshot)
}

func (v *CategoriesSlice) SetLoading(loading bool) {
	v.mu.Lock()
	v.state.Loading = loading
	v.mu.Unlock()
}

func (v *CategoriesSlice) SetError(message string) {
	v.mu.Lock()
	v.state.Error = message
	v.mu.Unlock()
}

func (v *CategoriesSlice) restore(items []models.Category) {
	v.mu.Lock()
	v.state.Items = items
	v.mu.Unlock()
}

func (v *CategoriesSlice) save(items []models.Category) {
	if v.persist != nil {
		v.persist(KeyCategories, items)
	}
}

type TagsState struct {
	Items   []models.Tag `json:"items"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`
}

type TagsSlice struct {
	mu    sync.RWMutex
	state TagsState

	persist func(key string, value any)
}

func (v *TagsSlice) State() TagsState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := v.state
	out.Items = slices.Clone(v.state.Items)
	if out.Items == nil {
		out.Items = []models.Tag{}
	}
	return out
}

func (v *TagsSlice) Set(items []models.Tag) {
	v.mu.Lock()
	v.state.Items = slices.Clone(items)
	v.state.Error = ""
	snapshot := slices.Clone(v.state.Items)
	v.mu.Unlock()
	if v.persist != nil {
		v.persist(KeyTags, snapshot)
	}
}

func (v *TagsSlice) SetLoading(loading bool) {
	v.mu.Lock()
	v.state.Loading = loading
	v.mu.Unlock()
}

func (v *TagsSlice) SetError(message string) {
	v.mu.Lock()
	v.state.Error = message
	v.mu.Unlock()
}

func (v *TagsSlice) restore(items []models.Tag) {
	v.mu.Lock()
	v.state.Items = items
	v.mu.Unlock()
}
