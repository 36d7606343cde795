package store

import (
	"slices"
	"sync"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/samber/lo"
)

type NotificationsState struct {
	Items       []models.Notification `json:"items"`
	UnreadCount int                   `json:"unread_count"`
	Loading     bool                  `json:"loading"`
	Error       string                `json:"error,omitempty"`
}

// NotificationsSlice holds the newest notifications first.
type NotificationsSlice struct {
	mu    sync.RWMutex
	state NotificationsState
}

func (v *NotificationsSlice) State() NotificationsState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := v.state
	out.Items = slices.Clone(v.state.Items)
	if out.Items == nil {
		out.Items = []models.Notification{}
	}
	return out
}

func (v *NotificationsSlice) recount() {
	v.state.UnreadCount = lo.CountBy(v.state.Items, func(item models.Notification) bool { return !item.IsRead })
}

func (v *NotificationsSlice) Set(items []models.Notification) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Items = slices.Clone(items)
	v.state.Error = ""
	v.recount()
}

// Insert prepends the notification unless it is already held.
func (v *NotificationsSlice) Insert(notification models.Notification) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if lo.ContainsBy(v.state.Items, func(item models.Notification) bool { return item.ID == notification.ID }) {
		return false
	}
	v.state.Items = slices.Insert(slices.Clone(v.state.Items), 0, notification)
	v.recount()
	return true
}

func (v *NotificationsSlice) Update(notification models.Notification) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, idx, ok := lo.FindIndexOf(v.state.Items, func(item models.Notification) bool { return item.ID == notification.ID })
	if !ok {
		return false
	}
	items := slices.Clone(v.state.Items)
	items[idx] = notification
	v.state.Items = items
	v.recount()
	return true
}

func (v *NotificationsSlice) Remove(id uint) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	before := len(v.state.Items)
	v.state.Items = lo.Filter(v.state.Items, func(item models.Notification, _ int) bool { return item.ID != id })
	v.recount()
	return len(v.state.Items) < before
}

// MarkRead reports whether the notification was unread before.
func (v *NotificationsSlice) MarkRead(id uint) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, idx, ok := lo.FindIndexOf(v.state.Items, func(item models.Notification) bool { return item.ID == id })
	if !ok || v.state.Items[idx].IsRead {
		return false
	}
	items := slices.Clone(v.state.Items)
	items[idx].IsRead = true
	v.state.Items = items
	v.recount()
	return true
}

func (v *NotificationsSlice) MarkUnread(id uint) {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := slices.Clone(v.state.Items)
	for idx := range items {
		if items[idx].ID == id {
			items[idx].IsRead = false
		}
	}
	v.state.Items = items
	v.recount()
}

// MarkAllRead returns the ids that were unread so a failed remote call can restore them.
func (v *NotificationsSlice) MarkAllRead() []uint {
	v.mu.Lock()
	defer v.mu.Unlock()
	var changed []uint
	items := slices.Clone(v.state.Items)
	for idx := range items {
		if !items[idx].IsRead {
			changed = append(changed, items[idx].ID)
			items[idx].IsRead = true
		}
	}
	v.state.Items = items
	v.state.UnreadCount = 0
	return changed
}

func (v *NotificationsSlice) UnreadCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.UnreadCount
}

func (v *NotificationsSlice) SetLoading(loading bool) {
	v.mu.Lock()
	v.state.Loading = loading
	v.mu.Unlock()
}

func (v *NotificationsSlice) SetError(message string) {
	v.mu.Lock()
	v.state.Error = message
	v.mu.Unlock()
}

func (v *NotificationsSlice) Reset() {
	v.mu.Lock()
	v.state = NotificationsState{}
	v.mu.Unlock()
}
