package store

import (
	"slices"
	"sync"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
	"github.com/samber/lo"
)

type profileEntry struct {
	profile models.Profile
}

type UsersState struct {
	Current    *models.Profile  `json:"current"`
	Admin      []models.Profile `json:"admin"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Total      int64            `json:"total"`
	Loading    bool             `json:"loading"`
	Error      string           `json:"error,omitempty"`
}

// UsersSlice caches viewed profiles by username and holds the administration list.
type UsersSlice struct {
	mu       sync.RWMutex
	profiles map[string]profileEntry
	state    UsersState
}

func (v *UsersSlice) State() UsersState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := v.state
	out.Admin = slices.Clone(v.state.Admin)
	if out.Admin == nil {
		out.Admin = []models.Profile{}
	}
	if v.state.Current != nil {
		current := *v.state.Current
		out.Current = &current
	}
	return out
}

func (v *UsersSlice) Lookup(username string) (models.Profile, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	entry, ok := v.profiles[username]
	return entry.profile, ok
}

// SetCurrent shows the profile and remembers it by username.
func (v *UsersSlice) SetCurrent(profile *models.Profile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if profile == nil {
		v.state.Current = nil
		return
	}
	current := *profile
	v.state.Current = &current
	v.state.Error = ""
	v.profiles[profile.Username] = profileEntry{profile: current}
}

// Upsert refreshes every copy of the profile held by the slice.
func (v *UsersSlice) Upsert(profile models.Profile) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for username, entry := range v.profiles {
		if entry.profile.ID == profile.ID && username != profile.Username {
			delete(v.profiles, username)
		}
	}
	v.profiles[profile.Username] = profileEntry{profile: profile}
	if v.state.Current != nil && v.state.Current.ID == profile.ID {
		current := profile
		v.state.Current = &current
	}
	if _, idx, ok := lo.FindIndexOf(v.state.Admin, func(item models.Profile) bool { return item.ID == profile.ID }); ok {
		admin := slices.Clone(v.state.Admin)
		admin[idx] = profile
		v.state.Admin = admin
	}
}

func (v *UsersSlice) SetAdminPage(items []models.Profile, page, totalPages int, total int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Admin = slices.Clone(items)
	v.state.Page = page
	v.state.TotalPages = totalPages
	v.state.Total = total
	v.state.Error = ""
}

func (v *UsersSlice) SetLoading(loading bool) {
	v.mu.Lock()
	v.state.Loading = loading
	v.mu.Unlock()
}

func (v *UsersSlice) SetError(message string) {
	v.mu.Lock()
	v.state.Error = message
	v.mu.Unlock()
}
