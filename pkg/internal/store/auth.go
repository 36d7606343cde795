package store

import (
	"sync"

	"git.solsynth.dev/hypernet/scribe/pkg/internal/models"
)

type AuthState struct {
	Token   string          `json:"-"`
	Profile *models.Profile `json:"profile"`
	Loading bool            `json:"loading"`
	Error   string          `json:"error,omitempty"`
}

type AuthSlice struct {
	mu    sync.RWMutex
	state AuthState

	persist func(key string, value any)
}

func (v *AuthSlice) State() AuthState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := v.state
	if out.Profile != nil {
		profile := *out.Profile
		out.Profile = &profile
	}
	return out
}

func (v *AuthSlice) Token() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.Token
}

// UserID is nil while nobody is signed in.
func (v *AuthSlice) UserID() *uint {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.state.Profile == nil || len(v.state.Token) == 0 {
		return nil
	}
	id := v.state.Profile.ID
	return &id
}

func (v *AuthSlice) Profile() *models.Profile {
	return v.State().Profile
}

func (v *AuthSlice) IsAdmin() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state.Profile != nil && len(v.state.Token) > 0 && v.state.Profile.IsAdmin()
}

func (v *AuthSlice) SetSession(token string, profile models.Profile) {
	v.mu.Lock()
	v.state.Token = token
	v.state.Profile = &profile
	v.state.Error = ""
	v.mu.Unlock()
	v.save(&profile)
}

func (v *AuthSlice) SetProfile(profile models.Profile) {
	v.mu.Lock()
	v.state.Profile = &profile
	v.mu.Unlock()
	v.save(&profile)
}

func (v *AuthSlice) SetLoading(loading bool) {
	v.mu.Lock()
	v.state.Loading = loading
	v.mu.Unlock()
}

func (v *AuthSlice) SetError(message string) {
	v.mu.Lock()
	v.state.Error = message
	v.mu.Unlock()
}

func (v *AuthSlice) Clear() {
	v.mu.Lock()
	v.state = AuthState{}
	v.mu.Unlock()
	v.save(nil)
}

// restore brings the profile snapshot back without a session, it renders until the token is checked.
func (v *AuthSlice) restore(profile models.Profile) {
	if profile.ID == 0 {
		return
	}
	v.mu.Lock()
	v.state.Profile = &profile
	v.mu.Unlock()
}

func (v *AuthSlice) save(profile *models.Profile) {
	if v.persist == nil {
		return
	}
	if profile == nil {
		v.persist(KeyAuthProfile, models.Profile{})
		return
	}
	v.persist(KeyAuthProfile, *profile)
}
