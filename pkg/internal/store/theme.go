package store

import "sync"

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

func IsValidTheme(mode string) bool {
	return mode == ThemeLight || mode == ThemeDark || mode == ThemeSystem
}

type ThemeSlice struct {
	mu   sync.RWMutex
	mode string

	persist func(key string, value any)
}

func (v *ThemeSlice) Mode() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.mode
}

// Set ignores unknown modes.
func (v *ThemeSlice) Set(mode string) bool {
	if !IsValidTheme(mode) {
		return false
	}
	v.mu.Lock()
	v.mode = mode
	v.mu.Unlock()
	if v.persist != nil {
		v.persist(KeyTheme, mode)
	}
	return true
}

func (v *ThemeSlice) restore(mode string) {
	if !IsValidTheme(mode) {
		return
	}
	v.mu.Lock()
	v.mode = mode
	v.mu.Unlock()
}
