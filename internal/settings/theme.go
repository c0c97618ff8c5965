package settings

import (
	"fmt"
	"strconv"
)

// DarkModeKey is the KV key holding the theme preference.
const DarkModeKey = "dark_mode"

// AmbientFunc reports the platform's preferred theme. ok is false when the
// platform can't tell (for example when output is not a terminal).
type AmbientFunc func() (dark bool, ok bool)

// Source says where a loaded preference came from.
type Source string

const (
	SourceStored  Source = "stored"
	SourceAmbient Source = "ambient"
	SourceDefault Source = "default"
)

// ThemeStore loads and saves the dark-mode preference.
//
// Load precedence: stored value, then the ambient preference, then light.
// A stored value that fails to parse is treated as absent.
type ThemeStore struct {
	kv      KV
	ambient AmbientFunc
}

// NewThemeStore returns a store over kv. ambient may be nil.
func NewThemeStore(kv KV, ambient AmbientFunc) *ThemeStore {
	return &ThemeStore{kv: kv, ambient: ambient}
}

// Load returns the effective preference.
func (s *ThemeStore) Load() bool {
	dark, _ := s.LoadWithSource()
	return dark
}

// LoadWithSource is Load plus where the value came from.
func (s *ThemeStore) LoadWithSource() (bool, Source) {
	if v, ok, err := s.kv.Get(DarkModeKey); err == nil && ok {
		if dark, err := strconv.ParseBool(v); err == nil {
			return dark, SourceStored
		}
	}
	if s.ambient != nil {
		if dark, ok := s.ambient(); ok {
			return dark, SourceAmbient
		}
	}
	return false, SourceDefault
}

// Save persists dark.
func (s *ThemeStore) Save(dark bool) error {
	if err := s.kv.Set(DarkModeKey, strconv.FormatBool(dark)); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

// Toggle flips the effective preference, saves it, and returns the new value.
func (s *ThemeStore) Toggle() (bool, error) {
	dark := !s.Load()
	return dark, s.Save(dark)
}
