package service

import (
	"sync"

	"github.com/rs/zerolog/log"

	"movie-explorer/internal/models"
)

const themeModeKey = "theme_mode"

// ThemeService holds the light/dark preference, persisted on every change.
type ThemeService struct {
	mu    sync.Mutex
	store KV
	mode  models.ThemeMode
}

// NewThemeService creates a ThemeService, restoring the persisted mode.
// Dark is the default when nothing is stored.
func NewThemeService(store KV) *ThemeService {
	s := &ThemeService{store: store, mode: models.ThemeDark}

	raw, ok, err := store.Get(themeModeKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load theme mode")
		return s
	}
	if ok && (models.ThemeMode(raw) == models.ThemeLight || models.ThemeMode(raw) == models.ThemeDark) {
		s.mode = models.ThemeMode(raw)
	}
	return s
}

// Mode returns the current theme mode.
func (s *ThemeService) Mode() models.ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Toggle flips between light and dark and returns the new mode.
func (s *ThemeService) Toggle() models.ThemeMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == models.ThemeLight {
		s.mode = models.ThemeDark
	} else {
		s.mode = models.ThemeLight
	}
	if err := s.store.Set(themeModeKey, string(s.mode)); err != nil {
		log.Warn().Err(err).Msg("failed to persist theme mode")
	}
	return s.mode
}
