package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"movie-explorer/internal/models"
)

func TestTheme_DefaultsToDark(t *testing.T) {
	svc := NewThemeService(newMemStore())

	assert.Equal(t, models.ThemeDark, svc.Mode())
}

func TestTheme_TogglePersists(t *testing.T) {
	store := newMemStore()
	svc := NewThemeService(store)

	assert.Equal(t, models.ThemeLight, svc.Toggle())
	assert.Equal(t, "light", store.m["theme_mode"])

	assert.Equal(t, models.ThemeDark, svc.Toggle())
	assert.Equal(t, "dark", store.m["theme_mode"])
}

func TestTheme_RestoredAtStartup(t *testing.T) {
	store := newMemStore()
	store.m["theme_mode"] = "light"

	svc := NewThemeService(store)
	assert.Equal(t, models.ThemeLight, svc.Mode())
}

func TestTheme_InvalidStoredModeFallsBack(t *testing.T) {
	store := newMemStore()
	store.m["theme_mode"] = "sepia"

	svc := NewThemeService(store)
	assert.Equal(t, models.ThemeDark, svc.Mode())
}
