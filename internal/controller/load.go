package controller

import (
	"time"

	"github.com/genricoloni/playstatus/internal/domain"
	"github.com/genricoloni/playstatus/internal/settings"
	"github.com/genricoloni/playstatus/internal/style"
)

// Refresh interval bounds
const (
	MinRefreshInterval = 10 * time.Millisecond
	MaxRefreshInterval = time.Second
)

// Load reads the widget configuration from store, filling in defaults for
// missing keys. It returns one LineConfig per possible line.
func Load(store domain.SettingsStore) (domain.GlobalConfig, []domain.LineConfig) {
	global := domain.GlobalConfig{
		RefreshInterval: time.Duration(store.GetInt(settings.KeyRefreshInterval, settings.DefaultRefreshIntervalMs)) * time.Millisecond,
		ActiveLines:     store.GetInt(settings.KeyNumLines, settings.DefaultNumLines),
	}

	lines := make([]domain.LineConfig, domain.MaxLines)
	for i := range lines {
		lines[i] = domain.LineConfig{
			Index:    i,
			Template: store.GetString(settings.LineKey(settings.KeyFormatPrefix, i), settings.DefaultFormat(i)),
			Font:     store.GetString(settings.LineKey(settings.KeyFontPrefix, i), settings.DefaultFont(i)),
		}
		raw := store.GetString(settings.LineKey(settings.KeyColorPrefix, i), settings.DefaultColor)
		if c, err := style.ParseColor(raw); err == nil {
			lines[i].Color = c
		}
	}
	return global, lines
}

// save writes global and lines into store
func save(store domain.SettingsStore, global domain.GlobalConfig, lines []domain.LineConfig) {
	store.SetInt(settings.KeyRefreshInterval, int(global.RefreshInterval/time.Millisecond))
	store.SetInt(settings.KeyNumLines, global.ActiveLines)
	for _, l := range lines {
		store.SetString(settings.LineKey(settings.KeyFormatPrefix, l.Index), l.Template)
		store.SetString(settings.LineKey(settings.KeyFontPrefix, l.Index), l.Font)
		store.SetString(settings.LineKey(settings.KeyColorPrefix, l.Index), style.FormatColor(l.Color))
	}
}

// clamp bounds the global values to what the widget supports
func clamp(global domain.GlobalConfig) domain.GlobalConfig {
	global.ActiveLines = min(max(global.ActiveLines, 1), domain.MaxLines)
	global.RefreshInterval = min(max(global.RefreshInterval, MinRefreshInterval), MaxRefreshInterval)
	return global
}
