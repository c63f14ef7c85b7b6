package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Display kinds
const (
	DisplayTerminal = "terminal"
	DisplayImage    = "image"
)

const (
	defaultSettingsPath = "~/.config/playstatus/settings.toml"
	defaultOutputDir    = "/tmp/playstatus"
	defaultDisplay      = DisplayTerminal
)

// AppConfig holds process configuration read from the environment
type AppConfig struct {
	logger          *zap.Logger
	settingsPath    string
	display         string
	outputDir       string
	preferredPlayer string
	width           int
	maxLen          int
}

// NewAppConfig reads PLAYSTATUS_* environment variables, falling back to defaults
func NewAppConfig(logger *zap.Logger) *AppConfig {
	display := strings.ToLower(envOr("PLAYSTATUS_DISPLAY", defaultDisplay))
	if display != DisplayTerminal && display != DisplayImage {
		logger.Warn("Unknown display, using terminal", zap.String("display", display))
		display = DisplayTerminal
	}

	cfg := &AppConfig{
		logger:          logger,
		settingsPath:    expandPath(envOr("PLAYSTATUS_SETTINGS", defaultSettingsPath)),
		display:         display,
		outputDir:       expandPath(envOr("PLAYSTATUS_OUTPUT_DIR", defaultOutputDir)),
		preferredPlayer: os.Getenv("PLAYSTATUS_PLAYER"),
		width:           envInt(logger, "PLAYSTATUS_WIDTH"),
		maxLen:          envInt(logger, "PLAYSTATUS_MAX_LEN"),
	}

	logger.Info("Configuration loaded",
		zap.String("settings", cfg.settingsPath),
		zap.String("display", cfg.display),
		zap.String("outputDir", cfg.outputDir),
		zap.String("player", cfg.preferredPlayer),
		zap.Int("width", cfg.width),
		zap.Int("maxLen", cfg.maxLen))

	return cfg
}

// GetSettingsPath returns the widget settings file; .yaml/.yml selects YAML
func (c *AppConfig) GetSettingsPath() string {
	return c.settingsPath
}

// GetDisplay returns DisplayTerminal or DisplayImage
func (c *AppConfig) GetDisplay() string {
	return c.display
}

// GetOutputDir returns the directory the image display writes to
func (c *AppConfig) GetOutputDir() string {
	return c.outputDir
}

// GetPreferredPlayer returns the bus name fragment of the player to follow, or ""
func (c *AppConfig) GetPreferredPlayer() string {
	return c.preferredPlayer
}

// GetWidth returns the surface width, zero for the display's default
func (c *AppConfig) GetWidth() int {
	return c.width
}

// GetMaxLen returns the rendered line bound in runes, zero for the default
func (c *AppConfig) GetMaxLen() int {
	return c.maxLen
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt reads a positive integer; anything else yields zero
func envInt(logger *zap.Logger, key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		logger.Warn("Ignoring invalid value", zap.String("key", key), zap.String("value", raw))
		return 0
	}
	return n
}

// expandPath expands environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if len(p) > 0 && p[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}
