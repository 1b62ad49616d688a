package daemon

import (
	"log/slog"
	"sync"

	"github.com/1broseidon/bordertile/internal/border"
	"github.com/1broseidon/bordertile/internal/colors"
	"github.com/1broseidon/bordertile/internal/config"
	"github.com/1broseidon/bordertile/internal/platform"
)

// accentSource is implemented by backends that know the desktop accent.
type accentSource interface {
	Accent() (string, bool)
}

// SettingsSource resolves border settings for windows against the current
// configuration.
type SettingsSource struct {
	backend platform.Backend
	accent  func() (colors.Color, error)
	log     *slog.Logger

	mu     sync.RWMutex
	cfg    *config.Config
	warned map[string]struct{}
}

func NewSettingsSource(backend platform.Backend, cfg *config.Config, logger *slog.Logger) *SettingsSource {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &SettingsSource{
		backend: backend,
		log:     logger,
		cfg:     cfg,
		warned:  make(map[string]struct{}),
	}
	if src, ok := backend.(accentSource); ok {
		s.accent = accentFunc(src)
	}
	return s
}

// accentFunc parses the backend's accent expression on every call so that a
// changed resource database is picked up on the next border.
func accentFunc(src accentSource) func() (colors.Color, error) {
	return func() (colors.Color, error) {
		expr, ok := src.Accent()
		if !ok {
			return colors.DefaultAccent, nil
		}
		return colors.ParseColor(expr, colors.Options{Active: true})
	}
}

// Set swaps in a new configuration.
func (s *SettingsSource) Set(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	clear(s.warned)
}

func (s *SettingsSource) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Resolve returns the settings for a visible top-level window. It reports
// false when the window is hidden, gone or its rule disables borders.
func (s *SettingsSource) Resolve(window platform.WindowID) (border.Settings, bool) {
	if !s.backend.IsVisible(window) {
		return border.Settings{}, false
	}
	info, err := s.backend.WindowInfo(window)
	if err != nil {
		s.log.Debug("window info unavailable", "window", window, "error", err)
		return border.Settings{}, false
	}
	settings := s.For(info)
	return settings, settings.Enabled
}

// For resolves settings for already fetched window metadata. Each distinct
// warning is logged once per configuration.
func (s *SettingsSource) For(info platform.Window) border.Settings {
	cfg := s.Config()
	settings, warnings := cfg.SettingsFor(config.WindowInfo{
		Title: info.Title,
		Class: info.AppID,
		PID:   info.PID,
	}, s.accent)

	if len(warnings) > 0 {
		s.mu.Lock()
		for _, w := range warnings {
			if _, seen := s.warned[w]; seen {
				continue
			}
			s.warned[w] = struct{}{}
			s.log.Warn("config fallback", "window", info.ID, "class", info.AppID, "warning", w)
		}
		s.mu.Unlock()
	}
	return settings
}
