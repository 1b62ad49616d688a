package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/bordertile/internal/border"
	"github.com/1broseidon/bordertile/internal/effect"
)

// Keybindings are xgbutil key sequences. An empty sequence disables the action.
type Keybindings struct {
	Reload     string `yaml:"reload"`
	OpenConfig string `yaml:"open_config"`
	Exit       string `yaml:"exit"`
}

type AnimationEntry struct {
	Kind     string `yaml:"kind"`
	Duration string `yaml:"duration,omitempty"`
	Easing   string `yaml:"easing,omitempty"`
}

type Animations struct {
	Enabled  bool             `yaml:"enabled"`
	FPS      int              `yaml:"fps"`
	Active   []AnimationEntry `yaml:"active,omitempty"`
	Inactive []AnimationEntry `yaml:"inactive,omitempty"`
}

type EffectEntry struct {
	Kind              string             `yaml:"kind"`
	StandardDeviation float64            `yaml:"standard_deviation"`
	Opacity           float64            `yaml:"opacity"`
	Translation       effect.Translation `yaml:"translation"`
}

type Effects struct {
	Enabled  bool          `yaml:"enabled"`
	Active   []EffectEntry `yaml:"active,omitempty"`
	Inactive []EffectEntry `yaml:"inactive,omitempty"`
}

// Rule is a fully populated set of border options. Global is a Rule; window
// rules layer a RawRule over it.
type Rule struct {
	Enabled         bool       `yaml:"enabled"`
	BorderWidth     int        `yaml:"border_width"`
	BorderOffset    int        `yaml:"border_offset"`
	BorderStyle     string     `yaml:"border_style"`
	ActiveColor     ColorValue `yaml:"active_color"`
	InactiveColor   ColorValue `yaml:"inactive_color"`
	Animations      Animations `yaml:"animations"`
	Effects         Effects    `yaml:"effects"`
	InitializeDelay int        `yaml:"initialize_delay"`
	UnminimizeDelay int        `yaml:"unminimize_delay"`
}

type WindowRule struct {
	Match    Match   `yaml:"match"`
	Override RawRule `yaml:",inline"`
}

type Config struct {
	LogLevel             string       `yaml:"log_level"`
	MonitorConfigChanges bool         `yaml:"monitor_config_changes"`
	Keybindings          Keybindings  `yaml:"keybindings"`
	Global               Rule         `yaml:"global"`
	WindowRules          []WindowRule `yaml:"window_rules,omitempty"`
}

func DefaultRule() Rule {
	return Rule{
		Enabled:       true,
		BorderWidth:   border.DefaultWidth,
		BorderOffset:  border.DefaultOffset,
		BorderStyle:   "auto",
		ActiveColor:   Color("accent"),
		InactiveColor: Color("accent"),
		Animations: Animations{
			Enabled: true,
			FPS:     60,
		},
		Effects: Effects{
			Enabled: true,
		},
		InitializeDelay: int(border.DefaultInitializeDelay.Milliseconds()),
		UnminimizeDelay: int(border.DefaultUnminimizeDelay.Milliseconds()),
	}
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:             "info",
		MonitorConfigChanges: true,
		Keybindings: Keybindings{
			Reload:     "Mod4-Mod1-b",
			OpenConfig: "Mod4-Mod1-o",
			Exit:       "",
		},
		Global: DefaultRule(),
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "bordertile", "config.yaml"), nil
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Marshal returns the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) Validate() error {
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if err := validateRule("global", c.Global); err != nil {
		return err
	}
	for i, rule := range c.WindowRules {
		prefix := fmt.Sprintf("window_rules.%d", i)
		if err := rule.Match.validate(); err != nil {
			return &ValidationError{Path: prefix + ".match", Err: err}
		}
		if err := validateRule(prefix, c.Global.apply(rule.Override)); err != nil {
			return err
		}
	}
	return nil
}

func validateRule(prefix string, r Rule) error {
	if r.BorderWidth < 0 {
		return &ValidationError{Path: prefix + ".border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if _, err := border.ParseStyle(r.BorderStyle); err != nil {
		return &ValidationError{Path: prefix + ".border_style", Err: fmt.Errorf("border_style must be one of: auto, round, small_round, square, radius(N)")}
	}
	if r.Animations.FPS <= 0 {
		return &ValidationError{Path: prefix + ".animations.fps", Err: fmt.Errorf("fps must be > 0")}
	}
	if r.InitializeDelay < 0 {
		return &ValidationError{Path: prefix + ".initialize_delay", Err: fmt.Errorf("initialize_delay must be >= 0")}
	}
	if r.UnminimizeDelay < 0 {
		return &ValidationError{Path: prefix + ".unminimize_delay", Err: fmt.Errorf("unminimize_delay must be >= 0")}
	}
	return nil
}

// Warnings lists values that resolve to a fallback. Accent colors are
// resolved against the built-in accent.
func (c *Config) Warnings() []string {
	if c == nil {
		return nil
	}
	var warnings []string
	_, w := c.Global.Settings(nil)
	for _, msg := range w {
		warnings = append(warnings, "global: "+msg)
	}
	for i, rule := range c.WindowRules {
		_, w := c.Global.apply(rule.Override).Settings(nil)
		for _, msg := range w {
			warnings = append(warnings, fmt.Sprintf("window_rules.%d: %s", i, msg))
		}
	}
	for i, rule := range c.WindowRules {
		if rule.Match.Strategy == MatchEquals && strings.TrimSpace(rule.Match.Value) != rule.Match.Value {
			warnings = append(warnings, fmt.Sprintf("window_rules.%d.match.value has surrounding whitespace and may never match", i))
		}
	}
	return warnings
}
