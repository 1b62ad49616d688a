package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/bordertile/internal/effect"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig layers raw over DefaultConfig and compiles window rule
// matchers.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.MonitorConfigChanges != nil {
		cfg.MonitorConfigChanges = *raw.MonitorConfigChanges
	}
	if kb := raw.Keybindings; kb != nil {
		if kb.Reload != nil {
			cfg.Keybindings.Reload = *kb.Reload
		}
		if kb.OpenConfig != nil {
			cfg.Keybindings.OpenConfig = *kb.OpenConfig
		}
		if kb.Exit != nil {
			cfg.Keybindings.Exit = *kb.Exit
		}
	}
	if raw.Global != nil {
		cfg.Global = cfg.Global.apply(*raw.Global)
	}

	for i, rr := range raw.WindowRules {
		path := fmt.Sprintf("window_rules.%d.match", i)
		m := Match{Strategy: MatchEquals}
		if rr.Match.Kind == nil {
			return nil, &ValidationError{Path: path + ".kind", Err: fmt.Errorf("match kind is required")}
		}
		m.Kind = *rr.Match.Kind
		if rr.Match.Value != nil {
			m.Value = *rr.Match.Value
		}
		if rr.Match.Strategy != nil {
			m.Strategy = *rr.Match.Strategy
		}
		if err := m.compile(); err != nil {
			return nil, &ValidationError{Path: path, Err: err}
		}
		cfg.WindowRules = append(cfg.WindowRules, WindowRule{Match: m, Override: rr.RawRule})
	}

	return cfg, nil
}

// apply returns r with every set field of o copied over it.
func (r Rule) apply(o RawRule) Rule {
	if o.Enabled != nil {
		r.Enabled = *o.Enabled
	}
	if o.BorderWidth != nil {
		r.BorderWidth = *o.BorderWidth
	}
	if o.BorderOffset != nil {
		r.BorderOffset = *o.BorderOffset
	}
	if o.BorderStyle != nil {
		r.BorderStyle = *o.BorderStyle
	}
	if o.ActiveColor != nil {
		r.ActiveColor = *o.ActiveColor
	}
	if o.InactiveColor != nil {
		r.InactiveColor = *o.InactiveColor
	}
	if a := o.Animations; a != nil {
		if a.Enabled != nil {
			r.Animations.Enabled = *a.Enabled
		}
		if a.FPS != nil {
			r.Animations.FPS = *a.FPS
		}
		if a.Active != nil {
			r.Animations.Active = animationEntries(a.Active)
		}
		if a.Inactive != nil {
			r.Animations.Inactive = animationEntries(a.Inactive)
		}
	}
	if e := o.Effects; e != nil {
		if e.Enabled != nil {
			r.Effects.Enabled = *e.Enabled
		}
		if e.Active != nil {
			r.Effects.Active = effectEntries(e.Active)
		}
		if e.Inactive != nil {
			r.Effects.Inactive = effectEntries(e.Inactive)
		}
	}
	if o.InitializeDelay != nil {
		r.InitializeDelay = *o.InitializeDelay
	}
	if o.UnminimizeDelay != nil {
		r.UnminimizeDelay = *o.UnminimizeDelay
	}
	return r
}

func animationEntries(raw []RawAnimation) []AnimationEntry {
	out := make([]AnimationEntry, 0, len(raw))
	for _, a := range raw {
		e := AnimationEntry{Kind: a.Kind}
		if a.Duration != nil {
			e.Duration = *a.Duration
		}
		if a.Easing != nil {
			e.Easing = *a.Easing
		}
		out = append(out, e)
	}
	return out
}

func effectEntries(raw []RawEffect) []EffectEntry {
	out := make([]EffectEntry, 0, len(raw))
	for _, r := range raw {
		e := EffectEntry{
			Kind:              r.Kind,
			StandardDeviation: effect.DefaultStandardDeviation,
			Opacity:           effect.DefaultOpacity,
		}
		if r.StandardDeviation != nil {
			e.StandardDeviation = *r.StandardDeviation
		}
		if r.Opacity != nil {
			e.Opacity = *r.Opacity
		}
		if r.Translation != nil {
			e.Translation = *r.Translation
		}
		out = append(out, e)
	}
	return out
}
