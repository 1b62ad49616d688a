package config

import (
	"fmt"
	"time"

	"github.com/1broseidon/bordertile/internal/animation"
	"github.com/1broseidon/bordertile/internal/border"
	"github.com/1broseidon/bordertile/internal/colors"
	"github.com/1broseidon/bordertile/internal/effect"
)

// RuleFor returns the global rule overlaid with the first window rule that
// matches w.
func (c *Config) RuleFor(w WindowInfo) Rule {
	for _, rule := range c.WindowRules {
		if rule.Match.Matches(w) {
			return rule.Effective(c.Global)
		}
	}
	return c.Global
}

// Effective returns global with the rule's overrides applied.
func (r WindowRule) Effective(global Rule) Rule {
	return global.apply(r.Override)
}

// SettingsFor resolves the border settings for w.
func (c *Config) SettingsFor(w WindowInfo, accent func() (colors.Color, error)) (border.Settings, []string) {
	return c.RuleFor(w).Settings(accent)
}

// Settings converts r to border settings. Invalid expressions fall back to
// defaults and are returned as warnings.
func (r Rule) Settings(accent func() (colors.Color, error)) (border.Settings, []string) {
	s := border.DefaultSettings()
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	s.Enabled = r.Enabled
	s.Width = max(r.BorderWidth, 0)
	s.Offset = r.BorderOffset
	if style, err := border.ParseStyle(r.BorderStyle); err != nil {
		warn("border_style: %v; using auto", err)
	} else {
		s.Style = style
	}

	s.ActiveColor = resolvePaint("active_color", r.ActiveColor, colors.Options{Active: true, Accent: accent}, warn)
	s.InactiveColor = resolvePaint("inactive_color", r.InactiveColor, colors.Options{Active: false, Accent: accent}, warn)

	if r.Animations.FPS > 0 {
		s.FPS = r.Animations.FPS
	}
	if r.Animations.Enabled {
		s.ActiveAnimations = resolveAnimations("animations.active", r.Animations.Active, warn)
		s.InactiveAnimations = resolveAnimations("animations.inactive", r.Animations.Inactive, warn)
	}

	if r.Effects.Enabled {
		s.ActiveEffects = resolveEffects("effects.active", r.Effects.Active, warn)
		s.InactiveEffects = resolveEffects("effects.inactive", r.Effects.Inactive, warn)
	}

	s.InitializeDelay = time.Duration(max(r.InitializeDelay, 0)) * time.Millisecond
	s.UnminimizeDelay = time.Duration(max(r.UnminimizeDelay, 0)) * time.Millisecond
	return s, warnings
}

func resolvePaint(path string, v ColorValue, opts colors.Options, warn func(string, ...any)) colors.Paint {
	p, err := v.Paint(opts)
	if err != nil {
		warn("%s: %v; using black", path, err)
		return colors.NewSolid(colors.Color{A: 1})
	}
	return p
}

func resolveAnimations(path string, entries []AnimationEntry, warn func(string, ...any)) animation.Set {
	var set animation.Set
	for i, e := range entries {
		kind, err := animation.ParseKind(e.Kind)
		if err != nil {
			warn("%s.%d: %v; skipped", path, i, err)
			continue
		}
		a := animation.Animation{Kind: kind, Duration: kind.DefaultDuration(), Easing: animation.Linear}
		if e.Duration != "" {
			d, err := animation.ParseDuration(e.Duration)
			if err != nil {
				warn("%s.%d.duration: %v; using %s", path, i, err, a.Duration)
			} else {
				a.Duration = d
			}
		}
		if e.Easing != "" {
			easing, err := animation.ParseEasing(e.Easing)
			if err != nil {
				warn("%s.%d.easing: %v; using linear", path, i, err)
			} else {
				a.Easing = easing
			}
		}
		if old, replaced := set.Insert(a); replaced {
			warn("%s.%d: %s replaces %s", path, i, a.Kind, old.Kind)
		}
	}
	return set
}

func resolveEffects(path string, entries []EffectEntry, warn func(string, ...any)) []effect.Descriptor {
	var out []effect.Descriptor
	for i, e := range entries {
		kind, err := effect.ParseKind(e.Kind)
		if err != nil {
			warn("%s.%d: %v; skipped", path, i, err)
			continue
		}
		d := effect.NewDescriptor(kind)
		d.StandardDeviation = max(e.StandardDeviation, 0)
		d.Opacity = max(e.Opacity, 0)
		d.Translation = e.Translation
		out = append(out, d)
	}
	return out
}
