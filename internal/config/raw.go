package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/bordertile/internal/colors"
	"github.com/1broseidon/bordertile/internal/effect"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// ColorValue is either a paint expression:
//
//	active_color: "gradient(#89b4fa, #cba6f7, 45deg, true)"
//
// or a gradient mapping:
//
//	active_color:
//	  colors: ["#89b4fa", "#cba6f7"]
//	  direction: {start: [0, 0], end: [1, 1]}
//	  animate: true
type ColorValue struct {
	Expr     string
	Gradient *GradientValue
}

type GradientValue struct {
	Colors    []string       `yaml:"colors"`
	Direction DirectionValue `yaml:"direction,omitempty"`
	Animate   bool           `yaml:"animate,omitempty"`
}

// DirectionValue is a direction string ("to right", "45deg") or explicit
// start/end coordinates.
type DirectionValue struct {
	Name   string
	Coords *colors.Coordinates
}

// Color builds the color expression for a plain string.
func Color(expr string) ColorValue {
	return ColorValue{Expr: expr}
}

func (v ColorValue) IsZero() bool {
	return v.Expr == "" && v.Gradient == nil
}

func (v ColorValue) String() string {
	if v.Gradient == nil {
		return v.Expr
	}
	return fmt.Sprintf("gradient%v", v.Gradient.Colors)
}

// Paint resolves the value with opts.
func (v ColorValue) Paint(opts colors.Options) (colors.Paint, error) {
	if v.Gradient == nil {
		return colors.Parse(v.Expr, opts)
	}
	dir := colors.Direction{Name: v.Gradient.Direction.Name, Coords: v.Gradient.Direction.Coords}
	if dir.Name == "" && dir.Coords == nil {
		dir.Name = colors.DefaultDirection
	}
	return colors.FromGradient(colors.GradientSpec{
		Colors:    v.Gradient.Colors,
		Direction: dir,
		Animate:   v.Gradient.Animate,
	}, opts)
}

func (v *ColorValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = ColorValue{Expr: node.Value}
		return nil
	case yaml.MappingNode:
		var g GradientValue
		if err := node.Decode(&g); err != nil {
			return err
		}
		*v = ColorValue{Gradient: &g}
		return nil
	default:
		return fmt.Errorf("color must be a string or a gradient mapping")
	}
}

func (v ColorValue) MarshalYAML() (any, error) {
	if v.Gradient != nil {
		return v.Gradient, nil
	}
	return v.Expr, nil
}

func (d *DirectionValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*d = DirectionValue{Name: node.Value}
		return nil
	case yaml.MappingNode:
		var c colors.Coordinates
		if err := node.Decode(&c); err != nil {
			return err
		}
		*d = DirectionValue{Coords: &c}
		return nil
	default:
		return fmt.Errorf("direction must be a string or a {start, end} mapping")
	}
}

func (d DirectionValue) MarshalYAML() (any, error) {
	if d.Coords != nil {
		return d.Coords, nil
	}
	return d.Name, nil
}

func (d DirectionValue) IsZero() bool {
	return d.Name == "" && d.Coords == nil
}

type RawAnimation struct {
	Kind     string  `yaml:"kind"`
	Duration *string `yaml:"duration"`
	Easing   *string `yaml:"easing"`
}

type RawAnimations struct {
	Enabled  *bool          `yaml:"enabled"`
	FPS      *int           `yaml:"fps"`
	Active   []RawAnimation `yaml:"active"`
	Inactive []RawAnimation `yaml:"inactive"`
}

type RawEffect struct {
	Kind              string              `yaml:"kind"`
	StandardDeviation *float64            `yaml:"standard_deviation"`
	Opacity           *float64            `yaml:"opacity"`
	Translation       *effect.Translation `yaml:"translation"`
}

type RawEffects struct {
	Enabled  *bool       `yaml:"enabled"`
	Active   []RawEffect `yaml:"active"`
	Inactive []RawEffect `yaml:"inactive"`
}

// RawRule holds the border fields shared by global and window_rules. Nil
// fields are unset.
type RawRule struct {
	Enabled         *bool          `yaml:"enabled,omitempty"`
	BorderWidth     *int           `yaml:"border_width,omitempty"`
	BorderOffset    *int           `yaml:"border_offset,omitempty"`
	BorderStyle     *string        `yaml:"border_style,omitempty"`
	ActiveColor     *ColorValue    `yaml:"active_color,omitempty"`
	InactiveColor   *ColorValue    `yaml:"inactive_color,omitempty"`
	Animations      *RawAnimations `yaml:"animations,omitempty"`
	Effects         *RawEffects    `yaml:"effects,omitempty"`
	InitializeDelay *int           `yaml:"initialize_delay,omitempty"`
	UnminimizeDelay *int           `yaml:"unminimize_delay,omitempty"`
}

type RawMatch struct {
	Kind     *MatchKind     `yaml:"kind"`
	Value    *string        `yaml:"value"`
	Strategy *MatchStrategy `yaml:"strategy"`
}

type RawWindowRule struct {
	Match   RawMatch `yaml:"match"`
	RawRule `yaml:",inline"`
}

type RawKeybindings struct {
	Reload     *string `yaml:"reload"`
	OpenConfig *string `yaml:"open_config"`
	Exit       *string `yaml:"exit"`
}

type RawConfig struct {
	Include              IncludeList     `yaml:"include"`
	LogLevel             *string         `yaml:"log_level"`
	MonitorConfigChanges *bool           `yaml:"monitor_config_changes"`
	Keybindings          *RawKeybindings `yaml:"keybindings"`
	Global               *RawRule        `yaml:"global"`
	WindowRules          []RawWindowRule `yaml:"window_rules"`
}

// merge applies overlay on top of base. Window rules from overlay are
// evaluated before those of base, so the including file wins first-match.
func (base RawConfig) merge(overlay RawConfig) RawConfig {
	out := base
	out.Include = nil

	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.MonitorConfigChanges != nil {
		out.MonitorConfigChanges = overlay.MonitorConfigChanges
	}
	if overlay.Keybindings != nil {
		kb := RawKeybindings{}
		if out.Keybindings != nil {
			kb = *out.Keybindings
		}
		if overlay.Keybindings.Reload != nil {
			kb.Reload = overlay.Keybindings.Reload
		}
		if overlay.Keybindings.OpenConfig != nil {
			kb.OpenConfig = overlay.Keybindings.OpenConfig
		}
		if overlay.Keybindings.Exit != nil {
			kb.Exit = overlay.Keybindings.Exit
		}
		out.Keybindings = &kb
	}
	if overlay.Global != nil {
		g := RawRule{}
		if out.Global != nil {
			g = *out.Global
		}
		g = g.merge(*overlay.Global)
		out.Global = &g
	}
	if len(overlay.WindowRules) > 0 {
		rules := make([]RawWindowRule, 0, len(overlay.WindowRules)+len(base.WindowRules))
		rules = append(rules, overlay.WindowRules...)
		rules = append(rules, base.WindowRules...)
		out.WindowRules = rules
	}
	return out
}

func (r RawRule) merge(o RawRule) RawRule {
	if o.Enabled != nil {
		r.Enabled = o.Enabled
	}
	if o.BorderWidth != nil {
		r.BorderWidth = o.BorderWidth
	}
	if o.BorderOffset != nil {
		r.BorderOffset = o.BorderOffset
	}
	if o.BorderStyle != nil {
		r.BorderStyle = o.BorderStyle
	}
	if o.ActiveColor != nil {
		r.ActiveColor = o.ActiveColor
	}
	if o.InactiveColor != nil {
		r.InactiveColor = o.InactiveColor
	}
	if o.Animations != nil {
		a := RawAnimations{}
		if r.Animations != nil {
			a = *r.Animations
		}
		if o.Animations.Enabled != nil {
			a.Enabled = o.Animations.Enabled
		}
		if o.Animations.FPS != nil {
			a.FPS = o.Animations.FPS
		}
		if o.Animations.Active != nil {
			a.Active = o.Animations.Active
		}
		if o.Animations.Inactive != nil {
			a.Inactive = o.Animations.Inactive
		}
		r.Animations = &a
	}
	if o.Effects != nil {
		e := RawEffects{}
		if r.Effects != nil {
			e = *r.Effects
		}
		if o.Effects.Enabled != nil {
			e.Enabled = o.Effects.Enabled
		}
		if o.Effects.Active != nil {
			e.Active = o.Effects.Active
		}
		if o.Effects.Inactive != nil {
			e.Inactive = o.Effects.Inactive
		}
		r.Effects = &e
	}
	if o.InitializeDelay != nil {
		r.InitializeDelay = o.InitializeDelay
	}
	if o.UnminimizeDelay != nil {
		r.UnminimizeDelay = o.UnminimizeDelay
	}
	return r
}
