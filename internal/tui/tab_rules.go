package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/bordertile/internal/colors"
	"github.com/1broseidon/bordertile/internal/config"
)

// ruleItem implements list.Item for the rule sidebar. index is -1 for the
// global rule.
type ruleItem struct {
	index int
	label string
	rule  config.Rule
}

func (i ruleItem) Title() string       { return i.label }
func (i ruleItem) Description() string { return "" }
func (i ruleItem) FilterValue() string { return i.label }

// RulesTab shows the global rule and every window rule with the settings
// they resolve to.
type RulesTab struct {
	list list.Model
	cfg  *config.Config
	err  error

	width  int
	height int
	ready  bool
}

func NewRulesTab(cfg *config.Config, loadErr error) RulesTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(buildRuleItems(cfg), delegate, 0, 0)
	l.Title = "Rules"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return RulesTab{list: l, cfg: cfg, err: loadErr}
}

func buildRuleItems(cfg *config.Config) []list.Item {
	if cfg == nil {
		return nil
	}
	items := make([]list.Item, 0, len(cfg.WindowRules)+1)
	items = append(items, ruleItem{index: -1, label: "global", rule: cfg.Global})
	for i, wr := range cfg.WindowRules {
		items = append(items, ruleItem{
			index: i,
			label: fmt.Sprintf("%d: %s %s %q", i, wr.Match.Kind, wr.Match.Strategy, wr.Match.Value),
			rule:  wr.Effective(cfg.Global),
		})
	}
	return items
}

// Update implements tea.Model.
func (rt RulesTab) Update(msg tea.Msg) (RulesTab, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		rt.width = msg.Width
		rt.height = msg.Height
		rt.list.SetSize(sidebarWidth(rt.width), max(rt.height, 1))
		rt.ready = true
		return rt, nil
	}

	var cmd tea.Cmd
	rt.list, cmd = rt.list.Update(msg)
	return rt, cmd
}

// View implements tea.Model.
func (rt RulesTab) View() string {
	if !rt.ready || rt.width == 0 || rt.height == 0 {
		return ""
	}
	if rt.err != nil {
		return warnStyle.Width(rt.width).Render("config error: " + rt.err.Error())
	}
	return splitPane(rt.list.View(), sidebarWidth(rt.width), rt.renderDetail(), rt.height)
}

func (rt RulesTab) renderDetail() string {
	item, ok := rt.list.SelectedItem().(ruleItem)
	if !ok {
		return ""
	}
	return renderRule(item.label, item.rule)
}

// renderRule shows the settings a rule resolves to. The accent keyword uses
// the default accent since the desktop is not consulted here.
func renderRule(label string, r config.Rule) string {
	s, warnings := r.Settings(nil)

	lines := []string{
		titleStyle.Render(" " + label),
		"",
		field(" enabled", yesNo(s.Enabled)),
		field(" width / offset", fmt.Sprintf("%d / %d", s.Width, s.Offset)),
		field(" style", s.Style.String()),
		field(" active color", swatches(&s.ActiveColor)),
		field(" inactive color", swatches(&s.InactiveColor)),
		field(" animations", animationSummary(r.Animations)),
		field(" effects", effectSummary(r.Effects)),
		field(" delays", fmt.Sprintf("init %dms, unminimize %dms", r.InitializeDelay, r.UnminimizeDelay)),
	}
	if len(warnings) > 0 {
		lines = append(lines, "")
		for _, w := range warnings {
			lines = append(lines, warnStyle.Render(" ! "+w))
		}
	}
	return strings.Join(lines, "\n")
}

// swatches renders a colored block per gradient stop, or one for a solid.
func swatches(p *colors.Paint) string {
	stops := []colors.Color{p.Color()}
	if p.IsGradient() {
		stops = stops[:0]
		for _, s := range p.Stops() {
			stops = append(stops, s.Color)
		}
	}

	parts := make([]string, 0, len(stops))
	for _, c := range stops {
		hex := c.Hex()
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██")+" "+hex)
	}
	out := strings.Join(parts, "  ")
	if p.Animated() {
		out += dimStyle.Render("  (animated)")
	}
	return out
}

func animationSummary(a config.Animations) string {
	if !a.Enabled {
		return "disabled"
	}
	kinds := func(entries []config.AnimationEntry) string {
		if len(entries) == 0 {
			return "none"
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Kind)
		}
		return strings.Join(names, ",")
	}
	return fmt.Sprintf("active %s; inactive %s @%dfps", kinds(a.Active), kinds(a.Inactive), a.FPS)
}

func effectSummary(e config.Effects) string {
	if !e.Enabled {
		return "disabled"
	}
	kinds := func(entries []config.EffectEntry) string {
		if len(entries) == 0 {
			return "none"
		}
		names := make([]string, 0, len(entries))
		for _, x := range entries {
			names = append(names, x.Kind)
		}
		return strings.Join(names, ",")
	}
	return fmt.Sprintf("active %s; inactive %s", kinds(e.Active), kinds(e.Inactive))
}
