package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/bordertile/internal/config"
	"github.com/1broseidon/bordertile/internal/ipc"
)

type fakeClient struct {
	status    *ipc.StatusData
	borders   []ipc.BorderInfo
	err       error
	reloadErr error
	reloads   int
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.status, nil
}

func (f *fakeClient) ListBorders() (*ipc.BordersData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.BordersData{Borders: f.borders}, nil
}

func (f *fakeClient) Reload() error {
	f.reloads++
	return f.reloadErr
}

const testConfig = `
global:
  border_width: 6
  active_color: "#ff0000"
  inactive_color:
    colors: ["#000000", "#ffffff"]
    direction: to bottom
window_rules:
  - match: {kind: class, value: firefox, strategy: equals}
    border_width: 2
    inactive_color: notacolor
`

func newTestModel(t *testing.T, client DaemonClient) model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	m := newModel(path, client)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(model)
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_TabSwitching(t *testing.T) {
	m := newTestModel(t, &fakeClient{})

	tests := []struct {
		key  string
		want Tab
	}{
		{"tab", TabRules},
		{"tab", TabBorders},
		{"shift+tab", TabRules},
		{"1", TabBorders},
		{"2", TabRules},
	}
	for _, tt := range tests {
		m, _ = update(t, m, key(tt.key))
		if m.activeTab != tt.want {
			t.Fatalf("after %q expected tab %v, got %v", tt.key, tt.want, m.activeTab)
		}
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	for _, k := range []string{"q", "ctrl+c"} {
		_, cmd := update(t, m, key(k))
		if cmd == nil {
			t.Fatalf("expected quit command for %q", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected tea.QuitMsg for %q", k)
		}
	}
}

func TestModel_PollPopulatesBorders(t *testing.T) {
	client := &fakeClient{
		status: &ipc.StatusData{DaemonRunning: true, BorderCount: 2, VisibleCount: 1, ActiveWindow: 0x20},
		borders: []ipc.BorderInfo{
			{Window: 0x10, Overlay: 0x900, State: "hidden", Class: "xterm"},
			{Window: 0x20, Overlay: 0x901, State: "visible", Visible: true, Active: true, Class: "firefox", Title: "Mozilla"},
		},
	}
	m := newTestModel(t, client)

	msg := m.poll()()
	m, cmd := update(t, m, msg)
	if cmd == nil {
		t.Fatalf("expected a scheduled refresh after poll")
	}
	if m.status == nil || m.status.BorderCount != 2 {
		t.Fatalf("expected status with 2 borders, got %+v", m.status)
	}
	if got := len(m.bordersTab.list.Items()); got != 2 {
		t.Fatalf("expected 2 list items, got %d", got)
	}

	view := m.View()
	for _, want := range []string{"daemon connected", "borders:2", "xterm", "firefox"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}
}

func TestBordersTab_KeepsSelection(t *testing.T) {
	bt := NewBordersTab()
	bt, _ = bt.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	bt.SetBorders([]ipc.BorderInfo{{Window: 1}, {Window: 2}, {Window: 3}}, nil)
	bt.list.Select(2)

	bt.SetBorders([]ipc.BorderInfo{{Window: 3}, {Window: 4}}, nil)
	if got := bt.selected(); got == nil || got.Window != 3 {
		t.Fatalf("expected selection to stay on window 3, got %+v", got)
	}
}

func TestModel_DaemonDown(t *testing.T) {
	m := newTestModel(t, &fakeClient{err: errors.New("connection refused")})
	m, _ = update(t, m, m.poll()())

	view := m.View()
	if !strings.Contains(view, "daemon not running") {
		t.Fatalf("expected status bar to report the daemon down")
	}
	if !strings.Contains(view, "daemon unavailable") {
		t.Fatalf("expected borders tab to report the error")
	}
}

func TestModel_Reload(t *testing.T) {
	client := &fakeClient{status: &ipc.StatusData{DaemonRunning: true}}
	m := newTestModel(t, client)

	_, cmd := update(t, m, key("r"))
	if cmd == nil {
		t.Fatalf("expected reload command")
	}
	msg, ok := cmd().(statusMsg)
	if !ok {
		t.Fatalf("expected statusMsg from reload")
	}
	if client.reloads != 1 {
		t.Fatalf("expected 1 reload, got %d", client.reloads)
	}
	if msg.text != "config reloaded" {
		t.Fatalf("expected %q, got %q", "config reloaded", msg.text)
	}

	m, _ = update(t, m, msg)
	if !strings.Contains(m.View(), "config reloaded") {
		t.Fatalf("expected message in help bar")
	}
	m, _ = update(t, m, clearStatusMsg{})
	if m.message != "" {
		t.Fatalf("expected message cleared, got %q", m.message)
	}

	client.reloadErr = errors.New("boom")
	_, cmd = update(t, m, key("r"))
	if got := cmd().(statusMsg).text; got != "reload failed: boom" {
		t.Fatalf("expected failure message, got %q", got)
	}
}

func TestRulesTab_ShowsResolvedRules(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m, _ = update(t, m, key("2"))

	items := m.rulesTab.list.Items()
	if len(items) != 2 {
		t.Fatalf("expected global plus 1 window rule, got %d", len(items))
	}
	wr := items[1].(ruleItem)
	if wr.rule.BorderWidth != 2 {
		t.Fatalf("expected window rule width 2, got %d", wr.rule.BorderWidth)
	}
	if wr.rule.ActiveColor.String() != "#ff0000" {
		t.Fatalf("expected inherited active color, got %q", wr.rule.ActiveColor.String())
	}

	view := m.View()
	for _, want := range []string{"global", "#ff0000", "#000000", "#ffffff"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected rules view to contain %q", want)
		}
	}

	detail := renderRule(wr.label, wr.rule)
	if !strings.Contains(detail, "inactive_color") {
		t.Fatalf("expected inactive_color warning in detail, got:\n%s", detail)
	}
}

func TestRulesTab_LoadError(t *testing.T) {
	rt := NewRulesTab(nil, errors.New("bad yaml"))
	rt, _ = rt.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if !strings.Contains(rt.View(), "config error: bad yaml") {
		t.Fatalf("expected config error in view")
	}
	if len(rt.list.Items()) != 0 {
		t.Fatalf("expected no items without config")
	}
}

func TestBuildRuleItems_Default(t *testing.T) {
	items := buildRuleItems(config.DefaultConfig())
	if len(items) != 1 {
		t.Fatalf("expected only the global rule, got %d", len(items))
	}
	if items[0].(ruleItem).index != -1 {
		t.Fatalf("expected global rule index -1")
	}
}

func TestSidebarWidth(t *testing.T) {
	tests := []struct {
		width, want int
	}{
		{40, 20},
		{100, 35},
		{200, 40},
	}
	for _, tt := range tests {
		if got := sidebarWidth(tt.width); got != tt.want {
			t.Fatalf("sidebarWidth(%d): expected %d, got %d", tt.width, tt.want, got)
		}
	}
}
