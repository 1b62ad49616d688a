package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/bordertile/internal/ipc"
)

// borderItem implements list.Item for the border sidebar.
type borderItem struct {
	info ipc.BorderInfo
}

func (i borderItem) Title() string {
	prefix := "  "
	if i.info.Active {
		prefix = "* "
	}
	name := i.info.Class
	if name == "" {
		name = "(unknown)"
	}
	return fmt.Sprintf("%s0x%x %s", prefix, i.info.Window, name)
}

func (i borderItem) Description() string { return i.info.State }
func (i borderItem) FilterValue() string { return i.info.Class + " " + i.info.Title }

// BordersTab lists the daemon's live borders.
type BordersTab struct {
	list    list.Model
	borders []ipc.BorderInfo
	err     error

	width  int
	height int
	ready  bool
}

func NewBordersTab() BordersTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Borders"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return BordersTab{list: l}
}

// SetBorders replaces the listed borders, keeping the selection on the same
// window when it still exists.
func (bt *BordersTab) SetBorders(borders []ipc.BorderInfo, err error) {
	bt.err = err
	if err != nil {
		return
	}
	selected := bt.selected()
	bt.borders = borders

	items := make([]list.Item, 0, len(borders))
	index := 0
	for i, b := range borders {
		items = append(items, borderItem{info: b})
		if selected != nil && b.Window == selected.Window {
			index = i
		}
	}
	bt.list.SetItems(items)
	bt.list.Select(index)
}

func (bt BordersTab) selected() *ipc.BorderInfo {
	item, ok := bt.list.SelectedItem().(borderItem)
	if !ok {
		return nil
	}
	return &item.info
}

// Update implements tea.Model.
func (bt BordersTab) Update(msg tea.Msg) (BordersTab, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		bt.width = msg.Width
		bt.height = msg.Height
		bt.list.SetSize(sidebarWidth(bt.width), max(bt.height, 1))
		bt.ready = true
		return bt, nil
	}

	var cmd tea.Cmd
	bt.list, cmd = bt.list.Update(msg)
	return bt, cmd
}

// View implements tea.Model.
func (bt BordersTab) View() string {
	if !bt.ready || bt.width == 0 || bt.height == 0 {
		return ""
	}
	if bt.err != nil {
		return dimStyle.Width(bt.width).Height(bt.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("daemon unavailable: " + bt.err.Error())
	}
	sw := sidebarWidth(bt.width)
	return splitPane(bt.list.View(), sw, bt.renderDetail(), bt.height)
}

func (bt BordersTab) renderDetail() string {
	b := bt.selected()
	if b == nil {
		return dimStyle.Render(" no borders")
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf(" window 0x%x", b.Window)),
		"",
		field(" title", b.Title),
		field(" class", b.Class),
		field(" overlay", fmt.Sprintf("0x%x", b.Overlay)),
		field(" state", b.State),
		field(" visible", yesNo(b.Visible)),
		field(" focused", yesNo(b.Active)),
	}
	return strings.Join(lines, "\n")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
