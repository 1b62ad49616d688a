package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/bordertile/internal/config"
	"github.com/1broseidon/bordertile/internal/ipc"
)

// refreshInterval is how often the dashboard polls the daemon.
const refreshInterval = 2 * time.Second

// refreshMsg triggers a daemon poll.
type refreshMsg struct{}

// daemonMsg carries the result of a poll.
type daemonMsg struct {
	status  *ipc.StatusData
	borders []ipc.BorderInfo
	err     error
}

// statusMsg is sent after an IPC action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	client     DaemonClient

	activeTab  Tab
	bordersTab BordersTab
	rulesTab   RulesTab

	status  *ipc.StatusData
	message string

	width  int
	height int
}

func newModel(configPath string, client DaemonClient) model {
	var cfg *config.Config
	var res *config.LoadResult
	var err error
	if configPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(configPath)
	}
	if err == nil {
		cfg = res.Config
	}

	return model{
		configPath: configPath,
		client:     client,
		activeTab:  TabBorders,
		bordersTab: NewBordersTab(),
		rulesTab:   NewRulesTab(cfg, err),
	}
}

func (m model) poll() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		status, err := client.GetStatus()
		if err != nil {
			return daemonMsg{err: err}
		}
		data, err := client.ListBorders()
		if err != nil {
			return daemonMsg{status: status, err: err}
		}
		return daemonMsg{status: status, borders: data.Borders}
	}
}

func (m model) reload() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.Reload(); err != nil {
			return statusMsg{text: "reload failed: " + err.Error()}
		}
		return statusMsg{text: "config reloaded"}
	}
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	return max(m.height-4, 1)
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.poll()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabBorders
			return m, nil
		case "2":
			m.activeTab = TabRules
			return m, nil
		case "r":
			return m, m.reload()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.bordersTab, _ = m.bordersTab.Update(sub)
		m.rulesTab, _ = m.rulesTab.Update(sub)
		return m, nil

	case refreshMsg:
		return m, m.poll()

	case daemonMsg:
		m.status = msg.status
		m.bordersTab.SetBorders(msg.borders, msg.err)
		return m, scheduleRefresh()

	case statusMsg:
		m.message = msg.text
		return m, tea.Batch(m.poll(), tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		}))

	case clearStatusMsg:
		m.message = ""
		return m, nil
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabBorders:
		m.bordersTab, cmd = m.bordersTab.Update(msg)
	case TabRules:
		m.rulesTab, cmd = m.rulesTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.message, m.width)

	var content string
	switch m.activeTab {
	case TabBorders:
		content = m.bordersTab.View()
	case TabRules:
		content = m.rulesTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
