// Package tui is an interactive dashboard for the border daemon: live
// borders on one tab, the configured rules and their resolved settings on
// the other.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/bordertile/internal/ipc"
)

// DaemonClient is the part of the IPC client the dashboard uses.
type DaemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	ListBorders() (*ipc.BordersData, error)
	Reload() error
}

// Run starts the dashboard. It works as an offline rule browser when the
// daemon is not running.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(configPath, ipc.NewClient()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
