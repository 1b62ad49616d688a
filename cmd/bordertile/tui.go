package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/bordertile/internal/tui"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/bordertile/config.yaml)")

	if len(args) > 0 && isHelp(args[0]) {
		fmt.Fprintln(os.Stderr, "Usage: bordertile tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive dashboard for live borders and configured rules.")
		fmt.Fprintln(os.Stderr, "Works as an offline rule browser when the daemon is not running.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓       Navigate")
		fmt.Fprintln(os.Stderr, "  tab, 1/2       Switch tabs")
		fmt.Fprintln(os.Stderr, "  r              Reload daemon config")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C      Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
