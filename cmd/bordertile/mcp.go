package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/bordertile/internal/ipc"
	"github.com/1broseidon/bordertile/internal/mcp"
	"github.com/1broseidon/bordertile/internal/runtimepath"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bordertile mcp serve")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Serve the Model Context Protocol on stdio. Every tool is answered by the")
	fmt.Fprintln(w, "running daemon over its IPC socket:")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  list_borders     Live borders, optionally filtered by class")
	fmt.Fprintln(w, "  reload_borders   Reload config and recreate borders")
	fmt.Fprintln(w, "  daemon_status    Border counts, active window and uptime")
	fmt.Fprintln(w, "  list_monitors    Monitor geometry")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Set %s to target a daemon on another socket.\n", runtimepath.SocketEnv)
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		if len(args) > 1 {
			if isHelp(args[1]) {
				printMCPUsage(os.Stdout)
				return 0
			}
			fmt.Fprintf(os.Stderr, "mcp serve takes no arguments, got %q\n", args[1])
			return 2
		}
		return serveMCP()
	default:
		if isHelp(args[0]) {
			printMCPUsage(os.Stdout)
			return 0
		}
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func serveMCP() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := mcp.NewServer(ipc.NewClient()).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "mcp server: %v\n", err)
		return 1
	}
	return 0
}

func isHelp(arg string) bool {
	return arg == "help" || arg == "-h" || arg == "--help"
}
