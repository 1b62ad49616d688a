// Package runtimepath locates the per-user, per-display IPC socket.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SocketEnv overrides the computed socket path.
const SocketEnv = "BORDERTILE_SOCKET"

// Dir returns the runtime directory: $XDG_RUNTIME_DIR, then /run/user/<uid>
// when it exists, then a private directory under the system temp dir.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	runUser := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUser); err == nil && info.IsDir() {
		return runUser, nil
	}

	fallback := filepath.Join(os.TempDir(), fmt.Sprintf("bordertile-runtime-%d", uid))
	if err := os.MkdirAll(fallback, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return fallback, nil
}

// SocketPath returns the daemon socket for the current $DISPLAY, so daemons
// on different X servers of the same user do not collide.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName(os.Getenv("DISPLAY"))), nil
}

// socketName maps a display name to a socket file name. ":0" and ":0.0"
// share a socket since screens belong to one server.
func socketName(display string) string {
	if display == "" {
		return "bordertile.sock"
	}
	host, num, _ := strings.Cut(display, ":")
	num, _, _ = strings.Cut(num, ".")
	tag := num
	if host != "" {
		tag = strings.NewReplacer("/", "_", ":", "_").Replace(host) + "_" + num
	}
	return "bordertile-" + tag + ".sock"
}
