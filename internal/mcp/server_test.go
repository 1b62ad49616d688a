package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/bordertile/internal/ipc"
)

type fakeDaemon struct {
	reloads   int
	reloadErr error
	statusErr error
	borders   []ipc.BorderInfo
}

func (d *fakeDaemon) Reload() error {
	d.reloads++
	return d.reloadErr
}

func (d *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if d.statusErr != nil {
		return nil, d.statusErr
	}
	return &ipc.StatusData{
		BorderCount:   len(d.borders),
		VisibleCount:  1,
		ActiveWindow:  0x2a,
		ConfigPath:    "/home/u/.config/bordertile/config.yaml",
		UptimeSeconds: 90,
		DaemonRunning: true,
	}, nil
}

func (d *fakeDaemon) ListBorders() (*ipc.BordersData, error) {
	return &ipc.BordersData{Borders: d.borders}, nil
}

func (d *fakeDaemon) GetMonitors() (*ipc.MonitorsData, error) {
	return &ipc.MonitorsData{Monitors: []ipc.MonitorInfo{{
		ID: 1, Name: "HDMI-1", Width: 1920, Height: 1080,
		UsableX: 48, UsableWidth: 1872, UsableHeight: 1080,
	}}}, nil
}

func testBorders() []ipc.BorderInfo {
	return []ipc.BorderInfo{
		{Window: 0x2a, Overlay: 0x400001, State: "active", Visible: true, Active: true, Class: "Firefox"},
		{Window: 0x2b, Overlay: 0x400002, State: "paused", Class: "kitty"},
	}
}

func TestListBorders_Filters(t *testing.T) {
	s := NewServer(&fakeDaemon{borders: testBorders()})

	tests := []struct {
		name  string
		args  ListBordersInput
		want  int
		first string
	}{
		{"all", ListBordersInput{}, 2, "0x2a"},
		{"visible only", ListBordersInput{VisibleOnly: true}, 1, "0x2a"},
		{"class substring", ListBordersInput{Class: "KIT"}, 1, "0x2b"},
		{"no match", ListBordersInput{Class: "emacs"}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := s.handleListBorders(context.Background(), nil, tt.args)
			if err != nil {
				t.Fatalf("list borders: %v", err)
			}
			if out.Count != tt.want || len(out.Borders) != tt.want {
				t.Fatalf("expected %d borders, got %d", tt.want, out.Count)
			}
			if tt.want > 0 && out.Borders[0].Window != tt.first {
				t.Fatalf("expected first window %s, got %s", tt.first, out.Borders[0].Window)
			}
		})
	}
}

func TestReloadBorders_ReportsCountAndErrors(t *testing.T) {
	d := &fakeDaemon{borders: testBorders()}
	s := NewServer(d)

	res, out, err := s.handleReloadBorders(context.Background(), nil, ReloadBordersInput{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !out.Reloaded || out.BorderCount != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok || !strings.Contains(text.Text, "2 borders") {
		t.Fatalf("unexpected content %+v", res.Content)
	}

	d.reloadErr = errors.New("daemon error: bad yaml")
	if _, _, err := s.handleReloadBorders(context.Background(), nil, ReloadBordersInput{}); err == nil {
		t.Fatalf("expected reload error")
	}
	if d.reloads != 2 {
		t.Fatalf("expected 2 reloads, got %d", d.reloads)
	}
}

func TestDaemonStatus_StoppedDaemonIsNotAToolError(t *testing.T) {
	s := NewServer(&fakeDaemon{statusErr: errors.New("failed to connect to daemon")})
	_, out, err := s.handleDaemonStatus(context.Background(), nil, DaemonStatusInput{})
	if err != nil {
		t.Fatalf("expected no tool error, got %v", err)
	}
	if out.Running || !strings.Contains(out.Error, "failed to connect") {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestDaemonStatus_Running(t *testing.T) {
	s := NewServer(&fakeDaemon{borders: testBorders()})
	_, out, err := s.handleDaemonStatus(context.Background(), nil, DaemonStatusInput{})
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !out.Running || out.BorderCount != 2 || out.ActiveWindow != "0x2a" || out.UptimeSeconds != 90 {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestListMonitors(t *testing.T) {
	s := NewServer(&fakeDaemon{})
	_, out, err := s.handleListMonitors(context.Background(), nil, ListMonitorsInput{})
	if err != nil {
		t.Fatalf("monitors: %v", err)
	}
	if len(out.Monitors) != 1 || out.Monitors[0].Name != "HDMI-1" {
		t.Fatalf("unexpected monitors %+v", out.Monitors)
	}
	if m := out.Monitors[0]; m.UsableX != 48 || m.UsableWidth != 1872 || m.UsableHeight != 1080 {
		t.Fatalf("expected usable area to pass through, got %+v", m)
	}
}
