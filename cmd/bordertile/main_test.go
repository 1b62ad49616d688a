package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/bordertile/internal/config"
	"github.com/1broseidon/bordertile/internal/ipc"
)

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceDefault, Name: "global"}, "default:global"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestWriteBorders_PlainAndTable(t *testing.T) {
	borders := []ipc.BorderInfo{
		{Window: 0x2a, Overlay: 0x400001, State: "active", Visible: true, Active: true, Class: "firefox", Title: "Mozilla Firefox"},
	}

	var plain bytes.Buffer
	writeBorders(&plain, borders, false)
	if got := plain.String(); got != "0x2a\t0x400001\tactive\ttrue\ttrue\tfirefox\tMozilla Firefox\n" {
		t.Fatalf("unexpected plain output %q", got)
	}

	var table bytes.Buffer
	writeBorders(&table, borders, true)
	lines := strings.Split(strings.TrimSpace(table.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "WINDOW") || !strings.Contains(lines[1], "*") {
		t.Fatalf("unexpected table output %q", table.String())
	}

	var empty bytes.Buffer
	writeBorders(&empty, nil, true)
	if !strings.Contains(empty.String(), "(no borders)") {
		t.Fatalf("expected empty marker, got %q", empty.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected unchanged string, got %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("expected truncated string, got %q", got)
	}
}
