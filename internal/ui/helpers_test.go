package ui

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer string", 8, "a lon..."},
		{"abc", 2, "ab"},
		{"ração", 4, "r..."},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	got := truncateMiddle("/home/user/.local/state/koi/koi.log", 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("truncateMiddle length = %d, want 20 (%q)", len([]rune(got)), got)
	}
	if got[len(got)-7:] != "koi.log" {
		t.Fatalf("truncateMiddle = %q, want the file name kept", got)
	}
	if got := truncateMiddle("short", 20); got != "short" {
		t.Fatalf("truncateMiddle(short) = %q, want %q", got, "short")
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct {
		cursor, n, want int
	}{
		{0, 0, 0},
		{-1, 3, 0},
		{1, 3, 1},
		{5, 3, 2},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.cursor, tt.n); got != tt.want {
			t.Fatalf("clampCursor(%d, %d) = %d, want %d", tt.cursor, tt.n, got, tt.want)
		}
	}
}

func TestNextScreenWraps(t *testing.T) {
	if got := nextScreen(ScreenHome, -1); got != ScreenLogs {
		t.Fatalf("nextScreen(Home, -1) = %v, want %v", got, ScreenLogs)
	}
	if got := nextScreen(ScreenLogs, 1); got != ScreenHome {
		t.Fatalf("nextScreen(Logs, 1) = %v, want %v", got, ScreenHome)
	}
	if got := nextScreen(ScreenSchedules, 1); got != ScreenHistory {
		t.Fatalf("nextScreen(Schedules, 1) = %v, want %v", got, ScreenHistory)
	}
}

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("dial tcp: connect: connection refused"), "OFFLINE"},
		{errors.New("dial tcp: lookup alimentador.local: no such host"), "HOST NOT FOUND"},
		{fmt.Errorf("execute request: %w", context.DeadlineExceeded), "TIMEOUT"},
		{errors.New("GET /status returned status 500"), "DEVICE ERROR"},
		{errors.New("boom"), "ERROR"},
	}
	for _, tt := range tests {
		if got := classifyConnectionError(tt.err); got != tt.want {
			t.Fatalf("classifyConnectionError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestSignalBars(t *testing.T) {
	if got := signalBars(3); got != "▮▮▮▯" {
		t.Fatalf("signalBars(3) = %q, want %q", got, "▮▮▮▯")
	}
}
