package main

import "testing"

func TestTransitionLegality(t *testing.T) {
	tests := []struct {
		status   string
		start    bool
		complete bool
	}{
		{statusPending, true, true},
		{statusDoing, false, true},
		{statusDone, false, false},
	}
	for _, tt := range tests {
		if got := canStart(tt.status); got != tt.start {
			t.Errorf("canStart(%q) = %v, want %v", tt.status, got, tt.start)
		}
		if got := canComplete(tt.status); got != tt.complete {
			t.Errorf("canComplete(%q) = %v, want %v", tt.status, got, tt.complete)
		}
	}
}

func TestClampMinutes(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{700, 600},
		{5, 15},
		{120, 120},
		{15, 15},
		{600, 600},
		{0, 15},
		{-30, 15},
	}
	for _, tt := range tests {
		if got := clampMinutes(tt.in); got != tt.want {
			t.Errorf("clampMinutes(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"45", 45},
		{" 45 ", 45},
		{"", defaultMinutes},
		{"soon", defaultMinutes},
		{"0", defaultMinutes},
		{"-10", defaultMinutes},
	}
	for _, tt := range tests {
		if got := parseMinutes(tt.in); got != tt.want {
			t.Errorf("parseMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFirstN(t *testing.T) {
	five := []string{"a", "b", "c", "d", "e"}
	if got := firstN(five, 3); len(got) != 3 || got[2] != "c" {
		t.Errorf("firstN(5, 3) = %v", got)
	}
	two := []string{"a", "b"}
	if got := firstN(two, 3); len(got) != 2 {
		t.Errorf("firstN(2, 3) = %v", got)
	}
	if got := firstN(nil, 3); got != nil {
		t.Errorf("firstN(nil, 3) = %v", got)
	}
}

func TestStatusIcon(t *testing.T) {
	if statusIcon(statusDoing) != "●" || statusIcon(statusDone) != "✓" || statusIcon(statusPending) != "○" {
		t.Error("unexpected badge glyphs")
	}
	if statusIcon("anything-else") != "○" {
		t.Error("unknown status should render as pending")
	}
}

func TestDueLabel(t *testing.T) {
	if dueLabel(nil) != "—" {
		t.Error("nil due should render a placeholder")
	}
	empty := ""
	if dueLabel(&empty) != "—" {
		t.Error("empty due should render a placeholder")
	}
	d := "2026-09-01"
	if dueLabel(&d) != "2026-09-01" {
		t.Error("due date should render as-is")
	}
}
