package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ─── Task Status ─────────────────────────────────────────────────────────────

// Server-side task statuses. Transitions are monotone: pending → doing →
// done, and done is terminal.
const (
	statusPending = "pending"
	statusDoing   = "doing"
	statusDone    = "done"
)

// canStart reports whether a task may move to doing. Only pending tasks
// start; starting a doing task would be a no-op PATCH and starting a done
// task would regress it.
func canStart(status string) bool {
	return status == statusPending
}

// canComplete reports whether a task may move to done. Completing is legal
// from pending (skip the doing stage) and from doing.
func canComplete(status string) bool {
	return status != statusDone
}

func statusIcon(status string) string {
	switch status {
	case statusDoing:
		return "●"
	case statusDone:
		return "✓"
	default:
		return "○"
	}
}

// ─── list.Item ───────────────────────────────────────────────────────────────

func (p planItem) Title() string       { return p.TaskTitle }
func (p planItem) Description() string { return p.CoachLine }
func (p planItem) FilterValue() string { return p.TaskTitle }

// ─── Helpers ─────────────────────────────────────────────────────────────────

const (
	minMinutes     = 15
	maxMinutes     = 600
	defaultMinutes = 90
)

// clampMinutes bounds a calendar-derived minutes value to a sane planning
// window.
func clampMinutes(min int) int {
	if min < minMinutes {
		return minMinutes
	}
	if min > maxMinutes {
		return maxMinutes
	}
	return min
}

// parseMinutes parses a user-entered minutes budget, falling back to the
// default on blank or non-numeric input.
func parseMinutes(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return defaultMinutes
	}
	return n
}

// firstN returns at most n leading elements without copying.
func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func todayISO() string {
	return time.Now().Format("2006-01-02")
}

func dueLabel(due *string) string {
	if due == nil || *due == "" {
		return "—"
	}
	return *due
}

func effortLabel(min int) string {
	return fmt.Sprintf("%dm", min)
}
