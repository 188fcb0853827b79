package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ─── Custom Delegate ─────────────────────────────────────────────────────────

var (
	doingStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	doneStyle    = lipgloss.NewStyle().Foreground(colorDim)
	pendingStyle = lipgloss.NewStyle().Foreground(colorYellow)
	metaStyle    = lipgloss.NewStyle().Foreground(colorDim)
	scoreStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	keyHintStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	offHintStyle = lipgloss.NewStyle().Foreground(colorDim)
	selectedBar  = lipgloss.NewStyle().Foreground(colorAccent).SetString("│ ")
	normalBar    = lipgloss.NewStyle().SetString("  ")
)

// taskDelegate renders a task card as two lines: badge, title and score on
// the first; effort, due date, coach line and action affordances on the
// second. The shared inflight map dims an affordance while its own request
// is outstanding.
type taskDelegate struct {
	inflight map[int]bool
}

func (d taskDelegate) Height() int                             { return 2 }
func (d taskDelegate) Spacing() int                            { return 1 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	t, ok := item.(planItem)
	if !ok {
		return
	}

	bar := normalBar
	if index == m.Index() {
		bar = selectedBar
	}

	maxW := m.Width() - 3 // -2 for bar prefix, -1 for right padding
	if maxW < 10 {
		maxW = 10
	}

	var badge string
	switch t.Status {
	case statusDoing:
		badge = doingStyle.Render(statusIcon(t.Status))
	case statusDone:
		badge = doneStyle.Render(statusIcon(t.Status))
	default:
		badge = pendingStyle.Render(statusIcon(t.Status))
	}

	score := scoreStyle.Render(fmt.Sprintf("%.1f", t.Score))
	scoreW := lipgloss.Width(score)

	titleAvail := maxW - 2 - scoreW - 1 // badge + space, score + gap
	title := truncateForWidth(t.TaskTitle, titleAvail)
	titleStyled := title
	if t.Status == statusDone {
		titleStyled = doneStyle.Render(title)
	}
	pad := ""
	if gap := titleAvail - lipgloss.Width(title); gap > 0 {
		pad = strings.Repeat(" ", gap)
	}
	line1 := fmt.Sprintf("%s%s %s%s %s", bar, badge, titleStyled, pad, score)

	// Second line: meta plus affordances, legality-aware.
	meta := fmt.Sprintf("i%d · %s · due %s", t.Impact, effortLabel(t.EffortMin), dueLabel(t.Due))
	busy := d.inflight[t.TaskID]
	start := affordance("s start", canStart(t.Status) && !busy)
	complete := affordance("d done", canComplete(t.Status) && !busy)
	hints := start + offHintStyle.Render("  ") + complete

	coach := t.CoachLine
	metaAvail := maxW - 2 - lipgloss.Width(hints) - 3
	left := meta
	if coach != "" {
		left = meta + " · " + coach
	}
	left = truncateForWidth(left, metaAvail)
	pad2 := ""
	if gap := metaAvail - lipgloss.Width(left); gap > 0 {
		pad2 = strings.Repeat(" ", gap)
	}
	line2 := fmt.Sprintf("%s  %s%s   %s", normalBar.String(), metaStyle.Render(left), pad2, hints)

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

// affordance renders a key hint, dimmed when the action is not currently
// legal for this card.
func affordance(label string, enabled bool) string {
	if enabled {
		parts := strings.SplitN(label, " ", 2)
		return keyHintStyle.Render(parts[0]) + offHintStyle.Render(" "+parts[1])
	}
	return offHintStyle.Render(label)
}
