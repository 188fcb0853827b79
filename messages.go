package main

// ─── Messages ────────────────────────────────────────────────────────────────
//
// All messages are internal to the Update loop. Async tea.Cmd functions
// (in commands.go) produce these; Update handles them. Messages with an
// `id` field use generation counters to ignore stale timers.

import "errors"

// planLoadedMsg replaces today's card collection.
type planLoadedMsg struct {
	items []planItem
}

type planLoadFailedMsg struct {
	err error
}

// taskUpdatedMsg confirms a single status change; the badge repaints only
// when this arrives.
type taskUpdatedMsg struct {
	taskID int
	status string
}

type taskUpdateFailedMsg struct {
	taskID int
	status string
	err    error
}

type reflectSavedMsg struct{}

type reflectFailedMsg struct {
	err error
}

// reflectStatusClearMsg clears the reflection form's inline status line.
type reflectStatusClearMsg struct {
	id int
}

type summaryLoadedMsg struct {
	summary reflectionSummary
	err     error
}

type analysisLoadedMsg struct {
	analysis analysisResult
	err      error
}

type weeklyLoadedMsg struct {
	review weeklyReview
	err    error
}

// weeklyRanMsg is the result of forcing weekly-review generation.
type weeklyRanMsg struct {
	review weeklyReview
	err    error
}

type planGeneratedMsg struct {
	created int
}

type planGenerateFailedMsg struct {
	err error
}

// errNoGoals distinguishes "nothing to plan for" from a transport failure.
var errNoGoals = errors.New("no goal to plan for")

// integrationLoadedMsg carries the stored calendar credential; integ is nil
// when none is configured yet.
type integrationLoadedMsg struct {
	integ *integration
	err   error
}

type integrationSavedMsg struct{}

type integrationSaveFailedMsg struct {
	err error
}

type freeMinutesMsg struct {
	minutes int
	err     error
}

type toastClearMsg struct {
	id int
}

// configUpdatedMsg is sent after the setup wizard completes.
type configUpdatedMsg struct{}

type errMsg struct {
	err error
}
