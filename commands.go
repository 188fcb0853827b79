package main

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ─── Backend ─────────────────────────────────────────────────────────────────

// backend is the seam between the Update loop and the productivity service.
// Every method returns a tea.Cmd that performs at most the named requests
// and delivers exactly one message. apiBackend talks HTTP; demoBackend
// (demo.go) serves canned data for --demo mode and tests.
type backend interface {
	loadPlan(minutes int) tea.Cmd
	setTaskStatus(taskID int, status string) tea.Cmd
	submitReflection(date string, mood int, text string) tea.Cmd
	loadSummary(days int) tea.Cmd
	loadAnalysis(days int) tea.Cmd
	loadWeekly() tea.Cmd
	runWeekly() tea.Cmd
	generatePlan() tea.Cmd
	loadIntegration() tea.Cmd
	saveIntegration(icsURL string) tea.Cmd
	loadFreeMinutes(dateStr, workStart, workEnd string) tea.Cmd
}

// ─── apiBackend ──────────────────────────────────────────────────────────────

type apiBackend struct {
	api *apiClient
}

func (b apiBackend) loadPlan(minutes int) tea.Cmd {
	return func() tea.Msg {
		items, err := b.api.planToday(minutes)
		if err != nil {
			return planLoadFailedMsg{err: err}
		}
		return planLoadedMsg{items: items}
	}
}

func (b apiBackend) setTaskStatus(taskID int, status string) tea.Cmd {
	return func() tea.Msg {
		out, err := b.api.updateTaskStatus(taskID, status)
		if err != nil {
			return taskUpdateFailedMsg{taskID: taskID, status: status, err: err}
		}
		return taskUpdatedMsg{taskID: taskID, status: out.Status}
	}
}

func (b apiBackend) submitReflection(date string, mood int, text string) tea.Cmd {
	return func() tea.Msg {
		if err := b.api.submitReflection(date, mood, text); err != nil {
			return reflectFailedMsg{err: err}
		}
		return reflectSavedMsg{}
	}
}

func (b apiBackend) loadSummary(days int) tea.Cmd {
	return func() tea.Msg {
		s, err := b.api.reflectionSummary(days)
		return summaryLoadedMsg{summary: s, err: err}
	}
}

func (b apiBackend) loadAnalysis(days int) tea.Cmd {
	return func() tea.Msg {
		a, err := b.api.analyzeReflections(days)
		return analysisLoadedMsg{analysis: a, err: err}
	}
}

func (b apiBackend) loadWeekly() tea.Cmd {
	return func() tea.Msg {
		r, err := b.api.weeklyReview()
		return weeklyLoadedMsg{review: r, err: err}
	}
}

func (b apiBackend) runWeekly() tea.Cmd {
	return func() tea.Msg {
		r, err := b.api.runWeeklyReview()
		return weeklyRanMsg{review: r, err: err}
	}
}

// generatePlan lists goals and runs plan generation for the first one. The
// goals endpoint returns newest first, so the first goal is the latest.
func (b apiBackend) generatePlan() tea.Cmd {
	return func() tea.Msg {
		goals, err := b.api.goals()
		if err != nil {
			return planGenerateFailedMsg{err: err}
		}
		if len(goals) == 0 {
			return planGenerateFailedMsg{err: errNoGoals}
		}
		res, err := b.api.runPlanGeneration(goals[0].ID)
		if err != nil {
			return planGenerateFailedMsg{err: err}
		}
		return planGeneratedMsg{created: res.CreatedCount}
	}
}

func (b apiBackend) loadIntegration() tea.Cmd {
	return func() tea.Msg {
		integ, err := b.api.fetchIntegration()
		return integrationLoadedMsg{integ: integ, err: err}
	}
}

func (b apiBackend) saveIntegration(icsURL string) tea.Cmd {
	return func() tea.Msg {
		if _, err := b.api.saveIntegration(icsURL); err != nil {
			return integrationSaveFailedMsg{err: err}
		}
		return integrationSavedMsg{}
	}
}

func (b apiBackend) loadFreeMinutes(dateStr, workStart, workEnd string) tea.Cmd {
	return func() tea.Msg {
		res, err := b.api.availableMinutes(dateStr, workStart, workEnd)
		return freeMinutesMsg{minutes: res.AvailableMinutes, err: err}
	}
}
