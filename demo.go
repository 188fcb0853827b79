package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }

func demoTasks() []planItem {
	tomorrow := time.Now().Add(24 * time.Hour).Format("2006-01-02")
	friday := time.Now().Add(72 * time.Hour).Format("2006-01-02")
	return []planItem{
		{TaskID: 101, GoalID: 7, TaskTitle: "Outline chapter 3", Status: statusPending, Impact: 5, EffortMin: 45, Due: strp(tomorrow), Score: 8.2, CoachLine: "Start with the section headings, polish later."},
		{TaskID: 102, GoalID: 7, TaskTitle: "Collect interview notes", Status: statusDoing, Impact: 4, EffortMin: 30, Due: strp(tomorrow), Score: 6.9, CoachLine: "Twenty minutes of skimming beats an hour of dread."},
		{TaskID: 103, GoalID: 7, TaskTitle: "Draft abstract", Status: statusPending, Impact: 3, EffortMin: 25, Due: strp(friday), Score: 5.4, CoachLine: "A bad first draft is still a draft."},
		{TaskID: 104, GoalID: 7, TaskTitle: "Email reviewers", Status: statusDone, Impact: 2, EffortMin: 15, Score: 3.1, CoachLine: "Short and specific wins replies."},
	}
}

func demoSummary() reflectionSummary {
	yesterday := time.Now().Add(-24 * time.Hour).Format("2006-01-02")
	return reflectionSummary{
		Days:       7,
		Count:      5,
		AvgMood:    f64p(3.6),
		LatestText: strp("Good focus in the morning, faded after lunch."),
		LatestDate: strp(yesterday),
	}
}

func demoAnalysis() analysisResult {
	return analysisResult{
		Days:    7,
		Count:   5,
		Summary: "Mornings are your reliable deep-work window; afternoons drift.",
		Improvements: []string{
			"Schedule the hardest task before noon",
			"Batch email into one afternoon slot",
			"Stop at a named next step each evening",
		},
	}
}

func demoWeekly() weeklyReview {
	now := time.Now()
	monday := now.Add(-6 * 24 * time.Hour).Format("2006-01-02")
	sunday := now.Format("2006-01-02")
	return weeklyReview{
		Exists:  true,
		Summary: strp("Steady progress on the writing goal; energy dipped midweek."),
		Improvements: []string{
			"Protect Wednesday from meetings",
			"Keep the morning writing block",
		},
		Date:  strp(sunday),
		Range: &weekRange{Start: monday, End: sunday},
		Count: 5,
	}
}

// ─── demoBackend ─────────────────────────────────────────────────────────────

// demoBackend implements backend entirely in memory: no network, every
// operation succeeds. Task status changes mutate the shared task slice so
// reloads observe them, like the real server would.
type demoBackend struct {
	tasks *[]planItem // points to model.demo.tasks
}

func (b demoBackend) loadPlan(minutes int) tea.Cmd {
	tasks := make([]planItem, len(*b.tasks))
	copy(tasks, *b.tasks)
	return func() tea.Msg {
		return planLoadedMsg{items: tasks}
	}
}

func (b demoBackend) setTaskStatus(taskID int, status string) tea.Cmd {
	tasks := *b.tasks
	return func() tea.Msg {
		for i, t := range tasks {
			if t.TaskID == taskID {
				tasks[i].Status = status
				break
			}
		}
		return taskUpdatedMsg{taskID: taskID, status: status}
	}
}

func (b demoBackend) submitReflection(date string, mood int, text string) tea.Cmd {
	return func() tea.Msg { return reflectSavedMsg{} }
}

func (b demoBackend) loadSummary(days int) tea.Cmd {
	return func() tea.Msg { return summaryLoadedMsg{summary: demoSummary()} }
}

func (b demoBackend) loadAnalysis(days int) tea.Cmd {
	return func() tea.Msg { return analysisLoadedMsg{analysis: demoAnalysis()} }
}

func (b demoBackend) loadWeekly() tea.Cmd {
	return func() tea.Msg { return weeklyLoadedMsg{review: demoWeekly()} }
}

func (b demoBackend) runWeekly() tea.Cmd {
	return func() tea.Msg { return weeklyRanMsg{review: demoWeekly()} }
}

func (b demoBackend) generatePlan() tea.Cmd {
	return func() tea.Msg { return planGeneratedMsg{created: 3} }
}

func (b demoBackend) loadIntegration() tea.Cmd {
	return func() tea.Msg {
		return integrationLoadedMsg{integ: &integration{Kind: icsKind, Value: "https://calendar.example/demo.ics"}}
	}
}

func (b demoBackend) saveIntegration(icsURL string) tea.Cmd {
	return func() tea.Msg { return integrationSavedMsg{} }
}

func (b demoBackend) loadFreeMinutes(dateStr, workStart, workEnd string) tea.Cmd {
	return func() tea.Msg { return freeMinutesMsg{minutes: 240} }
}

// ─── Demo Mode ───────────────────────────────────────────────────────────────

func (m *model) enterDemoMode() tea.Cmd {
	m.demo.active = true
	m.demo.tasks = demoTasks()
	m.store = demoBackend{tasks: &m.demo.tasks}
	clear(m.inflight)
	m.alert = ""
	m.clearToast()
	return tea.Batch(
		m.store.loadPlan(m.minutes),
		m.store.loadSummary(m.cfg.ReflectDays),
		m.store.loadAnalysis(m.cfg.ReflectDays),
		m.store.loadWeekly(),
	)
}

func (m *model) exitDemoMode() tea.Cmd {
	m.demo.active = false
	m.demo.tasks = nil
	m.store = apiBackend{api: m.api}
	clear(m.inflight)
	m.alert = ""
	m.clearToast()
	return tea.Batch(
		m.store.loadPlan(m.minutes),
		m.store.loadSummary(m.cfg.ReflectDays),
		m.store.loadAnalysis(m.cfg.ReflectDays),
		m.store.loadWeekly(),
	)
}
