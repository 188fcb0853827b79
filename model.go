package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ─── Key Map ─────────────────────────────────────────────────────────────────

type keyMap struct {
	Navigate   key.Binding
	SwitchPane key.Binding
	Start      key.Binding
	Complete   key.Binding
	Reload     key.Binding
	Minutes    key.Binding
	Generate   key.Binding
	Reflect    key.Binding
	Calendar   key.Binding
	FreeTime   key.Binding
	CopyURL    key.Binding
	Analysis   key.Binding
	Weekly     key.Binding
	RunWeekly  key.Binding
	ScrollDown key.Binding
	ScrollUp   key.Binding
	Help       key.Binding
	Settings   key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Demo       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Navigate:   key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "navigate / scroll")),
		SwitchPane: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch pane")),
		Start:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start task")),
		Complete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "complete task")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload plan")),
		Minutes:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minutes budget")),
		Generate:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate plan")),
		Reflect:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "write reflection")),
		Calendar:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "set calendar URL")),
		FreeTime:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "use free calendar time")),
		CopyURL:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy task URL")),
		Analysis:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "reload analysis")),
		Weekly:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "reload weekly review")),
		RunWeekly:  key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "generate weekly review")),
		ScrollDown: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "page down")),
		ScrollUp:   key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "page up")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Settings:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
		Demo:       key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "demo mode")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Complete, k.Reflect, k.FreeTime, k.Generate, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Actions
		{k.Start, k.Complete, k.Reload, k.Minutes, k.Generate, k.Reflect, k.Calendar, k.FreeTime, k.CopyURL, k.RunWeekly},
		// Navigation / app
		{k.Navigate, k.SwitchPane, k.ScrollDown, k.ScrollUp, k.Analysis, k.Weekly, k.Help, k.Settings, k.Demo, k.Quit},
	}
}

// ─── Model ───────────────────────────────────────────────────────────────────

const toastTimeout = 3 * time.Second

// formStatusTimeout matches the fixed clear delay of the reflection form's
// inline status line.
const formStatusTimeout = 2 * time.Second

type pane int

const (
	listPane pane = iota
	insightsPane
)

type promptKind int

const (
	promptNone promptKind = iota
	promptMinutes
	promptICS
)

type demoState struct {
	active bool
	tasks  []planItem
}

type statusBarState struct {
	text    string
	id      int
	spinner spinner.Model
}

// reflectForm is the modal reflection entry form: date, mood 1-5 and free
// text, with an inline status line that auto-clears.
type reflectForm struct {
	on       bool
	date     textinput.Model
	mood     int
	text     textarea.Model
	field    int // 0 date, 1 mood, 2 text
	status   string
	statusID int
	saving   bool
}

type model struct {
	// Layout
	list     list.Model
	insights viewport.Model
	keys     keyMap
	help     help.Model
	focused  pane
	width    int
	height   int
	ready    bool // true after first WindowSizeMsg

	// Plan data
	items          []planItem
	loadedPlanOnce bool // distinguishes "loading" from a genuinely empty plan
	minutes        int
	inflight       map[int]bool // task id → action request outstanding

	// Insights data
	summary     *reflectionSummary
	summaryErr  bool
	analysis    *analysisResult
	analysisErr bool
	weekly      *weeklyReview
	weeklyErr   bool

	// Prompts and modals
	prompt      promptKind
	promptInput textinput.Model
	promptErr   string
	promptBusy  bool
	reflect     reflectForm
	alert       string // non-empty blocks input until dismissed

	// Wiring
	cfg          config
	api          *apiClient
	store        backend
	demo         demoState
	status       statusBarState
	glamourStyle string
}

func newModel(cfg config) model {
	inflight := make(map[int]bool)
	delegate := taskDelegate{inflight: inflight}
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Today"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = lipgloss.NewStyle().Padding(0, 0, 0, 0)
	l.Styles.TitleBar = lipgloss.NewStyle().Padding(0, 1, 1, 2)
	l.KeyMap.Quit.SetKeys("q") // don't quit on esc

	h := help.New()
	h.ShortSeparator = " | "
	h.Styles.ShortKey = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(colorDim)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(colorDim)
	h.Styles.FullKey = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Width(10)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(colorFull)
	h.Styles.FullSeparator = lipgloss.NewStyle()

	s := spinner.New()
	s.Spinner = spinner.Pulse
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.Width = 40

	date := textinput.New()
	date.Prompt = ""
	date.CharLimit = 10
	date.Width = 12

	ta := textarea.New()
	ta.Placeholder = "What moved today? What got in the way?"
	ta.CharLimit = 2000
	ta.SetWidth(56)
	ta.SetHeight(6)

	style := "dark"
	if !lipgloss.HasDarkBackground() {
		style = "light"
	}

	api := newAPIClient(cfg.ServerURL)

	return model{
		list:         l,
		insights:     viewport.New(0, 0),
		keys:         newKeyMap(),
		help:         h,
		focused:      listPane,
		minutes:      cfg.Minutes,
		inflight:     inflight,
		promptInput:  ti,
		reflect:      reflectForm{date: date, mood: 3, text: ta},
		cfg:          cfg,
		api:          api,
		store:        apiBackend{api: api},
		status:       statusBarState{spinner: s},
		glamourStyle: style,
	}
}

// Init fires the four independent initial loads. Each resolves on its own;
// whichever arrives last paints last.
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.store.loadPlan(m.minutes),
		m.store.loadSummary(m.cfg.ReflectDays),
		m.store.loadAnalysis(m.cfg.ReflectDays),
		m.store.loadWeekly(),
	)
}

// setToast shows a transient message in the status bar with a spinner
// animation, auto-cleared after toastTimeout.
func (m *model) setToast(text string) tea.Cmd {
	m.status.id++
	m.status.text = text
	id := m.status.id
	return tea.Batch(
		m.status.spinner.Tick,
		tea.Tick(toastTimeout, func(time.Time) tea.Msg {
			return toastClearMsg{id: id}
		}),
	)
}

func (m *model) clearToast() {
	m.status.text = ""
}

// setFormStatus updates the reflection form's inline status line and arms
// its fixed-delay clear timer.
func (m *model) setFormStatus(text string) tea.Cmd {
	m.reflect.statusID++
	m.reflect.status = text
	id := m.reflect.statusID
	return tea.Tick(formStatusTimeout, func(time.Time) tea.Msg {
		return reflectStatusClearMsg{id: id}
	})
}

func (m model) selectedTask() (planItem, bool) {
	item, ok := m.list.SelectedItem().(planItem)
	return item, ok
}

func tasksToItems(tasks []planItem) []list.Item {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = t
	}
	return items
}

// setTasks replaces the card collection, clamping the cursor.
func (m *model) setTasks(tasks []planItem) {
	m.items = tasks
	idx := m.list.Index()
	m.list.SetItems(tasksToItems(tasks))
	if idx >= len(tasks) && len(tasks) > 0 {
		m.list.Select(len(tasks) - 1)
	}
}

// refreshInsights re-renders the right pane from whatever insight state is
// currently loaded.
func (m *model) refreshInsights() {
	if m.insights.Width <= 0 {
		return
	}
	md := insightsMarkdown(m.summary, m.summaryErr, m.analysis, m.analysisErr, m.weekly, m.weeklyErr)
	m.insights.SetContent(renderMarkdownBody(md, m.glamourStyle, m.insights.Width))
}

// refreshAll reissues the three insight loads after a saved reflection.
// Each refresh is independent; one failing leaves the others intact.
func (m model) refreshAllInsights() tea.Cmd {
	return tea.Batch(
		m.store.loadSummary(m.cfg.ReflectDays),
		m.store.loadAnalysis(m.cfg.ReflectDays),
		m.store.loadWeekly(),
	)
}

func (m *model) openPrompt(kind promptKind, initial string) tea.Cmd {
	m.prompt = kind
	m.promptErr = ""
	m.promptBusy = false
	m.promptInput.SetValue(initial)
	m.promptInput.CursorEnd()
	m.promptInput.Focus()
	return textinput.Blink
}

func (m *model) closePrompt() {
	m.prompt = promptNone
	m.promptErr = ""
	m.promptBusy = false
	m.promptInput.Blur()
}

func (m *model) openReflectForm() tea.Cmd {
	m.reflect.on = true
	m.reflect.saving = false
	m.reflect.status = ""
	m.reflect.field = 2
	m.reflect.mood = 3
	m.reflect.date.SetValue(todayISO())
	m.reflect.date.Blur()
	return m.reflect.text.Focus()
}

// ─── Modal Key Handlers ──────────────────────────────────────────────────────

func (m model) handlePromptKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case msg.Type == tea.KeyEnter:
		switch m.prompt {
		case promptMinutes:
			m.minutes = parseMinutes(m.promptInput.Value())
			m.closePrompt()
			return m, m.store.loadPlan(m.minutes)
		case promptICS:
			url := strings.TrimSpace(m.promptInput.Value())
			if url == "" {
				// No request leaves the client; the prompt stays open.
				m.promptErr = "Enter an ICS URL"
				return m, nil
			}
			if m.promptBusy {
				return m, nil
			}
			m.promptErr = ""
			m.promptBusy = true
			return m, m.store.saveIntegration(url)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m model) handleReflectKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case msg.Type == tea.KeyEsc:
		if !m.reflect.saving {
			m.reflect.on = false
			m.reflect.text.Blur()
			m.reflect.date.Blur()
		}
		return m, nil
	case msg.Type == tea.KeyCtrlS:
		if m.reflect.saving {
			return m, nil
		}
		date := strings.TrimSpace(m.reflect.date.Value())
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return m, m.setFormStatus("Enter the date as YYYY-MM-DD")
		}
		m.reflect.saving = true
		text := strings.TrimSpace(m.reflect.text.Value())
		cmd := m.setFormStatus("Saving...")
		return m, tea.Batch(cmd, m.store.submitReflection(date, m.reflect.mood, text))
	case msg.Type == tea.KeyTab, msg.Type == tea.KeyShiftTab:
		delta := 1
		if msg.Type == tea.KeyShiftTab {
			delta = 2 // modulo 3, one step back
		}
		m.reflect.field = (m.reflect.field + delta) % 3
		m.reflect.date.Blur()
		m.reflect.text.Blur()
		switch m.reflect.field {
		case 0:
			return m, m.reflect.date.Focus()
		case 2:
			return m, m.reflect.text.Focus()
		}
		return m, nil
	}

	if m.reflect.field == 1 {
		switch msg.String() {
		case "left", "h", "-":
			if m.reflect.mood > 1 {
				m.reflect.mood--
			}
			return m, nil
		case "right", "l", "+":
			if m.reflect.mood < 5 {
				m.reflect.mood++
			}
			return m, nil
		case "1", "2", "3", "4", "5":
			m.reflect.mood, _ = strconv.Atoi(msg.String())
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.reflect.field == 0 {
		m.reflect.date, cmd = m.reflect.date.Update(msg)
	} else {
		m.reflect.text, cmd = m.reflect.text.Update(msg)
	}
	return m, cmd
}

// ─── Key Handling ─────────────────────────────────────────────────────────────

// handleKeyMsg processes keyboard input, returning handled=true for keys
// that should short-circuit Update and handled=false for keys that fall
// through to list.Update for default navigation.
func (m model) handleKeyMsg(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit, true
	}

	// Alert overlay blocks everything until dismissed.
	if m.alert != "" {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.alert = ""
		default:
			if msg.String() == "q" {
				m.alert = ""
			}
		}
		return m, nil, true
	}

	if m.reflect.on {
		mod, cmd := m.handleReflectKey(msg)
		return mod, cmd, true
	}
	if m.prompt != promptNone {
		mod, cmd := m.handlePromptKey(msg)
		return mod, cmd, true
	}

	// Settings — re-runs the setup wizard in the foreground.
	if key.Matches(msg, m.keys.Settings) {
		m.help.ShowAll = false
		exe, err := os.Executable()
		if err != nil {
			return m, func() tea.Msg { return errMsg{fmt.Errorf("could not find executable: %w", err)} }, true
		}
		c := exec.Command(exe, "--setup")
		return m, tea.ExecProcess(c, func(err error) tea.Msg {
			if err != nil {
				return errMsg{fmt.Errorf("setup failed: %w", err)}
			}
			return configUpdatedMsg{}
		}), true
	}

	// Help modal — swallow everything except ?, esc, q
	if m.help.ShowAll {
		switch {
		case key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc:
			m.help.ShowAll = false
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit, true
		}
		return m, nil, true
	}

	if key.Matches(msg, m.keys.Demo) {
		if m.demo.active {
			return m, m.exitDemoMode(), true
		}
		return m, m.enterDemoMode(), true
	}

	// Space / B — scroll insights regardless of pane focus
	switch {
	case key.Matches(msg, m.keys.ScrollDown):
		m.insights.HalfViewDown()
		return m, nil, true
	case key.Matches(msg, m.keys.ScrollUp):
		m.insights.HalfViewUp()
		return m, nil, true
	}

	// Insights pane: scrolling
	if m.focused == insightsPane {
		switch msg.String() {
		case "j", "down":
			m.insights.LineDown(1)
			return m, nil, true
		case "k", "up":
			m.insights.LineUp(1)
			return m, nil, true
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = true
		return m, nil, true
	case key.Matches(msg, m.keys.SwitchPane):
		if m.focused == listPane {
			m.focused = insightsPane
		} else {
			m.focused = listPane
		}
		return m, nil, true
	case key.Matches(msg, m.keys.Start):
		if t, ok := m.selectedTask(); ok && m.focused == listPane {
			if canStart(t.Status) && !m.inflight[t.TaskID] {
				m.inflight[t.TaskID] = true
				return m, m.store.setTaskStatus(t.TaskID, statusDoing), true
			}
			return m, nil, true
		}
	case key.Matches(msg, m.keys.Complete):
		if t, ok := m.selectedTask(); ok && m.focused == listPane {
			if canComplete(t.Status) && !m.inflight[t.TaskID] {
				m.inflight[t.TaskID] = true
				return m, m.store.setTaskStatus(t.TaskID, statusDone), true
			}
			return m, nil, true
		}
	case key.Matches(msg, m.keys.Reload):
		return m, m.store.loadPlan(m.minutes), true
	case key.Matches(msg, m.keys.Minutes):
		return m, m.openPrompt(promptMinutes, strconv.Itoa(m.minutes)), true
	case key.Matches(msg, m.keys.Generate):
		cmd := m.setToast("Generating plan...")
		return m, tea.Batch(cmd, m.store.generatePlan()), true
	case key.Matches(msg, m.keys.Reflect):
		return m, m.openReflectForm(), true
	case key.Matches(msg, m.keys.Calendar):
		return m, m.openPrompt(promptICS, ""), true
	case key.Matches(msg, m.keys.FreeTime):
		cmd := m.setToast("Checking calendar...")
		return m, tea.Batch(cmd, m.store.loadIntegration()), true
	case key.Matches(msg, m.keys.CopyURL):
		if t, ok := m.selectedTask(); ok && !m.demo.active {
			url := m.api.taskURL(t.TaskID)
			if err := clipboard.WriteAll(url); err != nil {
				return m, func() tea.Msg { return errMsg{fmt.Errorf("clipboard: %w", err)} }, true
			}
			return m, m.setToast("Copied: " + url), true
		}
	case key.Matches(msg, m.keys.Analysis):
		return m, m.store.loadAnalysis(m.cfg.ReflectDays), true
	case key.Matches(msg, m.keys.Weekly):
		return m, m.store.loadWeekly(), true
	case key.Matches(msg, m.keys.RunWeekly):
		cmd := m.setToast("Generating weekly review...")
		return m, tea.Batch(cmd, m.store.runWeekly()), true
	}

	// Not handled — fall through to list.Update for default navigation
	return m, nil, false
}

// ─── Update ──────────────────────────────────────────────────────────────────

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		mod, cmd, handled := m.handleKeyMsg(msg)
		m = mod // Always apply model changes
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		listW := m.width * 45 / 100
		innerListW := listW - 2
		innerInsightsW := m.width - listW - 2
		innerH := m.height - 3 // -2 for borders, -1 for status bar

		if innerListW < 10 {
			innerListW = 10
		}
		if innerInsightsW < 10 {
			innerInsightsW = 10
		}
		if innerH < 5 {
			innerH = 5
		}

		m.list.SetSize(innerListW, innerH-1)
		m.insights.Width = innerInsightsW
		m.insights.Height = innerH - 1
		m.refreshInsights()

	case planLoadedMsg:
		m.loadedPlanOnce = true
		clear(m.inflight)
		m.setTasks(msg.items)
		return m, nil

	case planLoadFailedMsg:
		// Previous cards stay; retry is r.
		m.alert = "Could not load today's plan.\n\n" + msg.err.Error()
		return m, nil

	case taskUpdatedMsg:
		delete(m.inflight, msg.taskID)
		updated := make([]planItem, len(m.items))
		copy(updated, m.items)
		var title string
		for i, t := range updated {
			if t.TaskID == msg.taskID {
				updated[i].Status = msg.status
				title = t.TaskTitle
				break
			}
		}
		m.setTasks(updated)
		if msg.status == statusDone {
			desktopNotify(m.cfg, "Task completed", title)
			cmd := m.setToast("Completed: " + title)
			return m, tea.Batch(cmd, m.store.loadPlan(m.minutes))
		}
		return m, m.setToast("Started: " + title)

	case taskUpdateFailedMsg:
		delete(m.inflight, msg.taskID)
		return m, m.setToast("Error: " + msg.err.Error())

	case reflectSavedMsg:
		m.reflect.saving = false
		m.reflect.text.Reset()
		cmd := m.setFormStatus("Saved")
		return m, tea.Batch(cmd, m.refreshAllInsights())

	case reflectFailedMsg:
		m.reflect.saving = false
		return m, m.setFormStatus("Error: " + msg.err.Error())

	case reflectStatusClearMsg:
		if msg.id == m.reflect.statusID {
			m.reflect.status = ""
		}
		return m, nil

	case summaryLoadedMsg:
		if msg.err != nil {
			if m.summary == nil {
				m.summaryErr = true
				m.refreshInsights()
			}
			return m, m.setToast("Error: " + msg.err.Error())
		}
		s := msg.summary
		m.summary = &s
		m.summaryErr = false
		m.refreshInsights()
		return m, nil

	case analysisLoadedMsg:
		if msg.err != nil {
			if m.analysis == nil {
				m.analysisErr = true
				m.refreshInsights()
			}
			return m, m.setToast("Error: " + msg.err.Error())
		}
		a := msg.analysis
		m.analysis = &a
		m.analysisErr = false
		m.refreshInsights()
		return m, nil

	case weeklyLoadedMsg:
		if msg.err != nil {
			if m.weekly == nil {
				m.weeklyErr = true
				m.refreshInsights()
			}
			return m, m.setToast("Error: " + msg.err.Error())
		}
		r := msg.review
		m.weekly = &r
		m.weeklyErr = false
		m.refreshInsights()
		return m, nil

	case weeklyRanMsg:
		if msg.err != nil {
			return m, m.setToast("Error: " + msg.err.Error())
		}
		r := msg.review
		m.weekly = &r
		m.weeklyErr = false
		m.refreshInsights()
		desktopNotify(m.cfg, "Weekly review ready", "Your weekly review was generated.")
		return m, m.setToast("Weekly review generated")

	case planGeneratedMsg:
		cmd := m.setToast(fmt.Sprintf("Created %d tasks", msg.created))
		return m, tea.Batch(cmd, m.store.loadPlan(m.minutes))

	case planGenerateFailedMsg:
		m.clearToast()
		if msg.err == errNoGoals {
			m.alert = "No goal to plan for.\n\nCreate a goal on the server first, then press g again."
		} else {
			m.alert = "Plan generation failed.\n\n" + msg.err.Error()
		}
		return m, nil

	case integrationLoadedMsg:
		if msg.err != nil {
			m.clearToast()
			m.alert = "Could not check the calendar integration.\n\n" + msg.err.Error()
			return m, nil
		}
		if msg.integ == nil {
			// Not configured yet: collect the URL and stop. No minutes
			// request is made on this path.
			m.clearToast()
			return m, m.openPrompt(promptICS, "")
		}
		return m, m.store.loadFreeMinutes(todayISO(), m.cfg.WorkStart, m.cfg.WorkEnd)

	case freeMinutesMsg:
		if msg.err != nil {
			m.clearToast()
			m.alert = "Could not read free time from the calendar.\n\nCheck the ICS URL (i to edit).\n" + msg.err.Error()
			return m, nil
		}
		m.minutes = clampMinutes(msg.minutes)
		cmd := m.setToast(fmt.Sprintf("Free time applied: %d min", m.minutes))
		return m, tea.Batch(cmd, m.store.loadPlan(m.minutes))

	case integrationSavedMsg:
		m.closePrompt()
		return m, m.setToast("Calendar saved. Press f to use free time.")

	case integrationSaveFailedMsg:
		// Prompt stays open so the URL can be corrected.
		m.promptBusy = false
		m.promptErr = msg.err.Error()
		return m, nil

	case configUpdatedMsg:
		m.cfg = loadConfigRaw()
		m.minutes = m.cfg.Minutes
		m.api = newAPIClient(m.cfg.ServerURL)
		if !m.demo.active {
			m.store = apiBackend{api: m.api}
		}
		return m, tea.Batch(
			m.store.loadPlan(m.minutes),
			m.store.loadSummary(m.cfg.ReflectDays),
			m.store.loadAnalysis(m.cfg.ReflectDays),
			m.store.loadWeekly(),
		)

	case spinner.TickMsg:
		if m.status.text != "" {
			var cmd tea.Cmd
			m.status.spinner, cmd = m.status.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case toastClearMsg:
		if msg.id == m.status.id {
			m.clearToast()
		}
		return m, nil

	case errMsg:
		return m, m.setToast("Error: " + msg.err.Error())
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	if m.prompt != promptNone {
		var tiCmd tea.Cmd
		m.promptInput, tiCmd = m.promptInput.Update(msg)
		cmds = append(cmds, tiCmd)
	}
	if m.reflect.on {
		var taCmd tea.Cmd
		switch m.reflect.field {
		case 0:
			m.reflect.date, taCmd = m.reflect.date.Update(msg)
		case 2:
			m.reflect.text, taCmd = m.reflect.text.Update(msg)
		}
		cmds = append(cmds, taCmd)
	}

	return m, tea.Batch(cmds...)
}
