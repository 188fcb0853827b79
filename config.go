package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ─── Config ──────────────────────────────────────────────────────────────────

type config struct {
	ServerURL     string `json:"server_url"`               // base URL of the productivity service
	Minutes       int    `json:"minutes,omitempty"`        // default daily minutes budget
	ReflectDays   int    `json:"reflect_days,omitempty"`   // trailing window for summary/analysis
	WorkStart     string `json:"work_start,omitempty"`     // HH:MM, calendar free-time window start
	WorkEnd       string `json:"work_end,omitempty"`       // HH:MM, calendar free-time window end
	DesktopNotify bool   `json:"desktop_notify,omitempty"` // OS notification on completion
	Installed     string `json:"installed,omitempty"`      // RFC3339 timestamp of first setup
}

func newDefaultConfig() config {
	return config{
		ServerURL:   "http://127.0.0.1:8000",
		Minutes:     defaultMinutes,
		ReflectDays: 7,
		WorkStart:   "07:00",
		WorkEnd:     "23:00",
	}
}

func configPath() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(cfgDir, "taskdeck", "config.json"), nil
}

// fillConfigDefaults backfills zero fields so a hand-edited or older config
// file still yields a usable configuration.
func fillConfigDefaults(cfg config) config {
	def := newDefaultConfig()
	if strings.TrimSpace(cfg.ServerURL) == "" {
		cfg.ServerURL = def.ServerURL
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	if cfg.Minutes <= 0 {
		cfg.Minutes = def.Minutes
	}
	if cfg.ReflectDays <= 0 {
		cfg.ReflectDays = def.ReflectDays
	}
	if !validClock(cfg.WorkStart) {
		cfg.WorkStart = def.WorkStart
	}
	if !validClock(cfg.WorkEnd) {
		cfg.WorkEnd = def.WorkEnd
	}
	return cfg
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// loadConfigRaw reads the config file without triggering first-time setup.
// Returns defaults if the file is missing or unreadable.
func loadConfigRaw() config {
	path, err := configPath()
	if err != nil {
		return newDefaultConfig()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return newDefaultConfig()
	}
	cfg := newDefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return newDefaultConfig()
	}
	return fillConfigDefaults(cfg)
}

func loadConfig() config {
	path, err := configPath()
	if err != nil {
		return newDefaultConfig()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return setupConfig(path)
		}
		return newDefaultConfig()
	}
	cfg := newDefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: corrupt config (%v), using defaults. Run `taskdeck --setup` to fix.\n", err)
		return newDefaultConfig()
	}
	cfg = fillConfigDefaults(cfg)
	if cfg.Installed == "" {
		cfg.Installed = time.Now().Format(time.RFC3339)
		_ = saveConfig(path, cfg)
	}
	return cfg
}

func saveConfig(path string, cfg config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	// Atomic write: write to temp file then rename, so a crash mid-write
	// can't leave a truncated config file that gets silently replaced with defaults.
	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

func setupConfig(path string) config {
	scanner := bufio.NewScanner(os.Stdin)
	showWelcome(scanner)
	cfg := newDefaultConfig()
	cfg.Installed = time.Now().Format(time.RFC3339)
	return runSetup(path, cfg, scanner)
}

// showWelcome displays a brief orientation and waits for the user to press
// enter before continuing to setup.
func showWelcome(scanner *bufio.Scanner) {
	brand := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dim := lipgloss.NewStyle().Foreground(colorDim)
	key := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	green := lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	yellow := lipgloss.NewStyle().Bold(true).Foreground(colorYellow)

	name := brand.Render("taskdeck")
	clearCols := strings.Repeat(" ", 10)

	// Cycle the task badges: ○ → ● → ✓
	icons := []struct {
		icon  string
		style lipgloss.Style
	}{
		{"○", dim},
		{"●", yellow},
		{"✓", green},
	}

	fmt.Println()
	for i, s := range icons {
		fmt.Printf("\r  %s %s%s", s.style.Render(s.icon), name, clearCols)
		if i < len(icons)-1 {
			time.Sleep(300 * time.Millisecond)
		}
	}
	fmt.Println()
	time.Sleep(400 * time.Millisecond)
	fmt.Println(dim.Render("  A terminal dashboard for your personal productivity service."))
	fmt.Println()

	time.Sleep(400 * time.Millisecond)
	fmt.Println(dim.Render("  Shows today's recommended tasks next to your reflections,"))
	fmt.Println(dim.Render("  analysis and weekly review, all fetched from your server."))
	fmt.Println()
	time.Sleep(300 * time.Millisecond)
	fmt.Println("  " + key.Render("s") + dim.Render(" start task     ") + key.Render("d") + dim.Render(" complete task   ") + key.Render("n") + dim.Render(" write reflection"))
	fmt.Println("  " + key.Render("f") + dim.Render(" calendar time  ") + key.Render("g") + dim.Render(" generate plan   ") + key.Render("?") + dim.Render(" all keybindings"))
	fmt.Println()
	time.Sleep(200 * time.Millisecond)
	fmt.Println(dim.Render("  All data lives on the server; this client stores only its"))
	fmt.Println(dim.Render("  own settings."))
	fmt.Println()

	fmt.Print(dim.Render("  Press enter to continue to setup..."))
	scanner.Scan()
	fmt.Println()
}

func runSetup(path string, current config, scanner *bufio.Scanner) config {
	promptStyle := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dimStyle := lipgloss.NewStyle().Foreground(colorDim)
	if scanner == nil {
		scanner = bufio.NewScanner(os.Stdin)
	}

	fmt.Println(promptStyle.Render("  taskdeck setup"))
	fmt.Println(dimStyle.Render("  Press enter to keep the current value."))
	fmt.Println()

	prompt := func(label, defVal string) string {
		fmt.Printf("%s %s: ", promptStyle.Render(label), dimStyle.Render("["+defVal+"]"))
		if scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				return line
			}
		}
		return defVal
	}

	cfg := current

	fmt.Println(dimStyle.Render("  Base URL of the productivity service."))
	cfg.ServerURL = strings.TrimRight(prompt("Server URL           ", current.ServerURL), "/")
	fmt.Println()

	fmt.Println(dimStyle.Render("  Default daily minutes budget for the plan."))
	if n, err := strconv.Atoi(prompt("Minutes budget       ", strconv.Itoa(current.Minutes))); err == nil && n > 0 {
		cfg.Minutes = n
	}
	fmt.Println()

	fmt.Println(dimStyle.Render("  Trailing window (days) for reflection summary and analysis."))
	if n, err := strconv.Atoi(prompt("Reflection window    ", strconv.Itoa(current.ReflectDays))); err == nil && n > 0 {
		cfg.ReflectDays = n
	}
	fmt.Println()

	fmt.Println(dimStyle.Render("  Working hours used when computing free calendar time (HH:MM)."))
	if v := prompt("Work day starts      ", current.WorkStart); validClock(v) {
		cfg.WorkStart = v
	}
	if v := prompt("Work day ends        ", current.WorkEnd); validClock(v) {
		cfg.WorkEnd = v
	}
	fmt.Println()

	fmt.Println(dimStyle.Render("  Desktop notification when a task is completed (y/n)."))
	switch strings.ToLower(prompt("Desktop notifications", yesNo(current.DesktopNotify))) {
	case "y", "yes":
		cfg.DesktopNotify = true
	case "n", "no":
		cfg.DesktopNotify = false
	}
	fmt.Println()

	cfg = fillConfigDefaults(cfg)
	if err := saveConfig(path, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
	} else {
		fmt.Printf("%s %s\n\n", dimStyle.Render("Saved to"), path)
	}
	return cfg
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
