package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var version = ""

func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	args := os.Args[1:]

	if len(args) > 0 && (args[0] == "--help" || args[0] == "-h") {
		fmt.Println("taskdeck — a terminal dashboard for your personal productivity service")
		fmt.Println()
		fmt.Println("Usage: taskdeck [flags]")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --help, -h      Show this help")
		fmt.Println("  --version       Print version")
		fmt.Println("  --setup         Re-run first-time configuration")
		fmt.Println("  --demo          Launch with demo data (no server needed)")
		fmt.Println("  --server URL    Override the configured server URL")
		return
	}

	if len(args) > 0 && args[0] == "--version" {
		fmt.Println("taskdeck " + getVersion())
		return
	}

	if len(args) > 0 && args[0] == "--setup" {
		path, err := configPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		runSetup(path, loadConfigRaw(), nil) // loadConfigRaw avoids triggering first-time setup
		return
	}

	demo := false
	serverOverride := ""
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--demo":
			demo = true
		case args[i] == "--server" && i+1 < len(args):
			i++
			serverOverride = args[i]
		case strings.HasPrefix(args[i], "--server="):
			serverOverride = strings.TrimPrefix(args[i], "--server=")
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\nRun taskdeck --help for usage.\n", args[i])
			os.Exit(1)
		}
	}

	cfg := loadConfig()
	if serverOverride != "" {
		cfg.ServerURL = strings.TrimRight(serverOverride, "/")
	}

	m := newModel(cfg)
	if demo {
		// Swaps the backend before Init runs, so the initial loads hit
		// the in-memory data.
		m.enterDemoMode()
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
