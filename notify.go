package main

import "github.com/gen2brain/beeep"

// desktopNotify raises an OS notification when enabled in config. Failures
// are ignored: a missing notification daemon should never disturb the
// session.
func desktopNotify(cfg config, title, message string) {
	if !cfg.DesktopNotify {
		return
	}
	_ = beeep.Notify(title, message, "")
}
