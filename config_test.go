package main

import (
	"encoding/json"
	"os"
	"testing"
)

func TestFillConfigDefaults(t *testing.T) {
	got := fillConfigDefaults(config{})
	def := newDefaultConfig()
	if got.ServerURL != def.ServerURL {
		t.Errorf("ServerURL = %q, want default", got.ServerURL)
	}
	if got.Minutes != def.Minutes || got.ReflectDays != def.ReflectDays {
		t.Errorf("Minutes/ReflectDays = %d/%d, want defaults", got.Minutes, got.ReflectDays)
	}
	if got.WorkStart != "07:00" || got.WorkEnd != "23:00" {
		t.Errorf("work window = %s–%s, want defaults", got.WorkStart, got.WorkEnd)
	}

	// Partial config keeps what it has and trims the URL.
	got = fillConfigDefaults(config{ServerURL: "http://example.com/", Minutes: 60, WorkStart: "9am"})
	if got.ServerURL != "http://example.com" {
		t.Errorf("ServerURL = %q, want trailing slash trimmed", got.ServerURL)
	}
	if got.Minutes != 60 {
		t.Errorf("Minutes = %d, want 60 kept", got.Minutes)
	}
	if got.WorkStart != "07:00" {
		t.Errorf("invalid clock kept: %q", got.WorkStart)
	}
}

func TestValidClock(t *testing.T) {
	for _, ok := range []string{"07:00", "23:59", "00:00"} {
		if !validClock(ok) {
			t.Errorf("validClock(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "7", "25:00", "9am", "07:60"} {
		if validClock(bad) {
			t.Errorf("validClock(%q) = true", bad)
		}
	}
}

func TestLoadConfigSetsInstalled(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	if err := saveConfig(path, config{ServerURL: "http://localhost:9999"}); err != nil {
		t.Fatalf("saveConfig: %v", err)
	}

	loaded := loadConfig()
	if loaded.ServerURL != "http://localhost:9999" {
		t.Errorf("ServerURL = %q", loaded.ServerURL)
	}
	if loaded.Installed == "" {
		t.Fatal("Installed should be set when missing")
	}

	// Installed timestamp should be persisted to disk for future loads.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	var persisted config
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("unmarshal persisted config: %v", err)
	}
	if persisted.Installed == "" {
		t.Fatal("persisted Installed should not be empty")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	want := config{
		ServerURL:     "http://10.0.0.2:8000",
		Minutes:       120,
		ReflectDays:   14,
		WorkStart:     "08:30",
		WorkEnd:       "18:00",
		DesktopNotify: true,
		Installed:     "2026-01-01T00:00:00Z",
	}
	if err := saveConfig(path, want); err != nil {
		t.Fatalf("saveConfig: %v", err)
	}
	got := loadConfigRaw()
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadConfigRawCorruptFallsBack(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	if err := saveConfig(path, newDefaultConfig()); err != nil {
		t.Fatalf("saveConfig: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	got := loadConfigRaw()
	if got.ServerURL != newDefaultConfig().ServerURL {
		t.Errorf("corrupt config should fall back to defaults, got %+v", got)
	}
}
