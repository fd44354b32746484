package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	l, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.DedupWindowMS != 100 || l.ClickWindowMS != 25 {
		t.Errorf("dedup windows = %d/%d", l.DedupWindowMS, l.ClickWindowMS)
	}
	if l.MaxSteps != 1000 || l.MaxLogBytes != 50*1024*1024 {
		t.Errorf("retention = %d steps / %d bytes", l.MaxSteps, l.MaxLogBytes)
	}
	if l.MaxScreenshots != 20 {
		t.Errorf("gallery cap = %d", l.MaxScreenshots)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WEBTRAIL_MAX_STEPS", "50")
	t.Setenv("WEBTRAIL_INPUT_DEBOUNCE_MS", "250")

	l, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.MaxSteps != 50 {
		t.Errorf("MaxSteps = %d, want 50", l.MaxSteps)
	}
	if l.InputDebounceMS != 250 {
		t.Errorf("InputDebounceMS = %d, want 250", l.InputDebounceMS)
	}
	// Untouched values come back with defaults.
	if l.ClickWindowMS != 25 {
		t.Errorf("ClickWindowMS = %d, want 25", l.ClickWindowMS)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webtrail.yaml")
	content := "max_steps: 10\nmax_screenshots: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.MaxSteps != 10 || l.MaxScreenshots != 2 {
		t.Errorf("file values not applied: %+v", l)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestResolveStateDir(t *testing.T) {
	l := Limits{StateDir: "/tmp/custom-state"}
	dir, err := l.ResolveStateDir()
	if err != nil || dir != "/tmp/custom-state" {
		t.Fatalf("ResolveStateDir = %q, %v", dir, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir in test environment")
	}
	dir, err = (Limits{}).ResolveStateDir()
	if err != nil {
		t.Fatalf("ResolveStateDir: %v", err)
	}
	if dir != filepath.Join(home, ".webtrail") {
		t.Errorf("default dir = %q", dir)
	}
}
