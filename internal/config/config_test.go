package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Hardware.ButtonPin != "GPIO16" {
		t.Fatalf("button pin %q", cfg.Hardware.ButtonPin)
	}
	if cfg.Hardware.ShortPress != 500*time.Millisecond {
		t.Fatalf("short press %v", cfg.Hardware.ShortPress)
	}
	if cfg.Hardware.Debounce != 100*time.Millisecond {
		t.Fatalf("debounce %v", cfg.Hardware.Debounce)
	}
	if cfg.Hardware.LCD.Columns != 16 || cfg.Hardware.LCD.Rows != 2 {
		t.Fatalf("lcd geometry %dx%d", cfg.Hardware.LCD.Columns, cfg.Hardware.LCD.Rows)
	}
	if cfg.Camera.Warmup != time.Second {
		t.Fatalf("camera warmup %v", cfg.Camera.Warmup)
	}
	if cfg.Caption.Backend != "local" {
		t.Fatalf("caption backend %q", cfg.Caption.Backend)
	}
	if cfg.TTS.Language != "en" {
		t.Fatalf("tts language %q", cfg.TTS.Language)
	}
	if cfg.Audio.Clips["shutter"] != "camera-shutter.mp3" {
		t.Fatalf("shutter clip %q", cfg.Audio.Clips["shutter"])
	}
	if cfg.Storage.DataDir != "data" {
		t.Fatalf("data dir %q", cfg.Storage.DataDir)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("VISIONCASTER_CAPTION_BACKEND", "openai")
	t.Setenv("VISIONCASTER_HARDWARE_BUTTON_PIN", "GPIO26")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Caption.Backend != "openai" {
		t.Fatalf("caption backend %q, want env override", cfg.Caption.Backend)
	}
	if cfg.Hardware.ButtonPin != "GPIO26" {
		t.Fatalf("button pin %q, want env override", cfg.Hardware.ButtonPin)
	}
}

func TestResolveEnvRef(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-secret")

	if got := resolveEnvRef("${TEST_API_KEY}"); got != "sk-secret" {
		t.Fatalf("resolved %q", got)
	}
	if got := resolveEnvRef("literal-value"); got != "literal-value" {
		t.Fatalf("literal mangled to %q", got)
	}
	if got := resolveEnvRef("${UNSET_VAR_XYZ}"); got != "${UNSET_VAR_XYZ}" {
		t.Fatalf("unset ref mangled to %q", got)
	}
}
