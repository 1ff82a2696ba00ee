package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected nil error, got=%v", err)
	}
}

func TestLoadDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	body := "SANDBOX_TEST_FROM_FILE=file\nSANDBOX_TEST_PRESET=file\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("SANDBOX_TEST_PRESET", "env")
	t.Setenv("SANDBOX_TEST_FROM_FILE", "")
	os.Unsetenv("SANDBOX_TEST_FROM_FILE")

	if err := Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := Getenv("SANDBOX_TEST_FROM_FILE", ""); got != "file" {
		t.Fatalf("expected value from file, got=%q", got)
	}
	if got := Getenv("SANDBOX_TEST_PRESET", ""); got != "env" {
		t.Fatalf("expected preset env to win, got=%q", got)
	}
}

func TestGetenvFallbacks(t *testing.T) {
	t.Setenv("SANDBOX_TEST_INT", "nope")
	t.Setenv("SANDBOX_TEST_FLOAT", "2.5")
	if got := GetenvInt("SANDBOX_TEST_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got=%d", got)
	}
	if got := GetenvFloat("SANDBOX_TEST_FLOAT", 1); got != 2.5 {
		t.Fatalf("expected 2.5, got=%v", got)
	}
	if got := Getenv("SANDBOX_TEST_UNSET_KEY", "x"); got != "x" {
		t.Fatalf("expected fallback x, got=%q", got)
	}
}

func TestLoadSandboxDefaults(t *testing.T) {
	for _, k := range []string{"SANDBOX_ADDR", "SANDBOX_FPS", "SANDBOX_REPLICATION_HZ", "TELEMETRY_URL", "SESSION_IDLE_SEC"} {
		t.Setenv(k, "")
	}
	c := LoadSandbox()
	if c.Addr != ":9010" || c.FPS != 60 || c.ReplicationHz != 60 || c.TelemetryURL != "" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.SessionIdle != 900*time.Second {
		t.Fatalf("expected 900s idle, got=%v", c.SessionIdle)
	}
}

func TestLoadSandboxCapsReplicationAtFPS(t *testing.T) {
	t.Setenv("SANDBOX_FPS", "30")
	t.Setenv("SANDBOX_REPLICATION_HZ", "120")
	if c := LoadSandbox(); c.ReplicationHz != 30 {
		t.Fatalf("expected replication capped at 30, got=%d", c.ReplicationHz)
	}
}
