package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigPathFromDotenv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CALEVENT_CONFIG=/tmp/from-dotenv.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("CALEVENT_CONFIG", "")
	os.Unsetenv("CALEVENT_CONFIG")

	if got := defaultConfigPath(); got != "/tmp/from-dotenv.yaml" {
		t.Errorf("defaultConfigPath() = %q, want value from .env", got)
	}
}

func TestDefaultConfigPathEnvWins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CALEVENT_CONFIG=/tmp/from-dotenv.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("CALEVENT_CONFIG", "/srv/calevent.yaml")

	if got := defaultConfigPath(); got != "/srv/calevent.yaml" {
		t.Errorf("defaultConfigPath() = %q, want environment value", got)
	}
}

func TestDefaultConfigPathFallback(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CALEVENT_CONFIG", "")
	os.Unsetenv("CALEVENT_CONFIG")

	if got := defaultConfigPath(); got != fallbackConfigPath {
		t.Errorf("defaultConfigPath() = %q, want %q", got, fallbackConfigPath)
	}
}
