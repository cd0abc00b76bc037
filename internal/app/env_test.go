package app

import (
	"os"
	"testing"
)

func TestLoadEnvFile_ParsesAndOverrides(t *testing.T) {
	first := writeTemp(t, "a.env", "# comment\nFOO_KEY=one\n\nQUOTED='with spaces'\nmalformed line\n")
	second := writeTemp(t, "b.env", "FOO_KEY=\"two\"\n")
	t.Setenv("FOO_KEY", "")
	t.Setenv("QUOTED", "")

	if err := LoadEnvFile(first); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := LoadEnvFile(second); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("FOO_KEY"); got != "two" {
		t.Fatalf("later load must override, got %q", got)
	}
	if got := os.Getenv("QUOTED"); got != "with spaces" {
		t.Fatalf("quotes must be stripped, got %q", got)
	}
}

func TestLoadEnvFile_MissingFileIgnored(t *testing.T) {
	t.Parallel()
	if err := LoadEnvFile("/nonexistent/.env"); err != nil {
		t.Fatalf("a missing file must be skipped: %v", err)
	}
}
