package main

import (
	"strings"
	"testing"
)

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	output, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	if !strings.Contains(output, "profscan version") {
		t.Errorf("expected version banner in output:\n%s", output)
	}
	if !strings.Contains(output, "commit:") {
		t.Errorf("expected commit line in output:\n%s", output)
	}
	if !strings.Contains(output, "built:") {
		t.Errorf("expected build date line in output:\n%s", output)
	}
}

// TestGetVersion tests version string fallback behavior.
func TestGetVersion(t *testing.T) {
	if got := getVersion(); got == "" {
		t.Error("expected non-empty version string")
	}
}
