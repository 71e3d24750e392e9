package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/profscan/profscan/internal/database"
)

// TestCompareCmd tests the compare command.
func TestCompareCmd(t *testing.T) {
	t.Parallel()

	t.Run("shows added, dropped, and unchanged profiles", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		oldID := seedRun(t, dbDir, "golang engineer",
			"https://www.linkedin.com/in/kept",
			"https://www.linkedin.com/in/gone",
		)
		newID := seedRun(t, dbDir, "golang engineer",
			"https://www.linkedin.com/in/kept",
			"https://www.linkedin.com/in/fresh",
		)

		output, err := executeCommand(t, "compare", "--db-dir", dbDir,
			fmt.Sprintf("%d", oldID), fmt.Sprintf("%d", newID))
		if err != nil {
			t.Fatalf("compare failed: %v", err)
		}

		if !strings.Contains(output, "New profiles (1)") {
			t.Errorf("expected one new profile:\n%s", output)
		}
		if !strings.Contains(output, "https://www.linkedin.com/in/fresh") {
			t.Errorf("expected the fresh profile URL:\n%s", output)
		}
		if !strings.Contains(output, "Dropped profiles (1)") {
			t.Errorf("expected one dropped profile:\n%s", output)
		}
		if !strings.Contains(output, "Unchanged: 1 profile(s)") {
			t.Errorf("expected one unchanged profile:\n%s", output)
		}
	})

	t.Run("identical runs report no changes", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		oldID := seedRun(t, dbDir, "golang engineer", "https://www.linkedin.com/in/kept")
		newID := seedRun(t, dbDir, "golang engineer", "https://www.linkedin.com/in/kept")

		output, err := executeCommand(t, "compare", "--db-dir", dbDir,
			fmt.Sprintf("%d", oldID), fmt.Sprintf("%d", newID))
		if err != nil {
			t.Fatalf("compare failed: %v", err)
		}

		if !strings.Contains(output, "No changes") {
			t.Errorf("expected no-changes message:\n%s", output)
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		oldID := seedRun(t, dbDir, "golang engineer", "https://www.linkedin.com/in/gone")
		newID := seedRun(t, dbDir, "golang engineer", "https://www.linkedin.com/in/fresh")

		output, err := executeCommand(t, "compare", "--db-dir", dbDir, "--json",
			fmt.Sprintf("%d", oldID), fmt.Sprintf("%d", newID))
		if err != nil {
			t.Fatalf("compare --json failed: %v", err)
		}

		var diff database.RunDiff
		if err := json.Unmarshal([]byte(output), &diff); err != nil {
			t.Fatalf("expected valid JSON diff: %v", err)
		}
		if len(diff.Added) != 1 || len(diff.Removed) != 1 || diff.Unchanged != 0 {
			t.Errorf("diff = %+v, expected one added and one removed", diff)
		}
	})

	t.Run("unknown run id fails", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		id := seedRun(t, dbDir, "golang engineer")

		_, err := executeCommand(t, "compare", "--db-dir", dbDir,
			fmt.Sprintf("%d", id), "999")
		if !errors.Is(err, database.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("non-numeric run id fails", func(t *testing.T) {
		t.Parallel()

		_, err := executeCommand(t, "compare", "--db-dir", t.TempDir(), "abc", "1")
		if err == nil {
			t.Error("expected error for non-numeric run ID")
		}
	})

	t.Run("wrong argument count fails", func(t *testing.T) {
		t.Parallel()

		if _, err := executeCommand(t, "compare", "1"); err == nil {
			t.Error("expected error for missing run ID argument")
		}
	})
}
