// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/tasker/internal/storage"
)

// testEnv points every tasker path into a temp dir and pins the clock.
type testEnv struct {
	dir       string
	dataFile  string
	backupDir string
	logFile   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:       dir,
		dataFile:  filepath.Join(dir, "tasks.json"),
		backupDir: filepath.Join(dir, "backups"),
		logFile:   filepath.Join(dir, "tasker.log"),
	}
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("TASKER_DATA_FILE", env.dataFile)
	t.Setenv("TASKER_BACKUP_DIR", env.backupDir)
	t.Setenv("TASKER_LOG_FILE", env.logFile)
	t.Setenv("TASKER_COLOR", "false")
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	prev := nowFunc
	nowFunc = func() time.Time { return time.Date(2024, 3, 10, 10, 0, 0, 0, time.Local) }
	t.Cleanup(func() { nowFunc = prev })
	return env
}

// run executes tasker with args and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("tasker %s: %v\noutput:\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestRun(t *testing.T) {
	t.Run("shows help with -help flag", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "-help")
		assertContains(t, out, "Usage:", "template", "Recurrence Options")
	})

	t.Run("shows help with help command", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "help")
		assertContains(t, out, "Commands:")
	})

	t.Run("shows version with -version flag", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "-version")
		assertContains(t, out, "tasker version "+Version)
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.run(t, "unknown-command")
		if err == nil {
			t.Fatal("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("no command lists tasks", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t)
		assertContains(t, out, "No tasks.")
	})
}

func TestAddListAndComplete(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "add", "-due", "2024-03-10", "-repeat", "weekly", "-tags", "work,review", "Weekly review")
	assertContains(t, out, "Added task #1: Weekly review (due 2024-03-10)", "Repeats every week")

	if _, err := os.Stat(env.dataFile); err != nil {
		t.Fatalf("task file not written: %v", err)
	}

	out = env.mustRun(t, "ls")
	assertContains(t, out, "#1", "Weekly review", "1 tasks, 1 pending")

	out = env.mustRun(t, "done", "1")
	assertContains(t, out, "Completed task #1.", "Next occurrence #2 due 2024-03-17")

	out = env.mustRun(t, "ls", "pending")
	assertContains(t, out, "#2")
	if strings.Contains(out, "#1 ") {
		t.Errorf("completed task listed as pending:\n%s", out)
	}

	out = env.mustRun(t, "ls", "-status", "completed")
	assertContains(t, out, "#1")

	// Completing an already completed recurring task spawns again.
	out = env.mustRun(t, "done", "1")
	assertContains(t, out, "Next occurrence #3 due 2024-03-17")

	out = env.mustRun(t, "undo", "1")
	assertContains(t, out, "Reopened task #1.")
}

func TestAddRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "add"); err == nil {
		t.Error("expected error for missing description")
	}
	if _, err := env.run(t, "add", "-due", "2024-02-30", "Bad date"); err == nil {
		t.Error("expected error for invalid due date")
	}
	if _, err := env.run(t, "add", "-priority", "9", "Bad priority"); err == nil {
		t.Error("expected error for invalid priority")
	}
	if _, err := env.run(t, "add", "-tags", "no spaces allowed", "Bad tag"); err == nil {
		t.Error("expected error for invalid tag")
	}
}

func TestEditShowAndRemove(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "-due", "2024-03-12", "Write report")

	out := env.mustRun(t, "edit", "1", "-desc", "Write final report", "-priority", "1", "-add-tag", "urgent")
	assertContains(t, out, "Updated task #1.")

	out = env.mustRun(t, "show", "1")
	assertContains(t, out, "Write final report", "Priority:    1", "urgent")

	if _, err := env.run(t, "show", "99"); err == nil {
		t.Error("expected error for missing task")
	}

	out = env.mustRun(t, "rm", "1")
	assertContains(t, out, "Deleted task #1.")
	out = env.mustRun(t, "ls")
	assertContains(t, out, "No tasks.")
}

func TestSubtasks(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "-due", "2024-03-15", "Plan trip")

	out := env.mustRun(t, "sub", "add", "1", "Book flights")
	assertContains(t, out, "Added subtask #2 to #1: Book flights")

	out = env.mustRun(t, "sub", "done", "2")
	assertContains(t, out, "Completed subtask #2 of #1.")

	out = env.mustRun(t, "show", "1")
	assertContains(t, out, "Subtasks:    1/1 done", "Book flights")

	out = env.mustRun(t, "rm", "2")
	assertContains(t, out, "Deleted subtask #2 of #1.")
}

func TestSearchAndStats(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "-due", "2024-03-01", "-category", "home", "Fix the sink")
	env.mustRun(t, "add", "-due", "2024-03-10", "-category", "work", "Send invoice")

	out := env.mustRun(t, "search", "sink")
	assertContains(t, out, "Fix the sink")
	if strings.Contains(out, "Send invoice") {
		t.Errorf("search matched unrelated task:\n%s", out)
	}

	out = env.mustRun(t, "stats")
	assertContains(t, out, "Total:       2", "Overdue:     1", "Due today:   1", "home", "work")
}

func TestTemplates(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "template", "add", "-desc", "Weekly review", "-repeat", "weekly", "-sub", "Inbox zero", "review")
	assertContains(t, out, `Added template "review".`)

	if _, err := env.run(t, "template", "add", "review"); err == nil {
		t.Error("expected error for duplicate template")
	}

	out = env.mustRun(t, "template", "ls")
	assertContains(t, out, "review", "every week", "+1 subtasks")

	out = env.mustRun(t, "template", "use", "review", "-due", "2024-03-11")
	assertContains(t, out, `from template "review": Weekly review (due 2024-03-11)`)

	exported := filepath.Join(env.dir, "templates.toml")
	env.mustRun(t, "template", "export", "-o", exported)
	env.mustRun(t, "template", "rm", "review")

	out = env.mustRun(t, "template", "import", exported)
	assertContains(t, out, "1 added, 0 replaced, 0 skipped")
	out = env.mustRun(t, "template", "import", exported)
	assertContains(t, out, "0 added, 0 replaced, 1 skipped")
}

func TestReminders(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "-due", "2024-03-10", "Call the bank")

	out := env.mustRun(t, "remind", "add", "1", "-at", "2024-03-10 09:30", "-m", "Call before noon")
	assertContains(t, out, "Reminder set for #1 at 2024-03-10 09:30")

	out = env.mustRun(t, "remind", "ls")
	assertContains(t, out, "Call before noon")

	out = env.mustRun(t, "remind", "check")
	assertContains(t, out, "Call before noon", "task #1: Call the bank")

	out = env.mustRun(t, "remind", "check")
	assertContains(t, out, "No reminders due.")

	out = env.mustRun(t, "remind", "ls")
	assertContains(t, out, "No reminders.")
	out = env.mustRun(t, "remind", "ls", "-a")
	assertContains(t, out, "shown")

	if _, err := env.run(t, "remind", "add", "42"); err == nil {
		t.Error("expected error for missing task")
	}
}

func TestRemindSubtask(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "-due", "2024-03-15", "Plan trip")

	if _, err := env.run(t, "remind", "add", "2"); err == nil {
		t.Fatal("expected error for reminder on missing subtask")
	}

	env.mustRun(t, "sub", "add", "1", "Book flights")
	out := env.mustRun(t, "remind", "add", "2")
	assertContains(t, out, "Reminder set for #2 at 2024-03-15 09:00")

	out = env.mustRun(t, "remind", "ls")
	assertContains(t, out, "#2", "Book flights")
}

func TestGroups(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Draft outline")
	env.mustRun(t, "group", "add", "book")
	env.mustRun(t, "group", "assign", "1", "book")

	out := env.mustRun(t, "group", "ls")
	assertContains(t, out, "book", "1 tasks, 0 done")

	out = env.mustRun(t, "ls", "-group", "book")
	assertContains(t, out, "Draft outline")

	env.mustRun(t, "group", "rename", "book", "novel")
	out = env.mustRun(t, "show", "1")
	assertContains(t, out, "Group:       novel")

	env.mustRun(t, "group", "unassign", "1")
	env.mustRun(t, "group", "rm", "novel")
	out = env.mustRun(t, "group", "ls")
	assertContains(t, out, "No project groups.")
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "-due", "2024-03-11", "-category", "work", "Ship release")

	out := env.mustRun(t, "export")
	assertContains(t, out, "# Tasks", "Ship release")

	out = env.mustRun(t, "export", "-format", "csv")
	assertContains(t, out, "ID,Description,Date", "Ship release")

	icsPath := filepath.Join(env.dir, "tasks.ics")
	out = env.mustRun(t, "export", "-o", icsPath)
	assertContains(t, out, "Exported 1 tasks", "(ics)")
	data, err := os.ReadFile(icsPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	assertContains(t, string(data), "BEGIN:VCALENDAR", "Ship release")

	if _, err := env.run(t, "export", "-format", "pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestBackupAndRestore(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Keep me")

	out := env.mustRun(t, "backup")
	assertContains(t, out, "Backed up")

	backups, err := storage.ListBackups(env.backupDir)
	if err != nil || len(backups) != 1 {
		t.Fatalf("ListBackups = %v, %v; want one backup", backups, err)
	}

	out = env.mustRun(t, "backups")
	assertContains(t, out, filepath.Base(backups[0].Path))

	env.mustRun(t, "rm", "1")
	out = env.mustRun(t, "restore", filepath.Base(backups[0].Path))
	assertContains(t, out, "Restored")

	out = env.mustRun(t, "ls")
	assertContains(t, out, "Keep me")

	if _, err := env.run(t, "restore", "missing.json"); err == nil {
		t.Error("expected error for missing backup")
	}
}

func TestBackupWithoutTaskFile(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "backup"); err == nil {
		t.Error("expected error when there is no task file")
	}
}

func TestDoctor(t *testing.T) {
	t.Run("passes on a fresh setup", func(t *testing.T) {
		env := newTestEnv(t)
		out := env.mustRun(t, "doctor")
		assertContains(t, out, "Not found", "All checks passed!")
	})

	t.Run("reports a valid task file", func(t *testing.T) {
		env := newTestEnv(t)
		env.mustRun(t, "add", "Check me")
		out := env.mustRun(t, "doctor", "-v")
		assertContains(t, out, "✅ Valid", "#1: Check me")
	})

	t.Run("fails on an invalid task file", func(t *testing.T) {
		env := newTestEnv(t)
		if err := os.WriteFile(env.dataFile, []byte(`{"version": 1, "tasks": [{"id": "one"}]}`), 0644); err != nil {
			t.Fatal(err)
		}
		out, err := env.run(t, "doctor")
		if err == nil || !strings.Contains(err.Error(), "doctor checks failed") {
			t.Fatalf("expected doctor failure, got %v", err)
		}
		assertContains(t, out, "❌")
	})
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "settings")
	assertContains(t, out, "data_file", env.dataFile, "(environment)", "(default)")

	out = env.mustRun(t, "settings", "init", "-project")
	assertContains(t, out, "Wrote tasker.toml")
	if _, err := os.Stat(filepath.Join(env.dir, "tasker.toml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := env.run(t, "settings", "init", "-project"); err == nil {
		t.Error("expected error when config exists")
	}

	out = env.mustRun(t, "settings")
	assertContains(t, out, "Config file: tasker.toml", "(project file)")
}

func TestLogCommand(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Logged task")

	out := env.mustRun(t, "log", "-n", "5")
	assertContains(t, out, "task added")
}

func TestTUIRequiresTTY(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "tui")
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Fatalf("expected TTY error, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"#12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
