package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Level
		wantErr bool
	}{
		{"debug", log.DebugLevel, false},
		{"", log.InfoLevel, false},
		{"INFO", log.InfoLevel, false},
		{"warning", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", log.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Formatter
		wantErr bool
	}{
		{"json", log.JSONFormatter, false},
		{"logfmt", log.LogfmtFormatter, false},
		{"text", log.TextFormatter, false},
		{"", log.LogfmtFormatter, false},
		{"xml", log.LogfmtFormatter, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormatter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormatter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormatter(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := OptionsFromConfig("debug", "json", false, true)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if opts.Level != log.DebugLevel || opts.Formatter != log.JSONFormatter {
		t.Errorf("got level %v formatter %v", opts.Level, opts.Formatter)
	}
	if opts.ReportTimestamp || !opts.ReportCaller {
		t.Errorf("flags not applied: %+v", opts)
	}
	if _, err := OptionsFromConfig("nope", "json", false, false); err == nil {
		t.Error("expected error for bad level")
	}
	if _, err := OptionsFromConfig("info", "nope", false, false); err == nil {
		t.Error("expected error for bad format")
	}
}

func TestNewWritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ReportTimestamp = false
	logger := New(&buf, opts)

	logger.Debug("hidden")
	logger.Info("task added", "id", 7)

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("debug record written at info level: %q", got)
	}
	for _, want := range []string{"level=info", "prefix=tasker", `msg="task added"`, "id=7"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestActivityLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasker.log")

	a, err := OpenActivityLog(path)
	if err != nil {
		t.Fatalf("OpenActivityLog: %v", err)
	}
	opts := DefaultOptions()
	opts.ReportTimestamp = false
	a.Logger(opts).Info("first")
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	a, err = OpenActivityLog(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	a.Logger(opts).Info("second")
	a.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("log should be appended to, got %q", data)
	}

	if _, err := OpenActivityLog(""); err == nil {
		t.Error("expected error for empty path")
	}
	var nilLog *ActivityLog
	if err := nilLog.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestRotate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasker.log")

	rotated, err := Rotate(path, 10)
	if err != nil || rotated {
		t.Fatalf("missing file: rotated=%v err=%v", rotated, err)
	}

	if err := os.WriteFile(path, []byte("short\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if rotated, _ := Rotate(path, 10); rotated {
		t.Error("small file should not rotate")
	}

	if err := os.WriteFile(path, []byte(strings.Repeat("x", 20)), 0644); err != nil {
		t.Fatal(err)
	}
	rotated, err = Rotate(path, 10)
	if err != nil || !rotated {
		t.Fatalf("large file: rotated=%v err=%v", rotated, err)
	}
	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("rotated file missing: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("original should be gone, stat err = %v", err)
	}
}

func TestTailLog(t *testing.T) {
	ctx := context.Background()

	t.Run("tails entire file when n=0", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		content := "line1\nline2\nline3\n"
		if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 0, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != content {
			t.Errorf("got %q, want %q", buf.String(), content)
		}
	})

	t.Run("tails last n lines", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(logFile, []byte("line1\nline2\nline3\nline4\nline5\n"), 0644); err != nil {
			t.Fatal(err)
		}

		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 2, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "line4\nline5\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("n larger than file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(logFile, []byte("only\n"), 0644); err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 10, false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "only\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("lines spanning blocks", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		var b strings.Builder
		for i := 0; i < 200; i++ {
			b.WriteString(strings.Repeat("a", 60))
			b.WriteString("\n")
		}
		b.WriteString("tail-a\ntail-b")
		if err := os.WriteFile(logFile, []byte(b.String()), 0644); err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, logFile, 2, false); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "tail-a\ntail-b" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		if err := TailLog(ctx, &buf, filepath.Join(t.TempDir(), "nope.log"), 5, false); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestTailLogFollow(t *testing.T) {
	followInterval = 10 * time.Millisecond
	t.Cleanup(func() { followInterval = 100 * time.Millisecond })

	logFile := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(logFile, []byte("old\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- TailLog(ctx, out, logFile, 0, true) }()

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("new\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "new\n") && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("TailLog follow: %v", err)
	}
	if out.String() != "old\nnew\n" {
		t.Errorf("got %q", out.String())
	}
}
