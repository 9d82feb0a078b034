package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	origOutput := defaultLogger.output
	origLevel := defaultLogger.level
	SetOutput(&buf)
	t.Cleanup(func() {
		defaultLogger.output = origOutput
		defaultLogger.level = origLevel
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(WARN)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below the level leaked:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("messages at or above the level missing:\n%s", out)
	}
}

func TestComponentField(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(INFO)

	Component("storage").Info("opened")

	if !strings.Contains(buf.String(), "component=storage") {
		t.Errorf("component tag missing:\n%s", buf.String())
	}
}

func TestFieldsAreSorted(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(INFO)

	WithField("zebra", 1).WithField("apple", 2).Info("msg")

	out := buf.String()
	if strings.Index(out, "apple=2") > strings.Index(out, "zebra=1") {
		t.Errorf("fields should render in sorted key order:\n%s", out)
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(INFO)

	parent := Component("api")
	parent.WithField("request", "abc")
	parent.Info("plain")

	if strings.Contains(buf.String(), "request=abc") {
		t.Errorf("child field leaked into the parent:\n%s", buf.String())
	}
}

func TestFormatArgs(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(INFO)

	Info("count is %d", 7)

	if !strings.Contains(buf.String(), "count is 7") {
		t.Errorf("printf args not applied:\n%s", buf.String())
	}
}

func TestConcurrentLogging(t *testing.T) {
	captureOutput(t)
	SetLevel(INFO)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Component("worker").Info("tick")
		}()
	}
	wg.Wait()
}
