package debug

import (
	"testing"
	"time"
)

func TestLoggerDisabledByDefault(t *testing.T) {
	l := NewLogger(100)
	defer l.Shutdown()

	l.LogControl(LogLevelError, "should be dropped", nil)

	entries := l.GetEntries()
	if len(entries) != 0 {
		t.Fatalf("expected 0 entries with component disabled, got %d", len(entries))
	}
}

func TestLoggerRecordsEnabledComponent(t *testing.T) {
	l := NewLogger(100)
	defer l.Shutdown()

	l.SetComponentEnabled(ComponentPool, true)
	l.LogPoolf(LogLevelInfo, "layer %d claimed", 3)

	deadline := 0
	var entries []LogEntry
	for deadline < 1000 {
		entries = l.GetEntries()
		if len(entries) > 0 {
			break
		}
		deadline++
		time.Sleep(time.Millisecond) // let the draining goroutine run
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Component != ComponentPool {
		t.Errorf("expected component Pool, got %s", entries[0].Component)
	}
	if entries[0].Message != "layer 3 claimed" {
		t.Errorf("unexpected message: %s", entries[0].Message)
	}
}

func TestLoggerFiltersBelowMinLevel(t *testing.T) {
	l := NewLogger(100)
	defer l.Shutdown()

	l.SetComponentEnabled(ComponentSystem, true)
	l.SetMinLevel(LogLevelError)
	l.LogSystem(LogLevelInfo, "below threshold", nil)

	for i := 0; i < 1000; i++ {
		if len(l.GetEntries()) > 0 {
			t.Fatal("expected entry to be filtered by min level")
		}
	}
}

func TestNilLoggerIsNoOp(t *testing.T) {
	var l *Logger
	l.LogControl(LogLevelError, "must not panic", nil)
	l.LogControlf(LogLevelError, "must not panic: %d", 1)
}
