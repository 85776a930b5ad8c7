package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	// Save original logger
	original := Logf
	defer func() { Logf = original }()

	var got []string
	SetLogger(func(format string, v ...interface{}) {
		got = append(got, fmt.Sprintf(format, v...))
	})
	Logf("solve took %dms", 12)

	if len(got) != 1 || got[0] != "solve took 12ms" {
		t.Fatalf("custom logger got %q", got)
	}

	// nil installs a no-op; the previous logger must not be called
	SetLogger(nil)
	Logf("dropped")
	if len(got) != 1 {
		t.Errorf("no-op logger should not have triggered callback, got %q", got)
	}
}

func TestVerbosef(t *testing.T) {
	original := Logf
	defer func() {
		Logf = original
		SetVerbose(false)
	}()

	calls := 0
	SetLogger(func(string, ...interface{}) { calls++ })

	SetVerbose(false)
	Verbosef("quiet")
	if calls != 0 {
		t.Errorf("Verbosef logged while verbose disabled")
	}

	SetVerbose(true)
	if !Verbose() {
		t.Fatal("Verbose() = false after SetVerbose(true)")
	}
	Verbosef("loud %s", "step")
	if calls != 1 {
		t.Errorf("Verbosef calls = %d, want 1", calls)
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}
