package clipboard

import (
	"errors"
	"strings"
	"testing"
)

func TestWriteTextUsesHelper(t *testing.T) {
	prev := writeTextFn
	t.Cleanup(func() { writeTextFn = prev })

	var got string
	writeTextFn = func(s string) error { got = s; return nil }

	// The helper lookup happens at package init, so only exercise the
	// wrapper when a helper exists on this machine.
	if err := WriteText("#FF0000"); err != nil {
		t.Skipf("no clipboard helper: %v", err)
	}
	if got != "#FF0000" {
		t.Fatalf("helper received %q", got)
	}
}

func TestWriteTextWrapsError(t *testing.T) {
	prev := writeTextFn
	t.Cleanup(func() { writeTextFn = prev })
	boom := errors.New("boom")
	writeTextFn = func(string) error { return boom }
	if err := WriteText("x"); err != nil && !errors.Is(err, boom) && !strings.Contains(err.Error(), "no clipboard utility") {
		t.Fatalf("expected wrapped error, got %v", err)
	} else if err == nil {
		t.Fatalf("expected an error")
	}
}
