package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeUserInput, "unknown action \"dance\"")
	if !stderrors.Is(err, New(CodeUserInput, "other message")) {
		t.Error("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeStateViolation, "")) {
		t.Error("expected errors with different codes not to match")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodePersistence, "save failed", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
	if err.Error() != "save failed: disk full" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCodeOfThroughFmtWrap(t *testing.T) {
	inner := New(CodeDataIntegrity, "missing name")
	outer := fmt.Errorf("record 3: %w", inner)
	if got := CodeOf(outer); got != CodeDataIntegrity {
		t.Errorf("expected %s, got %s", CodeDataIntegrity, got)
	}
	if !HasCode(outer, CodeDataIntegrity) {
		t.Error("expected HasCode to find the code")
	}
	if got := CodeOf(fmt.Errorf("plain")); got != CodeUnknown {
		t.Errorf("expected %s for plain errors, got %s", CodeUnknown, got)
	}
}
