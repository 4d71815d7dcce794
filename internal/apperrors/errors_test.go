package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_Unclassified(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("expected KindInternal for plain error, got %q", got)
	}
}

func TestWrap_KeepsOriginalKind(t *testing.T) {
	inner := New(KindNotFound, "object missing")
	wrapped := Wrap(KindStorage, "stat object", inner)

	if got := KindOf(wrapped); got != KindNotFound {
		t.Fatalf("expected original kind to survive wrapping, got %q", got)
	}
	if !errors.Is(wrapped, inner) {
		t.Fatalf("wrapped error should match inner via errors.Is")
	}
}

func TestWrap_NilPassthrough(t *testing.T) {
	if err := Wrap(KindStorage, "noop", nil); err != nil {
		t.Fatalf("wrapping nil should yield nil, got %v", err)
	}
}

func TestKindOf_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("upload: %w", New(KindValidation, "bad extension"))
	if got := KindOf(err); got != KindValidation {
		t.Fatalf("expected KindValidation through %%w chain, got %q", got)
	}
	if !IsKind(err, KindValidation) {
		t.Fatalf("IsKind should agree with KindOf")
	}
}
