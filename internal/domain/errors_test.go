package domain

import (
	"errors"
	"regexp"
	"testing"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "record.assign",
		Kind: KindInvalidRecord,
		Path: "check.memo",
		Err:  root,
	}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}

	var got *OpError
	if !errors.As(err, &got) {
		t.Fatalf("expected errors.As to match OpError")
	}
	if got.Kind != KindInvalidRecord {
		t.Fatalf("expected kind %s", KindInvalidRecord)
	}
	if want := "record.assign: invalid_record (path=check.memo): root"; err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestIsKindForOpError(t *testing.T) {
	err := &OpError{Op: "config", Kind: KindInvalidConfig}

	if !IsKind(err, KindInvalidConfig) {
		t.Fatalf("expected IsKind to match")
	}
	if IsKind(errors.New("plain"), KindInvalidConfig) {
		t.Fatalf("expected plain error not to match")
	}
}

func TestRecordNotFoundErrorMessage(t *testing.T) {
	err := &RecordNotFoundError{RecordType: "Check", Options: `{external_id: "some id"}`}

	re := regexp.MustCompile(`Check with OPTIONS=(.*) could not be found`)
	if !re.MatchString(err.Error()) {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected errors.Is(ErrRecordNotFound)")
	}
}

func TestInitializationErrorMessage(t *testing.T) {
	err := &InitializationError{RecordType: "Check", Reference: "vendor(internal_id=1)"}

	re := regexp.MustCompile(`Check\.initialize with .+ failed\.`)
	if !re.MatchString(err.Error()) {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrInitialization) {
		t.Fatalf("expected errors.Is(ErrInitialization)")
	}
}
