package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"
)

func TestExitStatusMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeInvalidArgument, ExitInput},
		{ErrorCodeJSON, ExitInput},
		{ErrorCodeValidation, ExitUsage},
		{ErrorCodeNotFound, ExitOutput},
		{ErrorCodeIO, ExitOutput},
		{ErrorCodeDB, ExitOutput},
		{ErrorCodeDuplicateKey, ExitOutput},
		{ErrorCodeUnavailable, ExitOutput},
		{ErrorCodeCanceled, ExitCanceled},
		{ErrorCodeUnknown, ExitInternal},
		{9999, ExitInternal}, // default branch
	}
	for _, c := range cases {
		if got := ExitStatus(c.code); got != c.want {
			t.Fatalf("ExitStatus(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != ExitOK {
		t.Fatalf("ExitCode(nil) should be ExitOK")
	}
	if got := ExitCode(fmt.Errorf("run: %w", context.Canceled)); got != ExitCanceled {
		t.Fatalf("ExitCode(canceled) = %d", got)
	}
	if got := ExitCode(InvalidArgf("feature %d: bad", 1)); got != ExitInput {
		t.Fatalf("ExitCode(invalid) = %d", got)
	}
	if got := ExitCode(stderrs.New("boom")); got != ExitInternal {
		t.Fatalf("ExitCode(foreign) = %d", got)
	}
}

func TestCodeString(t *testing.T) {
	if ErrorCodeIO.String() != "io" || ErrorCodeInvalidArgument.String() != "invalid_argument" {
		t.Fatalf("unexpected names: %s %s", ErrorCodeIO, ErrorCodeInvalidArgument)
	}
	if got := ErrorCode(999).String(); got != "code(999)" {
		t.Fatalf("out of range name = %q", got)
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	// New / Newf
	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeJSON, "bad json %d", 12)
	if got := e2.Error(); got != "bad json 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	// Wrap / Wrapf / Unwrap
	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeDB, "db failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	if CodeOf(e3) != ErrorCodeDB {
		t.Fatalf("CodeOf(Wrap) = %v", CodeOf(e3))
	}
	e4 := Wrapf(src, ErrorCodeIO, "open %s", "roads.geojson")
	// Error() includes message + ": " + orig
	if want := "open roads.geojson: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}

	// As
	if got, ok := As(e4); !ok || got.Code() != ErrorCodeIO {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	// WithField (copy-on-write) and WithOp
	e5 := Wrap(src, ErrorCodeInvalidArgument, "oops")
	e6 := WithField(e5, "maxspeed")
	e7 := WithOp(e6, "checker.rules")
	if fe, ok := As(e6); !ok || fe.Field() != "maxspeed" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "checker.rules" {
		t.Fatalf("WithOp failed")
	}
	// original unchanged
	if fe0, _ := As(e5); fe0.Field() != "" || fe0.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}
	// foreign errors pass through mutators unchanged
	if WithField(src, "x") != src || WithOp(src, "x") != src {
		t.Fatalf("mutators changed a foreign error")
	}

	// Helpers (sugar) and IsCode
	if !IsCode(NotFoundf("x"), ErrorCodeNotFound) ||
		!IsCode(InvalidArgf("x"), ErrorCodeInvalidArgument) ||
		!IsCode(Validationf("x"), ErrorCodeValidation) ||
		!IsCode(DBf("x"), ErrorCodeDB) ||
		!IsCode(JSONErrf("x"), ErrorCodeJSON) ||
		!IsCode(IOf("x"), ErrorCodeIO) ||
		!IsCode(Internalf("x"), ErrorCodeUnknown) {
		t.Fatalf("sugar helpers code mismatch")
	}

	// WrapIf
	if WrapIf(nil, ErrorCodeDB, "ignored") != nil {
		t.Fatalf("WrapIf(nil) should return nil")
	}
	if WrapIf(src, ErrorCodeDB, "db") == nil {
		t.Fatalf("WrapIf(non-nil) should wrap")
	}
}

func TestContext(t *testing.T) {
	if Context(nil) != nil {
		t.Fatalf("Context(nil) should be nil")
	}
	if !IsCode(Context(context.DeadlineExceeded), ErrorCodeCanceled) {
		t.Fatalf("deadline should map to canceled")
	}
	other := stderrs.New("x")
	if Context(other) != other {
		t.Fatalf("non-context error should pass through")
	}
}
