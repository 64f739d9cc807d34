package result

import (
	"errors"
	"strings"
	"testing"
)

type testError struct {
	msg string
}

func (e *testError) Error() string { return e.msg }

func wrap(err error) *testError {
	return &testError{msg: "wrapped: " + err.Error()}
}

func TestSuccessAndFailureAreExclusive(t *testing.T) {
	ok := Success[int, *testError](7)
	if !IsSuccess(ok) || IsFailure(ok) {
		t.Fatalf("expected success branch")
	}
	if ok.Value() != 7 {
		t.Fatalf("expected value 7, got %d", ok.Value())
	}
	if _, err := ok.Unwrap(); err != nil {
		t.Fatalf("expected nil error from success, got %v", err)
	}

	failed := Failure[int](&testError{msg: "boom"})
	if failed.IsSuccess() || !failed.IsFailure() {
		t.Fatalf("expected failure branch")
	}
	if _, err := failed.Unwrap(); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom error, got %v", err)
	}
}

func TestMapSkipsFailures(t *testing.T) {
	doubled := Map(Success[int, *testError](21), func(v int) int { return v * 2 })
	if doubled.Value() != 42 {
		t.Fatalf("expected 42, got %d", doubled.Value())
	}

	called := false
	mapped := Map(Failure[int](&testError{msg: "nope"}), func(v int) string {
		called = true
		return "x"
	})
	if called {
		t.Fatalf("map function must not run on failure")
	}
	if mapped.Err().msg != "nope" {
		t.Fatalf("expected failure to propagate, got %v", mapped.Err())
	}
}

func TestTryCatchConvertsErrorsAndPanics(t *testing.T) {
	r := TryCatch(func() (string, error) { return "done", nil }, wrap)
	if r.Value() != "done" {
		t.Fatalf("expected done, got %q", r.Value())
	}

	r = TryCatch(func() (string, error) { return "", errors.New("disk full") }, wrap)
	if !r.IsFailure() || r.Err().msg != "wrapped: disk full" {
		t.Fatalf("expected mapped error, got %+v", r.Err())
	}

	r = TryCatch(func() (string, error) { panic("driver exploded") }, wrap)
	if !r.IsFailure() || !strings.Contains(r.Err().msg, "driver exploded") {
		t.Fatalf("expected recovered panic, got %+v", r.Err())
	}
}
