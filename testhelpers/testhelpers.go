package testhelpers

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func RandString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a' + byte(rand.Intn(26))
	}
	return string(b)
}

// AssertEq asserts deep equality (and provides a useful difference as a
// test failure).
func AssertEq(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if diff := cmp.Diff(actual, expected); diff != "" {
		t.Fatal(diff)
	}
}

func AssertNil(t *testing.T, actual interface{}) {
	t.Helper()
	if actual != nil {
		t.Fatalf("expected nil: %v", actual)
	}
}

// AssertSameInstance asserts that actual and expected are the same
// value, by identity rather than structural comparison. Use this for
// errors, whose concrete types go-cmp refuses to walk.
func AssertSameInstance(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Fatalf("expected %v and %v to be the same instance", actual, expected)
	}
}

func AssertNotNil(t *testing.T, actual interface{}) {
	t.Helper()
	if actual == nil {
		t.Fatal("expected not nil")
	}
}

func AssertTrue(t *testing.T, actual bool) {
	t.Helper()
	if !actual {
		t.Fatal("expected true")
	}
}

func AssertFalse(t *testing.T, actual bool) {
	t.Helper()
	if actual {
		t.Fatal("expected false")
	}
}

// AssertError asserts that actual is non-nil and its message contains
// expected.
func AssertError(t *testing.T, actual error, expected string) {
	t.Helper()
	if actual == nil {
		t.Fatalf("expected an error with message %q, got nil", expected)
	}
	if !strings.Contains(actual.Error(), expected) {
		t.Fatalf("expected error message %q to contain %q", actual.Error(), expected)
	}
}

func AssertContains(t *testing.T, actual, expected string) {
	t.Helper()
	if !strings.Contains(actual, expected) {
		t.Fatalf("expected %q to contain %q\n\nDiff:%s", actual, expected, cmp.Diff(expected, actual))
	}
}
