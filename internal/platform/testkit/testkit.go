// Package testkit holds the assertions and seam helpers shared by package tests
package testkit

import (
	"strings"
	"sync"
	"testing"
)

// MustPanic fails the test unless fn panics; it returns the recovered value
func MustPanic(t *testing.T, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatalf("expected a panic")
		}
	}()
	fn()
	return nil
}

// MustNotPanic fails the test if fn panics
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic: %v", r)
		}
	}()
	fn()
}

// MustContain fails the test unless s contains sub
func MustContain(t *testing.T, s, sub string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("missing %q in:\n%s", sub, s)
	}
}

// Swap replaces *target for the rest of the test
func Swap[T any](t *testing.T, target *T, v T) {
	t.Helper()
	old := *target
	*target = v
	t.Cleanup(func() { *target = old })
}

var serial sync.Mutex

// Serial holds a process-wide lock until the test ends; use it in tests that Swap shared seams
func Serial(t *testing.T) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}
