package testkit

import (
	"sync"
	"testing"
)

var seamMu sync.Mutex

// Swap replaces a package level seam for the duration of the test
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial holds a global lock until the test ends, for tests that touch shared seams
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(seamMu.Unlock)
}

// SwapSerial is Serial followed by Swap; the seam is restored before the lock is released
func SwapSerial[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	Serial(t)
	Swap(t, target, replacement)
}
