// Package leaktest provides goroutine leak detection for tests that
// spin up background workers, such as store subscriptions and SSE fans.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleDelay  = 10 * time.Millisecond
	pollInterval = 10 * time.Millisecond
	pollDeadline = 500 * time.Millisecond
)

// GoroutineChecker records the goroutine count at construction and
// reports a leak if the count has not returned to within a tolerance
// by the time Check is called.
type GoroutineChecker struct {
	t      testing.TB
	before int
}

func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	time.Sleep(settleDelay)
	return &GoroutineChecker{t: t, before: runtime.NumGoroutine()}
}

// Check polls until the goroutine count drops back to the baseline plus
// tolerance, or the deadline passes. Polling instead of a fixed sleep
// keeps slow CI machines from producing false positives.
func (c *GoroutineChecker) Check(tolerance int) {
	c.t.Helper()

	target := c.before + tolerance
	deadline := time.Now().Add(pollDeadline)
	for {
		runtime.Gosched()
		after := runtime.NumGoroutine()
		if after <= target {
			return
		}
		if time.Now().After(deadline) {
			runtime.GC()
			after = runtime.NumGoroutine()
			if after <= target {
				return
			}
			c.t.Errorf("goroutine leak: before=%d after=%d tolerance=%d", c.before, after, tolerance)
			return
		}
		time.Sleep(pollInterval)
	}
}

// CheckNoGoroutineLeak runs fn and fails the test if any goroutine it
// started is still running afterwards.
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
