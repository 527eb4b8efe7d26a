package leaktest

import (
	"testing"
	"time"
)

func TestCheckerPassesWhenGoroutinesExit(t *testing.T) {
	checker := NewGoroutineChecker(t)

	done := make(chan struct{})
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(done)
	}()
	<-done

	checker.Check(0)
}

func TestCheckerReportsLeak(t *testing.T) {
	rec := &recordingTB{TB: t}
	checker := NewGoroutineChecker(rec)

	stop := make(chan struct{})
	go func() { <-stop }()
	defer close(stop)

	checker.Check(0)
	if !rec.failed {
		t.Error("expected leak report for goroutine blocked on channel")
	}
}

func TestCheckerRespectsTolerance(t *testing.T) {
	checker := NewGoroutineChecker(t)

	stop := make(chan struct{})
	go func() { <-stop }()
	defer close(stop)

	checker.Check(1)
}

func TestCheckNoGoroutineLeak(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		done := make(chan struct{})
		go close(done)
		<-done
	})
}

// recordingTB captures Errorf calls so the leak path can be asserted
// without failing the real test.
type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Errorf(string, ...interface{}) { r.failed = true }
