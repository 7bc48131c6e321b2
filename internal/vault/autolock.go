package vault

import (
	"sync"
	"time"
)

// autoLock is the idle timer that locks the vault after a period of
// inactivity. There is at most one pending timer: Arm replaces any previous
// one, Cancel stops it. A generation counter makes a replaced timer inert
// even if it has already fired and is waiting on the mutex, so a stale
// timeout can never lock a freshly re-armed vault.
type autoLock struct {
	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
	fire  func()
}

func newAutoLock(fire func()) *autoLock {
	return &autoLock{fire: fire}
}

// Arm schedules fire to run after d, replacing any pending timer.
// A non-positive d disables the timer entirely.
func (a *autoLock) Arm(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if d <= 0 {
		return
	}

	gen := a.gen
	a.timer = time.AfterFunc(d, func() {
		a.mu.Lock()
		current := a.gen == gen
		if current {
			a.timer = nil
		}
		a.mu.Unlock()

		// fire runs outside the mutex: it calls back into the vault,
		// which may Arm or Cancel this timer again.
		if current {
			a.fire()
		}
	})
}

// Cancel stops any pending timer. Safe to call when none is armed.
func (a *autoLock) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
