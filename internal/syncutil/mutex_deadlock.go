//go:build deadlock

// Package syncutil holds the mutex types used for shared limiter state.
// Building with -tags=deadlock swaps them for go-deadlock detectors.
package syncutil

import (
	"time"

	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockDetection reports whether the deadlock detector is compiled in.
const DeadlockDetection = true

// A pacing wait never holds a lock, so anything held this long is stuck.
func init() {
	deadlock.Opts.DeadlockTimeout = 10 * time.Second
}

// Mutex is a mutual exclusion lock with lock-order and timeout detection.
type Mutex struct {
	deadlock.Mutex
}

// RWMutex is a reader/writer lock with lock-order and timeout detection.
type RWMutex struct {
	deadlock.RWMutex
}
