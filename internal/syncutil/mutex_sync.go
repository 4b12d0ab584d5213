//go:build !deadlock

// Package syncutil holds the mutex types used for shared limiter state.
// Building with -tags=deadlock swaps them for go-deadlock detectors.
package syncutil

import "sync"

// DeadlockDetection reports whether the deadlock detector is compiled in.
const DeadlockDetection = false

// Mutex is a mutual exclusion lock.
type Mutex struct {
	sync.Mutex
}

// RWMutex is a reader/writer mutual exclusion lock.
type RWMutex struct {
	sync.RWMutex
}
