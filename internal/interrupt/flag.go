// Package interrupt holds the single process-wide cancellation flag that
// every blocking point in the core consults: file-walk boundaries, each
// subprocess spawn, and every poll tick of a running subprocess.
package interrupt

import "sync/atomic"

// Flag is an atomic single-word cancellation signal, safe to share across
// goroutines without a lock.
type Flag struct {
	set atomic.Bool
}

// Set marks the flag as raised. Typically called from a signal handler.
func (f *Flag) Set() {
	f.set.Store(true)
}

// IsSet reports whether the flag has been raised.
func (f *Flag) IsSet() bool {
	return f.set.Load()
}
