// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Metrolab

package session

import (
	"sync"
	"time"
)

// Refresher drives the auto-refresh polling loop: while started, it
// invokes its notify callback on a fixed period. The callback runs on
// the ticker goroutine and must hand off to the session owner (the
// console posts a message into the Bubble Tea program).
//
// Ticks fire on schedule regardless of whether the previous cycle's
// request has completed; overlapping responses are defused by the
// session's freshness tokens, not by serializing here. A failed cycle
// never stops the ticker.
type Refresher struct {
	notify func()

	mu   sync.Mutex
	stop chan struct{}
}

// NewRefresher creates a stopped refresher.
func NewRefresher(notify func()) *Refresher {
	return &Refresher{notify: notify}
}

// Start begins periodic notification. A running refresher is restarted
// with the new interval.
func (r *Refresher) Start(interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stop != nil {
		close(r.stop)
	}
	stop := make(chan struct{})
	r.stop = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.notify()
			}
		}
	}()
}

// Stop cancels future ticks. Idempotent; safe to call whenever the
// operator disables auto-refresh, the selection changes, or the active
// device is deleted.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

// Active reports whether the refresher is currently started.
func (r *Refresher) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop != nil
}
