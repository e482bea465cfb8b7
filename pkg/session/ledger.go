// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Metrolab

package session

// Ledger counts failed operations for the observability line of the
// console. The count is monotonically non-decreasing within a session
// and resets only on a clean-state registry reload.
type Ledger struct {
	count int
}

// Increment records one failed operation.
func (l *Ledger) Increment() { l.count++ }

// Count returns the number of failures recorded since the last reset.
func (l *Ledger) Count() int { return l.count }

// Reset zeroes the ledger.
func (l *Ledger) Reset() { l.count = 0 }
