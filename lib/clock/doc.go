// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that timestamps runs, measures per-file durations, or logs
// progress periodically takes a [Clock] instead of calling time.Now and
// time.NewTicker directly. Production wires [Real]; tests wire [Fake],
// which stands still until [FakeClock.Advance] is called.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	c.SetStep(5 * time.Millisecond) // every Now reads 5ms later
//	runner := batch.New(batch.Options{Clock: c})
package clock
