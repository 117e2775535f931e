/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package iocconfig holds the small value types every call into the runtime
// carries as option bags: Option (timeout + sync mode), ServiceArgs/ConnArgs,
// the URI grammar, and the usage/capability bitmasks. None of these types
// own a mutex or a goroutine; they are plain immutable-by-convention values,
// copied the way the teacher's context package copies its option structs.
package iocconfig

import "time"

const (
	// TimeoutNonBlock makes a blocking operation return immediately with
	// CodeTimeout/CodeNoData if it cannot complete right away.
	TimeoutNonBlock time.Duration = 0

	// TimeoutInfinite makes a blocking operation wait forever.
	TimeoutInfinite time.Duration = -1

	// TimeoutMax is the largest timeout the runtime will honor literally;
	// longer values are clamped to it rather than treated as infinite, so a
	// caller mistake never turns into an unbounded real wait.
	TimeoutMax = 24 * time.Hour
)

// SyncMode selects whether an event/command/data operation blocks the
// caller until completion (Sync) or returns as soon as it is accepted for
// processing (Async).
type SyncMode uint8

const (
	Async SyncMode = iota
	Sync
)

// Option carries the per-call knobs accepted by post/exec/send/recv style
// operations.
type Option struct {
	Timeout time.Duration
	Mode    SyncMode
}

// Clamp normalizes a caller-supplied timeout: negative values other than
// TimeoutInfinite are treated as TimeoutNonBlock, and values above
// TimeoutMax are clamped down to it.
func (o Option) Clamp() time.Duration {
	switch {
	case o.Timeout == TimeoutInfinite:
		return TimeoutInfinite
	case o.Timeout <= TimeoutNonBlock:
		return TimeoutNonBlock
	case o.Timeout > TimeoutMax:
		return TimeoutMax
	default:
		return o.Timeout
	}
}

// IsSync reports whether the call should block for completion.
func (o Option) IsSync() bool {
	return o.Mode == Sync
}

// NonBlocking is the zero-wait, fire-and-forget option.
func NonBlocking() Option {
	return Option{Timeout: TimeoutNonBlock, Mode: Async}
}

// Blocking builds a synchronous option with the given wait budget.
func Blocking(timeout time.Duration) Option {
	return Option{Timeout: timeout, Mode: Sync}
}
