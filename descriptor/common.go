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

// Package descriptor holds the three message shapes the runtime moves
// around: Event, Command and Data descriptors, plus the Common header they
// all embed. None of these types are safe for concurrent mutation after
// they cross a package boundary; callers own a descriptor until they hand
// it to post/exec/send and must not touch it again.
package descriptor

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nabbar/ioc-core/id"
)

var seq uint64

// nextSeq hands out a monotonically increasing sequence number, used to
// order descriptors emitted by the same process faster than a uuid
// comparison would.
func nextSeq() uint64 {
	return atomic.AddUint64(&seq, 1)
}

// Common is embedded by every descriptor kind.
type Common struct {
	// MsgID uniquely identifies this message instance process-wide.
	MsgID uuid.UUID

	// Sequence orders messages emitted by this process.
	Sequence uint64

	// Timestamp is the creation time of the descriptor.
	Timestamp time.Time

	// SrcLink is the link that produced this descriptor, id.AutoLink for
	// connectionless traffic.
	SrcLink id.LinkId
}

// NewCommon stamps a fresh Common header.
func NewCommon(src id.LinkId) Common {
	return Common{
		MsgID:     uuid.New(),
		Sequence:  nextSeq(),
		Timestamp: time.Now(),
		SrcLink:   src,
	}
}
