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

package descriptor

import (
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/iocerr"
)

// Data is a chunk of a reliable byte stream moved between two connected
// links. Exactly one of the two payload forms must carry bytes: either
// Embedded is non-empty, or External is non-nil with a positive length -
// never both, never neither. NewData/NewDataExternal are the only
// constructors and they enforce this so a zero-length Data can never be
// built (the ZERO_DATA case is rejected at the boundary, not tolerated
// downstream).
type Data struct {
	Common

	Embedded []byte
	External []byte
}

// NewData builds a Data descriptor carrying an inline payload.
func NewData(src id.LinkId, payload []byte) (*Data, error) {
	if len(payload) == 0 {
		return nil, iocerr.New(iocerr.CodeZeroData, "data payload must be non-empty")
	}
	return &Data{Common: NewCommon(src), Embedded: payload}, nil
}

// NewDataExternal builds a Data descriptor referencing an externally owned
// buffer (large transfers that should not be copied into the descriptor).
func NewDataExternal(src id.LinkId, buf []byte) (*Data, error) {
	if len(buf) == 0 {
		return nil, iocerr.New(iocerr.CodeZeroData, "data buffer must be non-empty")
	}
	return &Data{Common: NewCommon(src), External: buf}, nil
}

// Bytes returns whichever payload form is populated.
func (d *Data) Bytes() []byte {
	if len(d.Embedded) > 0 {
		return d.Embedded
	}
	return d.External
}

// Len reports the payload length.
func (d *Data) Len() int {
	return len(d.Bytes())
}
