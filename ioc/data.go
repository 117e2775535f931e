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

package ioc

import (
	"context"

	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/iocconfig"
)

// SendDat sends payload to lid's peer as a reliable data chunk.
func (m *Manager) SendDat(ctx context.Context, lid id.LinkId, payload []byte) error {
	backend, err := m.backendFor(lid)
	if err != nil {
		return err
	}
	dat, err := descriptor.NewData(lid, payload)
	if err != nil {
		return err
	}
	return backend.SendData(ctx, lid, dat)
}

// RecvDat blocks up to opt's timeout for the next data chunk addressed to
// lid.
func (m *Manager) RecvDat(ctx context.Context, lid id.LinkId, opt iocconfig.Option) (*descriptor.Data, error) {
	backend, err := m.backendFor(lid)
	if err != nil {
		return nil, err
	}
	return m.dsp.RecvData(ctx, backend, lid, opt)
}

// FlushDat is a no-op for backends with no internal send buffering (the
// local backend delivers synchronously); it exists so a caller's code does
// not need to special-case which backend a link resolved to.
func (m *Manager) FlushDat(_ context.Context, lid id.LinkId) error {
	_, err := m.backendFor(lid)
	return err
}
