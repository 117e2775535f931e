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

// ExecCmd runs cmd against lid's peer and blocks until it reaches a
// terminal status or opt's timeout expires.
func (m *Manager) ExecCmd(ctx context.Context, lid id.LinkId, cmdID descriptor.CmdID, request []byte, opt iocconfig.Option) (*descriptor.Command, error) {
	backend, err := m.backendFor(lid)
	if err != nil {
		return nil, err
	}
	cmd := descriptor.NewCommand(lid, cmdID, request)
	if err := cmd.SetStatus(descriptor.CmdPending); err != nil {
		return nil, err
	}
	if err := m.dsp.ExecCmd(ctx, backend, lid, cmd, opt); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// WaitCmd blocks until cmd reaches a terminal status or opt's timeout
// expires, for a command an executor received asynchronously.
func (m *Manager) WaitCmd(ctx context.Context, lid id.LinkId, cmd *descriptor.Command, opt iocconfig.Option) error {
	backend, err := m.backendFor(lid)
	if err != nil {
		return err
	}
	return backend.WaitCmd(ctx, lid, cmd, opt)
}

// AckCmd lets an initiator acknowledge a terminal command, freeing any
// backend-side bookkeeping tied to it.
func (m *Manager) AckCmd(ctx context.Context, lid id.LinkId, cmd *descriptor.Command) error {
	backend, err := m.backendFor(lid)
	if err != nil {
		return err
	}
	return backend.AckCmd(ctx, lid, cmd)
}
