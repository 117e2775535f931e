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

package protocol

import (
	"context"

	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/ioclog"
	"github.com/nabbar/ioc-core/iocconfig"
	"github.com/nabbar/ioc-core/iocerr"
	"github.com/nabbar/ioc-core/registry"
)

// Dispatch routes calls to the resolved Backend. It also implements the
// two behaviors no single backend is
// required to: "auto" protocol resolution, and a registry-scan fallback
// for the command path when a backend doesn't implement ExecCmd itself.
type Dispatch struct {
	log ioclog.Logger
	reg *registry.Registry

	// order preserves registration order, which is the resolution order
	// ProtocolAuto tries backends in.
	order    []string
	backends map[string]Backend
}

// New returns an empty Dispatch bound to reg.
func New(reg *registry.Registry, log ioclog.Logger) *Dispatch {
	if log == nil {
		log = ioclog.Discard()
	}
	return &Dispatch{log: log, reg: reg, backends: map[string]Backend{}}
}

// Register adds a backend under its own Name(). Later calls with the same
// name replace the earlier registration but keep its position in order.
func (d *Dispatch) Register(b Backend) {
	name := b.Name()
	if _, ok := d.backends[name]; !ok {
		d.order = append(d.order, name)
	}
	d.backends[name] = b
}

func (d *Dispatch) resolve(proto string) ([]Backend, error) {
	if proto != iocconfig.ProtocolAuto {
		b, ok := d.backends[proto]
		if !ok {
			return nil, iocerr.New(iocerr.CodeNotSupport, "no backend registered for protocol "+proto)
		}
		return []Backend{b}, nil
	}

	out := make([]Backend, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.backends[name])
	}
	if len(out) == 0 {
		return nil, iocerr.New(iocerr.CodeNotSupport, "no backend registered")
	}
	return out, nil
}

// OnlineService brings a service online. Under ProtocolAuto it tries each
// registered backend in order; the first to succeed wins and no later
// backend is tried, so "auto" never leaves two backends believing they
// both own the same service. A backend that fails leaves nothing online,
// so there is no partial state to tear down.
func (d *Dispatch) OnlineService(ctx context.Context, uri iocconfig.URI, usage iocconfig.UsageRole, flags iocconfig.ServiceFlag, args iocconfig.UsageArgs) (Backend, id.ServiceId, error) {
	candidates, err := d.resolve(uri.Protocol)
	if err != nil {
		return nil, 0, err
	}

	var lastErr error
	for _, b := range candidates {
		sid, err := b.OnlineService(ctx, uri, usage, flags, args)
		if err == nil {
			return b, sid, nil
		}
		lastErr = err
		d.log.Warn("backend rejected online service attempt", ioclog.Fields{"protocol": b.Name(), "error": err.Error()})
	}
	return nil, 0, lastErr
}

// ConnectService mirrors OnlineService's auto-resolution for the client
// side.
func (d *Dispatch) ConnectService(ctx context.Context, uri iocconfig.URI, usage iocconfig.UsageRole, args iocconfig.UsageArgs) (Backend, id.LinkId, error) {
	candidates, err := d.resolve(uri.Protocol)
	if err != nil {
		return nil, 0, err
	}

	var lastErr error
	for _, b := range candidates {
		lid, err := b.ConnectService(ctx, uri, usage, args)
		if err == nil {
			return b, lid, nil
		}
		lastErr = err
		d.log.Warn("backend rejected connect attempt", ioclog.Fields{"protocol": b.Name(), "error": err.Error()})
	}
	return nil, 0, lastErr
}

// ExecCmd runs cmd against the link's backend, enforcing timeout.Clamp()
// as a wall-clock deadline regardless of whether the backend itself
// honors ctx. The framework-side timer is the only thing that can move an
// overdue command to CmdTimeout; the executor callback itself is never
// interrupted, matching a callback model with no cooperative cancellation.
func (d *Dispatch) ExecCmd(ctx context.Context, b Backend, lid id.LinkId, cmd *descriptor.Command, timeout iocconfig.Option) error {
	deadline := timeout.Clamp()
	cctx := ctx
	var cancel context.CancelFunc
	if deadline != iocconfig.TimeoutInfinite {
		cctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		if err := b.ExecCmd(cctx, lid, cmd, timeout); err != nil && iocerr.IsCode(err, iocerr.CodeNotSupport) {
			done <- d.execCmdFallback(cctx, lid, cmd)
			return
		} else {
			done <- err
		}
	}()

	select {
	case err := <-done:
		if err != nil && cctx.Err() != nil {
			_ = cmd.ExpireTimeout()
			return iocerr.New(iocerr.CodeTimeout, "command did not complete before its deadline", err)
		}
		return err
	case <-cctx.Done():
		_ = cmd.ExpireTimeout()
		return iocerr.New(iocerr.CodeTimeout, "command did not complete before its deadline")
	}
}

// execCmdFallback implements the command path for a backend with no native
// ExecCmd: it scans every live connected-mode link looking for one
// declaring CmdExecutor for the requested CmdID and invokes its callback
// directly in-process, rather than trusting a fixed numeric link bound.
func (d *Dispatch) execCmdFallback(ctx context.Context, _ id.LinkId, cmd *descriptor.Command) error {
	var executor *registry.Link
	sawExecutor := false
	d.reg.RangeLinks(func(l *registry.Link) bool {
		if l.Usage.Has(iocconfig.CmdExecutor) && l.Args.Cmd != nil {
			sawExecutor = true
			if l.Args.Cmd.Supports(cmd.CmdIDVal) {
				executor = l
				return false
			}
		}
		return true
	})
	if executor == nil {
		if !sawExecutor {
			return iocerr.New(iocerr.CodeNoCmdExecutor, "no link declares a command executor")
		}
		return iocerr.New(iocerr.CodeNotSupport, "no executor link declares the requested command id")
	}

	if err := cmd.SetStatus(descriptor.CmdProcessing); err != nil {
		return err
	}
	executor.Args.Cmd.Cb(cmd)
	return nil
}

// RecvData blocks up to opt's timeout waiting for data on lid via b.
func (d *Dispatch) RecvData(ctx context.Context, b Backend, lid id.LinkId, opt iocconfig.Option) (*descriptor.Data, error) {
	deadline := opt.Clamp()
	if deadline == iocconfig.TimeoutInfinite {
		return b.RecvData(ctx, lid, opt)
	}
	cctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()
	return b.RecvData(cctx, lid, opt)
}
