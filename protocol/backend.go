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

// Package protocol defines the pluggable transport vtable (Backend) and the
// façade (Dispatch) that routes to whichever backend a service's URI
// resolved to. Dispatch does not check arguments itself; backends reject
// the arguments they cannot serve (unknown links, foreign URIs, and so on).
package protocol

import (
	"context"

	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/iocconfig"
)

// Backend is the method table a concrete transport implements. A backend
// never blocks longer than the context it is given allows.
type Backend interface {
	// Name identifies the protocol scheme this backend serves, e.g. "nats"
	// or "local". iocconfig.ProtocolAuto is never a backend's own name.
	Name() string

	OnlineService(ctx context.Context, uri iocconfig.URI, usage iocconfig.UsageRole, flags iocconfig.ServiceFlag, args iocconfig.UsageArgs) (id.ServiceId, error)
	OfflineService(ctx context.Context, sid id.ServiceId) error

	AcceptClient(ctx context.Context, sid id.ServiceId) (id.LinkId, error)
	ConnectService(ctx context.Context, uri iocconfig.URI, usage iocconfig.UsageRole, args iocconfig.UsageArgs) (id.LinkId, error)
	CloseLink(ctx context.Context, lid id.LinkId) error

	PostEvent(ctx context.Context, lid id.LinkId, evt *descriptor.Event) error

	SendData(ctx context.Context, lid id.LinkId, dat *descriptor.Data) error
	RecvData(ctx context.Context, lid id.LinkId, timeout iocconfig.Option) (*descriptor.Data, error)

	// ExecCmd and the rest of the command path are optional: when a
	// backend's ExecCmd returns an iocerr.CodeNotSupport error, Dispatch
	// falls back to the registry scan implemented in dispatch.go.
	ExecCmd(ctx context.Context, lid id.LinkId, cmd *descriptor.Command, timeout iocconfig.Option) error
	WaitCmd(ctx context.Context, lid id.LinkId, cmd *descriptor.Command, timeout iocconfig.Option) error
	AckCmd(ctx context.Context, lid id.LinkId, cmd *descriptor.Command) error
}
