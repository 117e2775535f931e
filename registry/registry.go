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

// Package registry is the single owning store of every live Service and
// Link: two fixed-capacity tables, each behind its own mutex. Deliberately
// plain sync.Mutex + array rather than the teacher's generic atomic map -
// the service/link tables need
// multi-field compound operations (allocate-and-link, free-and-cascade)
// that a generic concurrent map cannot express atomically, so a registry
// object with interior mutability and explicit locking is the better fit
// here.
package registry

import (
	"sync"

	"github.com/nabbar/ioc-core/descriptor"
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/iocconfig"
	"github.com/nabbar/ioc-core/iocerr"
)

// MaxServices and MaxLinks bound the registry's fixed tables.
const (
	MaxServices = 64
	MaxLinks    = 256
)

// LinkState tracks a connected-mode Link's lifecycle.
type LinkState uint8

const (
	LinkStateInitialized LinkState = iota
	LinkStateConnecting
	LinkStateConnected
	LinkStateClosing
	LinkStateClosed
)

// Service is a registered accepting endpoint.
type Service struct {
	ID    id.ServiceId
	URI   iocconfig.URI
	Usage iocconfig.UsageRole
	Flags iocconfig.ServiceFlag
	Args  iocconfig.UsageArgs

	// AcceptedLinks lists the links this service has accepted, used to
	// implement BroadcastEvent fan-out. Offline cleanup does not read it;
	// the backends free every link bound to the service instead.
	AcceptedLinks []id.LinkId
}

// Link is one end of a peer pair, either accepted by a Service or produced
// by ConnectService.
type Link struct {
	mu sync.Mutex

	ID      id.LinkId
	Service id.ServiceId
	Usage   iocconfig.UsageRole
	Args    iocconfig.UsageArgs
	State   LinkState

	// Peer names the other end of this pair. Neither bundled backend sets
	// it: both hand the two ends of a pair the same Link, so it stays zero.
	Peer id.LinkId

	PendingData []*descriptor.Data
}

func (l *Link) SetState(s LinkState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.State = s
}

func (l *Link) GetState() LinkState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.State
}

// Lock and Unlock expose the link's own mutex to a protocol backend that
// needs to guard compound access to PendingData (or other per-link state)
// across more than one of the Link struct's fields at once.
func (l *Link) Lock()   { l.mu.Lock() }
func (l *Link) Unlock() { l.mu.Unlock() }

// Registry owns the services and links tables.
type Registry struct {
	svcMu   sync.Mutex
	svc     [MaxServices]*Service
	nextSvc id.ServiceId

	linkMu   sync.Mutex
	link     [MaxLinks]*Link
	nextLink id.LinkId
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{nextLink: id.FirstConnectedLinkId()}
}

// AllocService reserves a slot and returns a new Service registered under
// it.
func (r *Registry) AllocService(uri iocconfig.URI, usage iocconfig.UsageRole, flags iocconfig.ServiceFlag, args iocconfig.UsageArgs) (*Service, error) {
	r.svcMu.Lock()
	defer r.svcMu.Unlock()

	for _, s := range r.svc {
		if s != nil && s.URI.Equal(uri) {
			return nil, iocerr.New(iocerr.CodeConflictSrvArgs, "a service is already online at this uri")
		}
	}

	idx := -1
	for i, s := range r.svc {
		if s == nil {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, iocerr.New(iocerr.CodeTooManyServices, "service table is full")
	}

	r.nextSvc++
	svc := &Service{ID: r.nextSvc, URI: uri, Usage: usage, Flags: flags, Args: args}
	r.svc[idx] = svc
	return svc, nil
}

// FreeService removes a service by id.
func (r *Registry) FreeService(sid id.ServiceId) error {
	r.svcMu.Lock()
	defer r.svcMu.Unlock()

	for i, s := range r.svc {
		if s != nil && s.ID == sid {
			r.svc[i] = nil
			return nil
		}
	}
	return iocerr.New(iocerr.CodeNotExistService, "no such service")
}

// GetService looks up a service by id.
func (r *Registry) GetService(sid id.ServiceId) (*Service, error) {
	r.svcMu.Lock()
	defer r.svcMu.Unlock()

	for _, s := range r.svc {
		if s != nil && s.ID == sid {
			return s, nil
		}
	}
	return nil, iocerr.New(iocerr.CodeNotExistService, "no such service")
}

// FindServiceByURI resolves the service currently online at uri.
func (r *Registry) FindServiceByURI(uri iocconfig.URI) (*Service, error) {
	r.svcMu.Lock()
	defer r.svcMu.Unlock()

	for _, s := range r.svc {
		if s != nil && s.URI.Equal(uri) {
			return s, nil
		}
	}
	return nil, iocerr.New(iocerr.CodeNotExistService, "no service online at this uri")
}

// RangeServices calls fn for every live service; fn returning false stops
// the iteration early.
func (r *Registry) RangeServices(fn func(*Service) bool) {
	r.svcMu.Lock()
	snapshot := make([]*Service, 0, MaxServices)
	for _, s := range r.svc {
		if s != nil {
			snapshot = append(snapshot, s)
		}
	}
	r.svcMu.Unlock()

	for _, s := range snapshot {
		if !fn(s) {
			return
		}
	}
}

// AllocLink reserves a slot in the connected-mode range and returns a new
// Link bound to sid.
func (r *Registry) AllocLink(sid id.ServiceId, usage iocconfig.UsageRole, args iocconfig.UsageArgs) (*Link, error) {
	r.linkMu.Lock()
	defer r.linkMu.Unlock()

	idx := -1
	for i, l := range r.link {
		if l == nil {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, iocerr.New(iocerr.CodeTooManyLinks, "link table is full")
	}

	lnk := &Link{
		ID:      id.FirstConnectedLinkId() + id.LinkId(idx),
		Service: sid,
		Usage:   usage,
		Args:    args,
		State:   LinkStateInitialized,
	}
	r.link[idx] = lnk
	return lnk, nil
}

// FreeLink removes a link by id.
func (r *Registry) FreeLink(lid id.LinkId) error {
	r.linkMu.Lock()
	defer r.linkMu.Unlock()

	if lid.IsAutoLink() {
		return iocerr.New(iocerr.CodeInvalidAutoLinkID, "auto-link id cannot be freed")
	}
	idx := lid.Index()
	if idx >= MaxLinks || r.link[idx] == nil {
		return iocerr.New(iocerr.CodeNotExistLink, "no such link")
	}
	r.link[idx] = nil
	return nil
}

// GetLink looks up a connected-mode link by id in O(1).
func (r *Registry) GetLink(lid id.LinkId) (*Link, error) {
	if lid.IsAutoLink() {
		return nil, iocerr.New(iocerr.CodeInvalidAutoLinkID, "auto-link id has no registry entry")
	}
	r.linkMu.Lock()
	defer r.linkMu.Unlock()

	idx := lid.Index()
	if idx >= MaxLinks || r.link[idx] == nil {
		return nil, iocerr.New(iocerr.CodeNotExistLink, "no such link")
	}
	return r.link[idx], nil
}

// RangeLinks calls fn for every live connected-mode link; fn returning
// false stops the iteration early. Used by the protocol package's
// command-path fallback scan instead of any fixed numeric bound.
func (r *Registry) RangeLinks(fn func(*Link) bool) {
	r.linkMu.Lock()
	snapshot := make([]*Link, 0, MaxLinks)
	for _, l := range r.link {
		if l != nil {
			snapshot = append(snapshot, l)
		}
	}
	r.linkMu.Unlock()

	for _, l := range snapshot {
		if !fn(l) {
			return
		}
	}
}

// LinksOfService returns the ids of every link currently bound to sid.
func (r *Registry) LinksOfService(sid id.ServiceId) []id.LinkId {
	var out []id.LinkId
	r.RangeLinks(func(l *Link) bool {
		if l.Service == sid {
			out = append(out, l.ID)
		}
		return true
	})
	return out
}
