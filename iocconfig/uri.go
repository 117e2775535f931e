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

package iocconfig

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ProtocolAuto lets the registry try every registered backend, in
	// registration order, until one accepts the URI.
	ProtocolAuto = "auto"

	// HostLocalProcess addresses a service living in the same process,
	// bypassing any real transport.
	HostLocalProcess = "localprocess"

	// HostLoopback addresses a service on the same host through whatever
	// real transport the protocol backend implements.
	HostLoopback = "localhost"
)

// URI identifies a Service endpoint: Protocol://Host[:Port]/Path.
type URI struct {
	Protocol string
	Host     string
	Port     uint16
	Path     string
}

// Parse parses a string of the form "protocol://host[:port][/path]".
func Parse(s string) (URI, error) {
	var u URI

	proto, rest, ok := strings.Cut(s, "://")
	if !ok || proto == "" {
		return u, fmt.Errorf("iocconfig: malformed uri %q: missing scheme", s)
	}
	u.Protocol = proto

	hostport := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		hostport = rest[:i]
		u.Path = rest[i:]
	}
	if hostport == "" {
		return u, fmt.Errorf("iocconfig: malformed uri %q: missing host", s)
	}

	if h, p, ok := strings.Cut(hostport, ":"); ok {
		port, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return u, fmt.Errorf("iocconfig: malformed uri %q: bad port: %w", s, err)
		}
		u.Host = h
		u.Port = uint16(port)
	} else {
		u.Host = hostport
	}

	return u, nil
}

// String renders the URI back to its canonical textual form.
func (u URI) String() string {
	if u.Port == 0 {
		return fmt.Sprintf("%s://%s%s", u.Protocol, u.Host, u.Path)
	}
	return fmt.Sprintf("%s://%s:%d%s", u.Protocol, u.Host, u.Port, u.Path)
}

// Equal reports whether two URIs address the same endpoint. Two services
// online on the same host/port/path under different concrete protocols are
// still the same endpoint once "auto" resolution is in play, so Equal
// ignores Protocol when either side is ProtocolAuto.
func (u URI) Equal(o URI) bool {
	if u.Host != o.Host || u.Port != o.Port || u.Path != o.Path {
		return false
	}
	if u.Protocol == ProtocolAuto || o.Protocol == ProtocolAuto {
		return true
	}
	return u.Protocol == o.Protocol
}

// IsLocalProcess reports whether this URI addresses the reserved
// same-process host token.
func (u URI) IsLocalProcess() bool {
	return u.Host == HostLocalProcess
}
