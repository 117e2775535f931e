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

// ServiceFlag is a bitmask of behaviors a Service opts into at online time.
type ServiceFlag uint32

const (
	// BroadcastEvent permits Manager.BroadcastEvt on this service, which
	// posts one event to every link the service accepted other than the
	// source. PostEvent on a single link is not affected by it.
	BroadcastEvent ServiceFlag = 1 << iota

	// AutoAccept runs a background daemon that accepts incoming links
	// without the application calling AcceptClient itself.
	AutoAccept

	// KeepAcceptedLink is recorded in the service's flags, but neither
	// bundled backend acts on it: OfflineService frees every link of the
	// service whether or not it is set.
	KeepAcceptedLink
)

// Has reports whether flag is set.
func (f ServiceFlag) Has(flag ServiceFlag) bool {
	return f&flag != 0
}

// UsageRole is a bitmask describing which IOC capabilities a Service or
// connecting client intends to use. The registry and protocol dispatch use
// it to reject operations a peer never declared.
type UsageRole uint32

const (
	EventProducer UsageRole = 1 << iota
	EventConsumer
	CmdInitiator
	CmdExecutor
	DataSender
	DataReceiver
)

// Has reports whether role is declared.
func (u UsageRole) Has(role UsageRole) bool {
	return u&role != 0
}
