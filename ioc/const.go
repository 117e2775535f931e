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
	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/iocconfig"
)

// Re-exported so a caller only needs to import this one package for the
// common vocabulary; the owning packages (id, iocconfig) remain the
// source of truth.
const (
	AutoLink = id.AutoLink

	TimeoutNonBlock = iocconfig.TimeoutNonBlock
	TimeoutInfinite = iocconfig.TimeoutInfinite
	TimeoutMax      = iocconfig.TimeoutMax

	BroadcastEvent   = iocconfig.BroadcastEvent
	AutoAccept       = iocconfig.AutoAccept
	KeepAcceptedLink = iocconfig.KeepAcceptedLink

	EventProducer = iocconfig.EventProducer
	EventConsumer = iocconfig.EventConsumer
	CmdInitiator  = iocconfig.CmdInitiator
	CmdExecutor   = iocconfig.CmdExecutor
	DataSender    = iocconfig.DataSender
	DataReceiver  = iocconfig.DataReceiver
)

type (
	ServiceId   = id.ServiceId
	LinkId      = id.LinkId
	ServiceArgs = iocconfig.ServiceArgs
	ConnArgs    = iocconfig.ConnArgs
	Option      = iocconfig.Option
)
