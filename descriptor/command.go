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
	"sync"

	"github.com/nabbar/ioc-core/id"
	"github.com/nabbar/ioc-core/iocerr"
)

// CmdStatus tracks a Command descriptor's lifecycle. Once a descriptor
// reaches a terminal status (Success, Failed or Timeout) it never changes
// again; SetStatus enforces that write-once rule.
type CmdStatus uint8

const (
	CmdInitialized CmdStatus = iota
	CmdPending
	CmdProcessing
	CmdSuccess
	CmdFailed
	CmdTimeout
)

// IsTerminal reports whether a status is one a Command cannot leave.
func (s CmdStatus) IsTerminal() bool {
	return s == CmdSuccess || s == CmdFailed || s == CmdTimeout
}

// CmdID names a class of command, agreed out of band between initiator and
// executor, the same way EventID is.
type CmdID uint64

// Command is a synchronous request/response message. An executor moves it
// through Pending -> Processing -> a terminal status; ExecCmd/WaitCmd block
// the initiator until a terminal status is reached or the caller's timeout
// expires.
type Command struct {
	Common

	mu     sync.Mutex
	status CmdStatus

	CmdIDVal CmdID
	Request  []byte
	Response []byte

	// Err carries the failure reason once Status is CmdFailed.
	Err error
}

// NewCommand builds a Command descriptor in the Initialized state.
func NewCommand(src id.LinkId, cmdID CmdID, request []byte) *Command {
	return &Command{
		Common:   NewCommon(src),
		status:   CmdInitialized,
		CmdIDVal: cmdID,
		Request:  request,
	}
}

// Status returns the current lifecycle status.
func (c *Command) Status() CmdStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// SetStatus transitions the command to s. It returns a BUG-class error if
// the command already reached a terminal status - terminal statuses are
// write-once.
func (c *Command) SetStatus(s CmdStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.IsTerminal() {
		return iocerr.Bug("command %s already terminal at status %d, cannot move to %d", c.MsgID, c.status, s)
	}
	c.status = s
	return nil
}

// Succeed marks the command successful and records its response payload.
func (c *Command) Succeed(response []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.IsTerminal() {
		return iocerr.Bug("command %s already terminal, cannot succeed", c.MsgID)
	}
	c.status = CmdSuccess
	c.Response = response
	return nil
}

// Fail marks the command failed and records the cause.
func (c *Command) Fail(cause error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.IsTerminal() {
		return iocerr.Bug("command %s already terminal, cannot fail", c.MsgID)
	}
	c.status = CmdFailed
	c.Err = cause
	return nil
}

// ExpireTimeout marks the command timed out, used by the framework-side
// deadline timer rather than by an executor.
func (c *Command) ExpireTimeout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.IsTerminal() {
		return nil
	}
	c.status = CmdTimeout
	c.Err = iocerr.New(iocerr.CodeTimeout, "command timed out before executor completed")
	return nil
}
