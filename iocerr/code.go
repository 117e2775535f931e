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

package iocerr

// CodeError is a numeric error classification, the way HTTP status codes
// classify responses. Values are grouped by the kind taxonomy of the IOC
// runtime's error handling design: input, identity, capacity, conflict,
// missing-peer, runtime, capability, memory and invariant-violation.
type CodeError uint16

const (
	CodeUnknown CodeError = iota

	// Input errors.
	CodeInvalidParam
	CodeIncompatibleUsage
	CodeZeroData

	// Identity errors.
	CodeNotExistService
	CodeNotExistLink
	CodeInvalidAutoLinkID

	// Capacity errors.
	CodeTooManyServices
	CodeTooManyLinks
	CodeTooManyClients
	CodeTooManyEventConsumer
	CodeTooManyQueued
	CodeBufferTooSmall
	CodeBufferFull
	CodeDataTooLarge

	// Conflict errors.
	CodeConflictEventConsumer
	CodeConflictSrvArgs

	// Missing-peer errors.
	CodeNoEventConsumer
	CodeNoCmdExecutor
	CodeNoData
	CodeNoEventPending
	CodeNoCmdPending

	// Runtime errors.
	CodeTimeout
	CodeBusy
	CodeLinkBroken
	CodeCmdExecFailed
	CodeAckCmdFailed

	// Capability errors.
	CodeNotSupport
	CodeNotImplemented
	CodeNotSupportBroadcastEvent
	CodeNotSupportManualAccept

	// Memory errors.
	CodePosixENOMEM

	// Invariant violation - abort-worthy in debug builds.
	CodeBug
)

// messages maps each CodeError to its canonical, stable message text.
var messages = map[CodeError]string{
	CodeUnknown:                  "unknown error",
	CodeInvalidParam:             "invalid parameter",
	CodeIncompatibleUsage:        "incompatible usage role",
	CodeZeroData:                 "zero length data payload",
	CodeNotExistService:          "service does not exist",
	CodeNotExistLink:             "link does not exist",
	CodeInvalidAutoLinkID:        "invalid auto-link id",
	CodeTooManyServices:          "too many services",
	CodeTooManyLinks:             "too many links",
	CodeTooManyClients:           "too many clients",
	CodeTooManyEventConsumer:     "too many event consumers",
	CodeTooManyQueued:            "too many queued events",
	CodeBufferTooSmall:           "buffer too small",
	CodeBufferFull:               "buffer full",
	CodeDataTooLarge:             "data too large",
	CodeConflictEventConsumer:    "conflicting event consumer identity",
	CodeConflictSrvArgs:          "conflicting service arguments",
	CodeNoEventConsumer:          "no event consumer",
	CodeNoCmdExecutor:            "no command executor",
	CodeNoData:                   "no data",
	CodeNoEventPending:           "no event pending",
	CodeNoCmdPending:             "no command pending",
	CodeTimeout:                  "operation timed out",
	CodeBusy:                     "resource busy",
	CodeLinkBroken:               "link broken",
	CodeCmdExecFailed:            "command execution failed",
	CodeAckCmdFailed:             "command acknowledgement failed",
	CodeNotSupport:               "not supported",
	CodeNotImplemented:           "not implemented",
	CodeNotSupportBroadcastEvent: "backend does not support broadcast event",
	CodeNotSupportManualAccept:   "backend does not support manual accept",
	CodePosixENOMEM:              "out of memory",
	CodeBug:                      "internal invariant violation",
}

// String returns the canonical message registered for this code, or the
// unknown-error message if the code is not registered.
func (c CodeError) String() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return messages[CodeUnknown]
}

// Error builds a new Error of this code, with optional parent errors.
func (c CodeError) Error(parent ...error) Error {
	return New(c, c.String(), parent...)
}
