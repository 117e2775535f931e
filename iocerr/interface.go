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

// Package iocerr provides the enumerated error kinds and the Error interface
// used throughout the IOC runtime. It follows the same shape as a layered
// error package: a numeric CodeError classification, an optional parent-error
// chain, and a captured call-site frame, compatible with errors.Is/errors.As.
package iocerr

import (
	"errors"
)

// FuncMap iterates over an error hierarchy; returning false stops the walk.
type FuncMap func(e error) bool

// Error is the runtime's error type: a standard error enriched with a
// CodeError classification, an optional parent chain and a capture frame.
type Error interface {
	error

	// IsCode reports whether this error's own code equals the given code.
	IsCode(code CodeError) bool
	// HasCode reports whether this error or any parent carries the given code.
	HasCode(code CodeError) bool
	// Code returns this error's own CodeError.
	Code() CodeError

	// Add appends non-nil errors as parents of this error.
	Add(parent ...error)
	// Parents returns the direct parent errors.
	Parents() []error
	// Map walks this error and its parents depth-first; stops early on false.
	Map(fct FuncMap) bool

	// Unwrap satisfies errors.Is/errors.As tree-walking.
	Unwrap() []error

	// Frame returns "file:line" for the call site that created this error.
	Frame() string

	// Fatal reports whether this error is of the BUG class (invariant
	// violation), which callers of Panic should treat as abort-worthy.
	Fatal() bool
}

// Is reports whether e is (or wraps) an iocerr.Error.
func Is(e error) bool {
	var err Error
	return errors.As(e, &err)
}

// Get returns e as an iocerr.Error if it is one, or nil otherwise.
func Get(e error) Error {
	var err Error
	if errors.As(e, &err) {
		return err
	}
	return nil
}

// HasCode reports whether e (or a parent) carries the given code.
func HasCode(e error, code CodeError) bool {
	if err := Get(e); err != nil {
		return err.HasCode(code)
	}
	return false
}

// IsCode reports whether e's own code equals the given code.
func IsCode(e error, code CodeError) bool {
	if err := Get(e); err != nil {
		return err.IsCode(code)
	}
	return false
}

// Make wraps a plain error into an Error with CodeUnknown if it is not
// already one. Returns nil for a nil input.
func Make(e error) Error {
	if e == nil {
		return nil
	}
	if err := Get(e); err != nil {
		return err
	}
	return &ierr{c: CodeUnknown, msg: e.Error(), frame: getFrame()}
}
