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

import (
	"fmt"
	"runtime"
)

type ierr struct {
	c      CodeError
	msg    string
	parent []error
	frame  runtime.Frame
}

func getFrame() runtime.Frame {
	pc := make([]uintptr, 1)
	// skip runtime.Callers, getFrame, and the exported constructor.
	n := runtime.Callers(3, pc)
	if n == 0 {
		return runtime.Frame{}
	}
	frame, _ := runtime.CallersFrames(pc[:n]).Next()
	return frame
}

// New creates an Error with the given code, message and optional parents.
func New(code CodeError, message string, parent ...error) Error {
	return &ierr{
		c:      code,
		msg:    message,
		parent: filterNil(parent),
		frame:  getFrame(),
	}
}

// Newf creates an Error with the given code and a printf-formatted message.
func Newf(code CodeError, pattern string, args ...any) Error {
	return &ierr{
		c:     code,
		msg:   fmt.Sprintf(pattern, args...),
		frame: getFrame(),
	}
}

func filterNil(in []error) []error {
	out := make([]error, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (e *ierr) Error() string {
	if e.c == CodeUnknown {
		return e.msg
	}
	return fmt.Sprintf("[%d] %s", e.c, e.msg)
}

func (e *ierr) IsCode(code CodeError) bool {
	return e.c == code
}

func (e *ierr) HasCode(code CodeError) bool {
	if e.IsCode(code) {
		return true
	}
	for _, p := range e.parent {
		if pe := Get(p); pe != nil && pe.HasCode(code) {
			return true
		}
	}
	return false
}

func (e *ierr) Code() CodeError {
	return e.c
}

func (e *ierr) Add(parent ...error) {
	e.parent = append(e.parent, filterNil(parent)...)
}

func (e *ierr) Parents() []error {
	return e.parent
}

func (e *ierr) Map(fct FuncMap) bool {
	if !fct(e) {
		return false
	}
	for _, p := range e.parent {
		if pe, ok := p.(Error); ok {
			if !pe.Map(fct) {
				return false
			}
			continue
		}
		if !fct(p) {
			return false
		}
	}
	return true
}

func (e *ierr) Unwrap() []error {
	return e.parent
}

func (e *ierr) Frame() string {
	if e.frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", e.frame.File, e.frame.Line)
}

func (e *ierr) Fatal() bool {
	return e.c == CodeBug
}
