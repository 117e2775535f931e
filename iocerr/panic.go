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

// DebugBuild gates whether Panic aborts the process on a BUG-class error.
// Production builds should leave this false; test builds may set it true
// to turn invariant violations into immediate failures.
var DebugBuild = false

// Panic panics if err is a BUG-class Error and DebugBuild is enabled.
// It is a no-op for nil errors, non-BUG errors, or when DebugBuild is false.
func Panic(err error) {
	if err == nil {
		return
	}
	if e := Get(err); e != nil && e.Fatal() && DebugBuild {
		panic(e)
	}
}

// Bug builds a BUG-class Error, the sentinel used by internal invariant
// assertions. Bug errors are never expected to surface to a well-behaved
// caller; encountering one means a core invariant was violated.
func Bug(format string, args ...any) Error {
	return Newf(CodeBug, format, args...)
}
