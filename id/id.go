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

// Package id defines the ServiceId and LinkId identifier spaces. LinkId
// deliberately uses two disjoint numeric ranges - auto-link ids at or below
// AutoLinkMax, connected-mode ids above it - so classifying a LinkId never
// requires a table lookup (spec design note: "two overlapping LinkId
// numbering schemes... becomes a match").
package id

// ServiceId uniquely identifies a Service within a Registry.
type ServiceId uint64

// LinkId uniquely identifies a Link. Values <= AutoLinkMax denote the
// reserved connectionless dispatch link (AutoLink); values above it denote
// connected-mode links allocated by the registry.
type LinkId uint64

const (
	// AutoLink is the single reserved link id for connectionless (Conles)
	// event dispatch. No accept/connect is required to use it.
	AutoLink LinkId = 0

	// AutoLinkMax is the upper bound of the reserved auto-link range.
	// Connected-mode LinkIds are always strictly greater than this value.
	AutoLinkMax LinkId = 1024

	// firstConnectedLinkId is the first id handed out to a connected-mode
	// Link by the registry.
	firstConnectedLinkId LinkId = AutoLinkMax + 1
)

// IsAutoLink reports whether id falls in the reserved connectionless range.
func (id LinkId) IsAutoLink() bool {
	return id <= AutoLinkMax
}

// FirstConnectedLinkId returns the first id a registry should allocate for
// connected-mode links.
func FirstConnectedLinkId() LinkId {
	return firstConnectedLinkId
}

// Index returns the zero-based slot index of a connected-mode LinkId within
// a fixed-capacity links table. It is only meaningful when !id.IsAutoLink().
func (id LinkId) Index() uint64 {
	return uint64(id - firstConnectedLinkId)
}
