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

package ioclog

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Fields is a set of structured key-value pairs attached to a log entry.
type Fields map[string]any

// Logger is the logging surface every IOC component depends on.
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(msg string, fields ...Fields)

	// WithField returns a derived Logger carrying an extra permanent field,
	// the way request/link-scoped loggers are built from a root logger.
	WithField(key string, value any) Logger

	// SetLevel changes the minimal level of message this logger emits.
	SetLevel(lvl Level)
}

type lgr struct {
	l *logrus.Entry
}

// New returns a Logger backed by a fresh logrus.Logger writing to out.
func New(out io.Writer) Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	return &lgr{l: logrus.NewEntry(l)}
}

// Discard returns a Logger that drops every message; useful for tests and
// for callers that have not provisioned a sink.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &lgr{l: logrus.NewEntry(l)}
}

func (g *lgr) Debug(msg string, fields ...Fields) { g.log(logrus.DebugLevel, msg, fields) }
func (g *lgr) Info(msg string, fields ...Fields)  { g.log(logrus.InfoLevel, msg, fields) }
func (g *lgr) Warn(msg string, fields ...Fields)  { g.log(logrus.WarnLevel, msg, fields) }
func (g *lgr) Error(msg string, fields ...Fields) { g.log(logrus.ErrorLevel, msg, fields) }

func (g *lgr) log(lvl logrus.Level, msg string, fields []Fields) {
	e := g.l
	for _, f := range fields {
		for k, v := range f {
			e = e.WithField(k, v)
		}
	}
	e.Log(lvl, msg)
}

func (g *lgr) WithField(key string, value any) Logger {
	return &lgr{l: g.l.WithField(key, value)}
}

func (g *lgr) SetLevel(lvl Level) {
	g.l.Logger.SetLevel(lvl.logrus())
}
