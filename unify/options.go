// Tangram
// Copyright (C) 2024+ the tangram project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package unify

import (
	"fmt"
	"runtime"

	"github.com/sanity-io/litter"
)

// Options configures one Unify/UnifyPool invocation. The zero value runs
// silently, matching a release build; setting Debug (and, typically, Logf)
// turns on a file/line mismatch trace, without requiring a separate build
// tag.
type Options struct {
	Debug bool
	Logf  func(format string, v ...interface{})
}

func (o Options) logf(format string, v ...interface{}) {
	if !o.Debug {
		return
	}
	if o.Logf != nil {
		o.Logf(format, v...)
		return
	}
	fmt.Printf(format+"\n", v...)
}

// traceMismatch emits a file/line trace plus a litter.Sdump of the two
// contents under comparison, for locating the exact call site that rejected
// a pair of types during debugging.
func (o Options) traceMismatch(ctx Context, format string, v ...interface{}) {
	if !o.Debug {
		return
	}
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "<unknown>", 0
	}
	msg := fmt.Sprintf(format, v...)
	o.logf("mismatch at %s:%d: %s", file, line, msg)
	o.logf("%s", dumpMismatch("first", ctx.FirstDesc.Content))
	o.logf("%s", dumpMismatch("second", ctx.SecondDesc.Content))
}

// dumpMismatch litter.Sdump's one labelled side of a mismatch for a debug
// trace; traceMismatch calls it once per side. Kept as a thin wrapper so call sites don't need to import litter
// directly.
func dumpMismatch(label string, v interface{}) string {
	return label + " = " + litter.Sdump(v)
}
