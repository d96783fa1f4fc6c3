// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package severity implements the severity level registry consumed by
// the logging core. A Level carries a display name, an ordinal value
// where a lower ordinal means a more severe event, and a display color
// used by the console highlighter. The set of levels is open: host
// applications may construct and use their own Level values alongside
// the canonical ones.
package severity

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an ANSI escape sequence used to colorize console output.
type Color string

// Canonical display colors.
const (
	ColorNone    Color = ""
	ColorRed     Color = "\x1b[31m"
	ColorYellow  Color = "\x1b[33m"
	ColorGreen   Color = "\x1b[32m"
	ColorCyan    Color = "\x1b[36m"
	ColorGray    Color = "\x1b[90m"
	ColorMagenta Color = "\x1b[35m"

	colorReset = "\x1b[0m"
)

// Paint wraps s in the color's escape sequence followed by a reset.
// Painting with ColorNone returns s unchanged.
func (c Color) Paint(s string) string {
	if c == ColorNone {
		return s
	}
	return string(c) + s + colorReset
}

// Level describes one severity level. Levels are compared by ordinal;
// identity (for registry purposes) is pointer identity.
type Level struct {
	// Name is the display name of the level, e.g. "INFO".
	Name string
	// Ordinal orders levels by severity. Lower is more severe.
	Ordinal int32
	// Color is the display color used for console highlighting.
	Color Color
}

// String implements the fmt.Stringer interface.
func (l *Level) String() string {
	if l == nil {
		return "<nil>"
	}
	return l.Name
}

// Canonical levels, ordered from most to least severe.
var (
	Fatal   = &Level{Name: "FATAL", Ordinal: 0, Color: ColorMagenta}
	Error   = &Level{Name: "ERROR", Ordinal: 1, Color: ColorRed}
	Warning = &Level{Name: "WARN", Ordinal: 2, Color: ColorYellow}
	Info    = &Level{Name: "INFO", Ordinal: 3, Color: ColorGreen}
	Debug   = &Level{Name: "DEBUG", Ordinal: 4, Color: ColorCyan}
	Trace   = &Level{Name: "TRACE", Ordinal: 5, Color: ColorGray}
)

// Levels returns the canonical levels ordered from most to least severe.
func Levels() []*Level {
	return []*Level{Fatal, Error, Warning, Info, Debug, Trace}
}

// Parse returns the canonical Level matching the given s, which may be
// a level name (case-insensitive) or a numeric ordinal.
func Parse(s string) (*Level, error) {
	for _, l := range Levels() {
		if strings.EqualFold(l.Name, s) {
			return l, nil
		}
	}
	// "warning" is accepted as an alias for the WARN display name.
	if strings.EqualFold(s, "warning") {
		return Warning, nil
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		for _, l := range Levels() {
			if l.Ordinal == int32(n) {
				return l, nil
			}
		}
	}
	return nil, fmt.Errorf("severity: unknown level %q", s)
}
