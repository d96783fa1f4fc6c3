// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultFormat is the format template used when none is configured:
// clock time, left-padded caller class, right-aligned level name and
// the message.
const DefaultFormat = "{timestamp:15:04:05} {classname,16} {levelname,5}: {message}"

// defaultTimestampLayout renders the creation time when the timestamp
// placeholder carries no subformat.
const defaultTimestampLayout = "2006-01-02 15:04:05.000"

var (
	processStart = time.Now()
	processName  = filepath.Base(os.Args[0])
)

// segment is one parsed element of a format template: either a
// literal (name == "") or a placeholder.
type segment struct {
	text  string
	name  string
	align int
	sub   string
}

// parseTemplate splits tpl into literal and placeholder segments.
// Placeholders follow {name[,alignment][:subformat]}; doubled braces
// escape literal braces.
func parseTemplate(tpl string) ([]segment, error) {
	var (
		segs []segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(tpl); {
		c := tpl[i]
		switch {
		case c == '{' && i+1 < len(tpl) && tpl[i+1] == '{':
			lit.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(tpl) && tpl[i+1] == '}':
			lit.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(tpl[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("log: unterminated placeholder at offset %d in %q", i, tpl)
			}
			seg, err := parsePlaceholder(tpl[i+1 : i+end])
			if err != nil {
				return nil, err
			}
			flush()
			segs = append(segs, seg)
			i += end + 1
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return segs, nil
}

// parsePlaceholder splits a placeholder body into name, alignment and
// subformat. The subformat starts at the first colon and runs to the
// end, so colons inside time layouts survive.
func parsePlaceholder(body string) (segment, error) {
	var seg segment
	rest := body
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		seg.sub = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, ','); i >= 0 {
		align, err := strconv.Atoi(strings.TrimSpace(rest[i+1:]))
		if err != nil {
			return seg, fmt.Errorf("log: bad alignment in placeholder %q: %w", body, err)
		}
		seg.align = align
		rest = rest[:i]
	}
	seg.name = strings.ToLower(strings.TrimSpace(rest))
	if seg.name == "" {
		return seg, fmt.Errorf("log: empty placeholder in template")
	}
	return seg, nil
}

// formatValue renders one placeholder value. Times honor the
// subformat as a time layout; other values treat it as an fmt verb
// body. Alignment is the minimum width in runes, negative for left
// alignment.
func formatValue(v any, align int, sub string) string {
	var s string
	switch t := v.(type) {
	case time.Time:
		layout := sub
		if layout == "" {
			layout = defaultTimestampLayout
		}
		s = t.Format(layout)
	default:
		if sub != "" {
			s = fmt.Sprintf("%"+sub, v)
		} else {
			s = fmt.Sprint(v)
		}
	}
	width := utf8.RuneCountInString(s)
	switch {
	case align > 0 && width < align:
		s = strings.Repeat(" ", align-width) + s
	case align < 0 && width < -align:
		s += strings.Repeat(" ", -align-width)
	}
	return s
}

var loggerPkgPath = reflect.TypeOf((*Logger)(nil)).Elem().PkgPath()

// isLoggerFrame classifies a stack frame by its function symbol:
// frames declared on the Logger type are internal emission wrappers.
func isLoggerFrame(function string) bool {
	return strings.HasPrefix(function, loggerPkgPath+".(*Logger).") ||
		strings.HasPrefix(function, loggerPkgPath+".Logger.")
}

// attributeIndex selects the record's true caller from the innermost-
// first classification of its frames. Internal frames are skipped and
// the first external frame wins. A run of three consecutive internal
// frames means the call genuinely originated inside the logger; the
// outermost frame of that run is used instead.
func attributeIndex(internal []bool) int {
	last := -1
	streak := 0
	for i, in := range internal {
		if !in {
			return i
		}
		last = i
		streak++
		if streak == 3 {
			for j := i + 1; j < len(internal) && internal[j]; j++ {
				last = j
			}
			return last
		}
	}
	if last >= 0 {
		return last
	}
	return 0
}

// splitFunction decomposes a runtime function symbol into the package
// import path, the declaring type (the package base name for plain
// functions) and the method name.
func splitFunction(function string) (pkgPath, class, method string) {
	slash := strings.LastIndexByte(function, '/')
	dot := strings.IndexByte(function[slash+1:], '.')
	if dot < 0 {
		return "", function, function
	}
	dot += slash + 1
	pkgPath = function[:dot]
	sym := function[dot+1:]
	if strings.HasPrefix(sym, "(*") {
		if i := strings.Index(sym, ")."); i >= 0 {
			return pkgPath, sym[2:i], sym[i+2:]
		}
	}
	if i := strings.IndexByte(sym, '.'); i >= 0 {
		head, rest := sym[:i], sym[i+1:]
		if head != "" && head[0] >= 'A' && head[0] <= 'Z' && !strings.HasPrefix(rest, "func") {
			return pkgPath, head, rest
		}
	}
	return pkgPath, path.Base(pkgPath), sym
}

// renderCtx resolves record attributes for one formatting pass.
// Frame resolution and caller attribution happen at most once and
// only when on demand.
type renderCtx struct {
	logger   *Logger
	rec      *Record
	frames   []runtime.Frame
	attrIdx  int
	resolved bool
}

// attribution resolves the record's frames and the attributed caller
// frame index.
func (c *renderCtx) attribution() (runtime.Frame, error) {
	if !c.resolved {
		if len(c.rec.pcs) == 0 {
			return runtime.Frame{}, ErrEmptyStack
		}
		it := runtime.CallersFrames(c.rec.pcs)
		for {
			f, more := it.Next()
			if f.PC != 0 || f.Function != "" {
				c.frames = append(c.frames, f)
			}
			if !more {
				break
			}
		}
		if len(c.frames) == 0 {
			return runtime.Frame{}, ErrEmptyStack
		}
		internal := make([]bool, len(c.frames))
		for i, f := range c.frames {
			internal[i] = isLoggerFrame(f.Function)
		}
		c.attrIdx = attributeIndex(internal)
		c.resolved = true
	}
	return c.frames[c.attrIdx], nil
}

// stack returns the textual stack trace trimmed to start at the
// attributed caller frame, with the trailing terminator stripped.
func (c *renderCtx) stack() (string, error) {
	if _, err := c.attribution(); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, f := range c.frames[c.attrIdx:] {
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// value resolves one attribute token.
func (c *renderCtx) value(name string) (any, error) {
	switch name {
	case "timestamp":
		return c.rec.creation, nil
	case "unixtime":
		return float64(c.rec.creation.UnixNano()) / float64(time.Second), nil
	case "level", "levelname":
		return c.rec.level.Name, nil
	case "levelno":
		return c.rec.level.Ordinal, nil
	case "message":
		return c.rec.messageText(), nil
	case "loggername":
		return c.logger.name, nil
	case "processid":
		return os.Getpid(), nil
	case "processname":
		return processName, nil
	case "uptime":
		return time.Since(processStart), nil
	case "threadid":
		return c.rec.gid, nil
	case "threadname":
		if c.rec.gid == 1 {
			return "main", nil
		}
		return "goroutine-" + strconv.FormatUint(c.rec.gid, 10), nil
	case "stacktrace":
		if !c.rec.includeStackTrace {
			return "", nil
		}
		return c.stack()
	case "classname", "methodname", "modulename", "filename", "filepath", "lineno":
		f, err := c.attribution()
		if err != nil {
			return nil, err
		}
		switch name {
		case "lineno":
			return f.Line, nil
		case "filename":
			return filepath.Base(f.File), nil
		case "filepath":
			return f.File, nil
		}
		pkgPath, class, method := splitFunction(f.Function)
		switch name {
		case "classname":
			return class, nil
		case "methodname":
			return method, nil
		default: // modulename
			return pkgPath, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownToken, name)
}

// formatRecord renders r against the logger's active template. When
// the record requests a stack trace and the template does not place
// one itself, the trimmed stack block is appended after the line.
func (l *Logger) formatRecord(r *Record) (string, error) {
	segs, err := parseTemplate(l.format.Load())
	if err != nil {
		return "", err
	}
	ctx := &renderCtx{logger: l, rec: r}
	var (
		b        strings.Builder
		sawStack bool
	)
	for _, seg := range segs {
		if seg.name == "" {
			b.WriteString(seg.text)
			continue
		}
		if seg.name == "stacktrace" {
			sawStack = true
		}
		v, err := ctx.value(seg.name)
		if err != nil {
			return "", err
		}
		b.WriteString(formatValue(v, seg.align, seg.sub))
	}
	if r.includeStackTrace && !sawStack {
		st, err := ctx.stack()
		if err != nil {
			return "", err
		}
		if st != "" {
			b.WriteByte('\n')
			b.WriteString(st)
		}
	}
	return b.String(), nil
}
