// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestAttributeIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		internal []bool
		want     int
	}{
		{name: "direct external caller", internal: []bool{false}, want: 0},
		{name: "one wrapper frame", internal: []bool{true, false}, want: 1},
		{name: "two wrapper frames", internal: []bool{true, true, false}, want: 2},
		{name: "internal origin, run of three", internal: []bool{true, true, true, false}, want: 2},
		{name: "internal origin, longer run", internal: []bool{true, true, true, true, false}, want: 3},
		{name: "all internal below run limit", internal: []bool{true, true}, want: 1},
		{name: "single internal frame", internal: []bool{true}, want: 0},
		{name: "external frame interleaved", internal: []bool{false, true, false}, want: 0},
		{name: "all internal at run limit", internal: []bool{true, true, true}, want: 2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if have := attributeIndex(tc.internal); have != tc.want {
				t.Errorf("have %d, want %d", have, tc.want)
			}
		})
	}
}

func TestIsLoggerFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		function string
		want     bool
	}{
		{function: loggerPkgPath + ".(*Logger).Write", want: true},
		{function: loggerPkgPath + ".(*Logger).write", want: true},
		{function: loggerPkgPath + ".newRecord", want: false},
		{function: "main.main", want: false},
		{function: loggerPkgPath + "_test.TestSomething", want: false},
	}

	for _, tc := range tests {
		if have := isLoggerFrame(tc.function); have != tc.want {
			t.Errorf("classify %q: have %v, want %v", tc.function, have, tc.want)
		}
	}
}

func TestSplitFunction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give                   string
		pkgPath, class, method string
	}{
		{
			give:    "github.com/snerble/logfan/pkg/log.(*Logger).Write",
			pkgPath: "github.com/snerble/logfan/pkg/log",
			class:   "Logger",
			method:  "Write",
		},
		{
			give:    "github.com/user/proj/pkg/server.Serve",
			pkgPath: "github.com/user/proj/pkg/server",
			class:   "server",
			method:  "Serve",
		},
		{
			give:    "github.com/user/proj/pkg/server.Conn.Read",
			pkgPath: "github.com/user/proj/pkg/server",
			class:   "Conn",
			method:  "Read",
		},
		{
			give:    "github.com/user/proj/pkg/server.TestServe.func1",
			pkgPath: "github.com/user/proj/pkg/server",
			class:   "server",
			method:  "TestServe.func1",
		},
		{
			give:    "main.main",
			pkgPath: "main",
			class:   "main",
			method:  "main",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.give, func(t *testing.T) {
			t.Parallel()

			pkgPath, class, method := splitFunction(tc.give)
			if pkgPath != tc.pkgPath || class != tc.class || method != tc.method {
				t.Errorf("have (%q, %q, %q), want (%q, %q, %q)",
					pkgPath, class, method, tc.pkgPath, tc.class, tc.method)
			}
		})
	}
}

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		want    []segment
		wantErr bool
	}{
		{
			name: "literal only",
			give: "plain text",
			want: []segment{{text: "plain text"}},
		},
		{
			name: "escaped braces",
			give: "a {{b}} c",
			want: []segment{{text: "a {b} c"}},
		},
		{
			name: "plain placeholder",
			give: "{message}",
			want: []segment{{name: "message"}},
		},
		{
			name: "alignment and subformat",
			give: "{levelname,7}: {timestamp:15:04:05}",
			want: []segment{
				{name: "levelname", align: 7},
				{text: ": "},
				{name: "timestamp", sub: "15:04:05"},
			},
		},
		{
			name: "case folded name",
			give: "{LevelName}",
			want: []segment{{name: "levelname"}},
		},
		{
			name: "negative alignment",
			give: "{classname,-16}",
			want: []segment{{name: "classname", align: -16}},
		},
		{
			name:    "unterminated placeholder",
			give:    "{message",
			wantErr: true,
		},
		{
			name:    "bad alignment",
			give:    "{message,x}",
			wantErr: true,
		},
		{
			name:    "empty placeholder",
			give:    "{}",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			have, err := parseTemplate(tc.give)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %#v", have)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, have, cmp.AllowUnexported(segment{})); diff != "" {
				t.Errorf("segments mismatch (-want +have):\n%s", diff)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	when := time.Date(2025, 6, 1, 13, 37, 42, 0, time.UTC)

	tests := []struct {
		name  string
		give  any
		align int
		sub   string
		want  string
	}{
		{name: "time with layout", give: when, sub: "15:04:05", want: "13:37:42"},
		{name: "time default layout", give: when, want: "2025-06-01 13:37:42.000"},
		{name: "right aligned", give: "INFO", align: 7, want: "   INFO"},
		{name: "left aligned", give: "INFO", align: -7, want: "INFO   "},
		{name: "width already met", give: "WARNING", align: 5, want: "WARNING"},
		{name: "right aligned multibyte", give: "héllo", align: 7, want: "  héllo"},
		{name: "left aligned multibyte", give: "日誌", align: -4, want: "日誌  "},
		{name: "int verb", give: 42, sub: "04d", want: "0042"},
		{name: "plain value", give: 3, want: "3"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if have := formatValue(tc.give, tc.align, tc.sub); have != tc.want {
				t.Errorf("have %q, want %q", have, tc.want)
			}
		})
	}
}

func TestValueUnknownToken(t *testing.T) {
	t.Parallel()

	l := NewLogger("t")
	defer l.Close()

	ctx := &renderCtx{logger: l, rec: newRecord(l.Threshold(), "m", false, nil, false, 0, time.Now())}
	if _, err := ctx.value("bogus"); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("have %v, want %v", err, ErrUnknownToken)
	}
}

func TestStackAgainstEmptyCapture(t *testing.T) {
	t.Parallel()

	l := NewLogger("t")
	defer l.Close()

	ctx := &renderCtx{logger: l, rec: newRecord(l.Threshold(), "m", true, nil, false, 0, time.Now())}
	if _, err := ctx.value("classname"); !errors.Is(err, ErrEmptyStack) {
		t.Errorf("have %v, want %v", err, ErrEmptyStack)
	}
}
