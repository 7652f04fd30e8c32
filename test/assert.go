// Package test provides assertion and fixture helpers shared by package tests.
package test

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Assert fails the test if the condition is false.
func Assert(tb testing.TB, condition bool, msg string, v ...interface{}) {
	tb.Helper()
	if !condition {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d: "+msg+"\n", append([]interface{}{filepath.Base(file), line}, v...)...)
	}
}

// Ok fails the test if an err is not nil.
func Ok(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d: unexpected error: %s\n", filepath.Base(file), line, err.Error())
	}
}

// NotOk fails the test if an err is nil.
func NotOk(tb testing.TB, err error) {
	tb.Helper()
	if err == nil {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d: expected error, got nothing\n", filepath.Base(file), line)
	}
}

// Expected fails the test unless got wraps want.
func Expected(tb testing.TB, got, want error) {
	tb.Helper()
	NotOk(tb, got)

	if errors.Is(got, want) {
		return
	}

	_, file, line, _ := runtime.Caller(1)
	tb.Fatalf("%s:%d: got unexpected error: %v, want: %v\n", filepath.Base(file), line, got, want)
}

// ErrorContains fails the test unless err message contains substr.
func ErrorContains(tb testing.TB, err error, substr string) {
	tb.Helper()
	NotOk(tb, err)

	if !strings.Contains(err.Error(), substr) {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d: error %q does not contain %q\n", filepath.Base(file), line, err.Error(), substr)
	}
}

// Equals fails the test if want is not equal to got.
func Equals(tb testing.TB, want, got interface{}, v ...interface{}) {
	tb.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		_, file, line, _ := runtime.Caller(1)

		var msg string
		if len(v) > 0 {
			msg = fmt.Sprintf(v[0].(string), v[1:]...)
		}

		tb.Fatalf("%s:%d:"+msg+"\n\n\t (-want +got):\n%s", filepath.Base(file), line, diff)
	}
}
