// Package test contains helpers shared by the package tests.
package test

import (
	"fmt"
	"strings"
	"testing"
)

func id(tags ...any) string {
	if len(tags) == 0 {
		return ""
	}
	s := make([]string, len(tags))
	for i, t := range tags {
		s[i] = fmt.Sprint(t)
	}
	return strings.Join(s, " ") + ": "
}

// ExpectEquality reports a test error if v does not equal expected.
func ExpectEquality[T comparable](t *testing.T, v T, expected T, tags ...any) bool {
	t.Helper()
	if v != expected {
		t.Errorf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expected)
		return false
	}
	return true
}

// ExpectInequality reports a test error if v equals notExpected.
func ExpectInequality[T comparable](t *testing.T, v T, notExpected T, tags ...any) bool {
	t.Helper()
	if v == notExpected {
		t.Errorf("%sinequality test of type %T failed: '%v' equals '%v'", id(tags...), v, v, notExpected)
		return false
	}
	return true
}

// DemandEquality is ExpectEquality but fatal. Use it when later checks depend
// on the value being correct.
func DemandEquality[T comparable](t *testing.T, v T, expected T, tags ...any) {
	t.Helper()
	if v != expected {
		t.Fatalf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expected)
	}
}

// ExpectSuccess tests v for the success value of its type:
//
//	bool  -> true
//	error -> nil
func ExpectSuccess(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		if !v {
			t.Errorf("%sexpected success (bool)", id(tags...))
			return false
		}
	case error:
		t.Errorf("%sexpected success (error: %v)", id(tags...), v)
		return false
	default:
		t.Fatalf("%sunsupported type (%T) for expectation testing", id(tags...), v)
		return false
	}
	return true
}

// ExpectFailure tests v for the failure value of its type:
//
//	bool  -> false
//	error -> not nil
func ExpectFailure(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	switch v := v.(type) {
	case nil:
		t.Errorf("%sexpected failure (nil)", id(tags...))
		return false
	case bool:
		if v {
			t.Errorf("%sexpected failure (bool)", id(tags...))
			return false
		}
	case error:
		return true
	default:
		t.Fatalf("%sunsupported type (%T) for expectation testing", id(tags...), v)
		return false
	}
	return true
}
