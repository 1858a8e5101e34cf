// Package tests holds helpers and recorded portal payloads shared by the
// package tests.
package tests

import (
	"os"
	fp "path/filepath"
	"runtime"
	"testing"
)

// GetResPath returns the path of the recorded payload directory. You can
// specify files or directories located within it as well.
func GetResPath(f ...string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("tests: cannot determine helper location")
	}
	joined := fp.Join(f...)
	return fp.Join(fp.Dir(file), "testdata", joined)
}

// Fixture returns the contents of a recorded payload, failing t if it cannot
// be read.
func Fixture(t testing.TB, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(GetResPath(name))
	if err != nil {
		t.Fatalf("tests: cannot read fixture %s: %v", name, err)
	}
	return b
}
