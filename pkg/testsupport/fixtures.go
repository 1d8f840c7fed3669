// Package testsupport provides a fake backoffice backend and fixture helpers for tests.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// LoadFixture loads test data from a fixture file.
// Relative paths resolve against the testdata directory of this package.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(resolve(path))
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
func LoadFixtureJSON(t testing.TB, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// FixturePath returns the absolute path of a shared fixture under testdata.
func FixturePath(filename string) string {
	return filepath.Join(testdataDir(), filename)
}

func resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return FixturePath(path)
}

func testdataDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "testdata")
}
