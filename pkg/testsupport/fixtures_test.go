package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFixture(t *testing.T) {
	// absolute paths are read as-is
	testFile := filepath.Join(t.TempDir(), "test.txt")
	testContent := []byte("test fixture content")

	if err := os.WriteFile(testFile, testContent, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result := LoadFixture(t, testFile)
	if string(result) != string(testContent) {
		t.Errorf("expected %q, got %q", testContent, result)
	}
}

func TestLoadFixture_SharedTestdata(t *testing.T) {
	data := LoadFixture(t, "services.json")
	if len(data) == 0 {
		t.Fatal("expected shared fixture content")
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	var envelope struct {
		Success   bool `json:"success"`
		Customers []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"customers"`
	}

	LoadFixtureJSON(t, "customers.json", &envelope)

	if !envelope.Success {
		t.Error("expected success=true")
	}
	if len(envelope.Customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(envelope.Customers))
	}
	if envelope.Customers[0].ID != "c-1" {
		t.Errorf("expected first customer c-1, got %q", envelope.Customers[0].ID)
	}
}

func TestFixturePath(t *testing.T) {
	result := FixturePath("test.json")

	if !filepath.IsAbs(result) {
		t.Errorf("expected absolute path, got %q", result)
	}
	if filepath.Base(filepath.Dir(result)) != "testdata" {
		t.Errorf("expected path under testdata, got %q", result)
	}
	if _, err := os.Stat(FixturePath("customer.json")); err != nil {
		t.Errorf("expected customer.json fixture to exist: %v", err)
	}
}
