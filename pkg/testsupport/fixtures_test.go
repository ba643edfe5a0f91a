package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-protocol-registry/internal/domain"
)

func TestLoadFixture(t *testing.T) {
	// Create a temporary file for testing
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := []byte("test fixture content")

	if err := os.WriteFile(testFile, testContent, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result := LoadFixture(t, testFile)
	if string(result) != string(testContent) {
		t.Errorf("expected %q, got %q", testContent, result)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	path := WriteFixture(t, "sector.json", []byte(`{"name":"Finance","acronym":"FIN","phone":"3139150000"}`))

	var result domain.SectorInput
	LoadFixtureJSON(t, path, &result)

	if result.Name != "Finance" || result.Acronym != "FIN" {
		t.Errorf("unexpected fixture content: %+v", result)
	}
}

func TestFixturePath(t *testing.T) {
	if got, want := FixturePath("seed.json"), filepath.Join("testdata", "seed.json"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestOpenDB(t *testing.T) {
	db := OpenDB(t)

	n, err := db.NewSelect().Model((*domain.Sector)(nil)).Count(context.Background())
	if err != nil {
		t.Fatalf("count on migrated database failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected an empty database, got %d sectors", n)
	}
}

func TestClock(t *testing.T) {
	start := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	c := NewClock(start)

	c.Advance(90 * time.Second)
	if got := c.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Errorf("expected %v, got %v", start.Add(90*time.Second), got)
	}
}
