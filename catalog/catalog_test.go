package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookup_Normalization(t *testing.T) {
	c := FromMap(map[string]string{
		"mPEG4-OH":    "mpeg4-oh",
		" 50-78-2 ":   "aspirin-usp",
		"C1=CC=CC=C1": "benzene",
	})

	tests := []struct {
		identifier string
		want       string
		ok         bool
	}{
		{"mPEG4-OH", "mpeg4-oh", true},
		{"MPEG4-OH", "mpeg4-oh", true},
		{"  mpeg4-oh  ", "mpeg4-oh", true},
		{"50-78-2", "aspirin-usp", true},
		{"c1=cc=cc=c1", "benzene", true},
		{"unknown", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := c.Lookup(tt.identifier)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.identifier, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`{"mPEG4-OH":"mpeg4-oh","":"dropped","no-handle":""}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1 (blank keys and handles dropped)", c.Len())
	}
	if _, ok := c.Lookup("mpeg4-oh"); !ok {
		t.Error("loaded identifier not found")
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("empty-path catalog has %d entries, want 0", c.Len())
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(`not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed JSON")
	}
}
