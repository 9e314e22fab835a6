package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "vault")
	path := writeFile(t, "name: ${SAMPLE_NAME}\ncount: 3\n")

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "vault" || s.Count != 3 {
		t.Errorf("loaded = %+v", s)
	}
}

func TestLoad_Validates(t *testing.T) {
	path := writeFile(t, "count: -1\n")

	var s sample
	if err := Load(path, &s); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	if err := Load(filepath.Join(t.TempDir(), "none.yaml"), &s); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadIfExists(t *testing.T) {
	s := sample{Name: "default"}
	if err := LoadIfExists(filepath.Join(t.TempDir(), "none.yaml"), &s); err != nil {
		t.Fatalf("missing file should be fine: %v", err)
	}
	if s.Name != "default" {
		t.Errorf("defaults changed: %+v", s)
	}

	bad := sample{Count: -1}
	if err := LoadIfExists(filepath.Join(t.TempDir(), "none.yaml"), &bad); err == nil {
		t.Error("defaults should still be validated")
	}

	path := writeFile(t, "name: file\n")
	if err := LoadIfExists(path, &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "file" {
		t.Errorf("file not loaded: %+v", s)
	}
}
