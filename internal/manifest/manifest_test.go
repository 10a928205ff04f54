package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	m, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Optimize != 0 {
		t.Fatalf("expected default Optimize 0, got %d", m.Optimize)
	}
	if m.OutDir == "" {
		t.Fatalf("expected default OutDir to be set")
	}
}

func TestLoadParsesYaml(t *testing.T) {
	dir := t.TempDir()
	content := "entry: main.vs\noptimize: 2\nlibs:\n  - m\n  - pthread\n"
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Entry != "main.vs" {
		t.Fatalf("got Entry %q", m.Entry)
	}
	if m.Optimize != 2 {
		t.Fatalf("got Optimize %d", m.Optimize)
	}
	if len(m.Libs) != 2 || m.Libs[0] != "m" || m.Libs[1] != "pthread" {
		t.Fatalf("got Libs %v", m.Libs)
	}
}
