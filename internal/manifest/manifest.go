// Package manifest loads the optional per-package build manifest
// (viskum.yaml), grounded on funxy's internal/ext.Config loader
// (gopkg.in/yaml.v3) for its funxy.yaml Go-interop manifest — generalized
// here from "Go packages to bind" to "clang flags to pass".
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/viskum-lang/viskumc/internal/config"
)

const FileName = "viskum.yaml"

// Manifest is the parsed viskum.yaml. Every field is optional; a package
// with no manifest compiles with all the zero-value defaults below.
type Manifest struct {
	// Entry overrides which file in the package directory holds `main`.
	// Defaults to whichever file the CLI was invoked with.
	Entry string `yaml:"entry,omitempty"`

	// OutDir overrides the emitted-artifact directory (default
	// config.OutputDir).
	OutDir string `yaml:"outDir,omitempty"`

	// Optimize is forwarded verbatim as `-O{N}` to clang. viskumc performs
	// no IR-level optimization itself (spec §1, Non-goals); this only
	// controls what clang does to the emitted IR.
	Optimize int `yaml:"optimize,omitempty"`

	// Libs are extra C libraries linked via `-l<name>` for packages that
	// `declare fn` against them.
	Libs []string `yaml:"libs,omitempty"`
}

// Default returns the zero manifest with OutDir defaulted.
func Default() *Manifest {
	return &Manifest{OutDir: config.OutputDir}
}

// Load reads viskum.yaml from dir if present. A missing file is not an
// error: it returns Default().
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("manifest: reading %s: %w", path, err)
	}

	m := Default()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("manifest: parsing %s: %w", path, err)
	}
	if m.OutDir == "" {
		m.OutDir = config.OutputDir
	}
	return m, nil
}
