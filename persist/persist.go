// Package persist converts configuration snapshots to and from TOML. Keys
// keep their kind markers (`@` instanced, `$` computed), so a saved document
// loads back into a store whose snapshot is entry-for-entry identical.
package persist

import (
	"fmt"
	"io"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	tonic "github.com/nmichlo/tonic-config"
)

// Save writes the snapshot's entries as a flat TOML document. Values must be
// TOML-encodable; the core itself is type-agnostic.
func Save(w io.Writer, snapshot tonic.Snapshot) error {
	if err := toml.NewEncoder(w).Encode(snapshot.Overrides()); err != nil {
		return fmt.Errorf("persist: encode: %w", err)
	}
	return nil
}

// Load reads a flat TOML document back into the mapping shape accepted by
// Set, Update, and Reset.
func Load(r io.Reader) (map[string]any, error) {
	var overrides map[string]any
	if err := toml.NewDecoder(r).Decode(&overrides); err != nil {
		return nil, fmt.Errorf("persist: decode: %w", err)
	}
	if overrides == nil {
		overrides = map[string]any{}
	}
	return overrides, nil
}

// Restore loads a document and installs it as the complete new state of cfg.
// A malformed key rejects the whole document, leaving cfg untouched.
func Restore(r io.Reader, cfg *tonic.Config) error {
	overrides, err := Load(r)
	if err != nil {
		return err
	}
	return cfg.Reset(overrides)
}

// SaveFile writes the snapshot to path, truncating any existing file.
func SaveFile(path string, snapshot tonic.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	if err := Save(file, snapshot); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// LoadFile reads the document at path.
func LoadFile(path string) (map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	defer file.Close()
	return Load(file)
}
