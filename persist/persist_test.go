package persist

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	tonic "github.com/nmichlo/tonic-config"
)

func seed(t *testing.T) *tonic.Config {
	t.Helper()
	cfg := tonic.New()
	err := cfg.Set(map[string]any{
		"trainer.lr":      0.01,
		"trainer.epochs":  int64(20),
		"*.debug":         false,
		"@trainer.data":   "dataset",
		"$trainer.budget": "epochs * 2",
	})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	return cfg
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := seed(t)

	var buf bytes.Buffer
	if err := Save(&buf, cfg.Snapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	document := buf.String()
	for _, fragment := range []string{`"*.debug"`, `"@trainer.data"`, `"$trainer.budget"`} {
		if !strings.Contains(document, fragment) {
			t.Fatalf("document missing %s:\n%s", fragment, document)
		}
	}

	restored := tonic.New()
	if err := Restore(strings.NewReader(document), restored); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	want := cfg.Snapshot().Entries
	got := restored.Snapshot().Entries
	if len(got) != len(want) {
		t.Fatalf("entry count %d, want %d", len(got), len(want))
	}
	for i, entry := range got {
		if entry.Key != want[i].Key || entry.Kind != want[i].Kind || entry.Value != want[i].Value {
			t.Fatalf("entry %d = %+v, want %+v", i, entry, want[i])
		}
	}
}

func TestRestoredEntriesResolve(t *testing.T) {
	cfg := seed(t)
	var buf bytes.Buffer
	if err := Save(&buf, cfg.Snapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := tonic.New()
	if err := Restore(&buf, restored); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	res, err := restored.Resolve("trainer", "budget", tonic.NoArg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	switch value := res.Value.(type) {
	case int:
		if value != 40 {
			t.Fatalf("trainer.budget = %d, want 40", value)
		}
	case int64:
		if value != 40 {
			t.Fatalf("trainer.budget = %d, want 40", value)
		}
	default:
		t.Fatalf("trainer.budget = %v (%T), want 40", res.Value, res.Value)
	}
}

func TestRestoreRejectsMalformedKey(t *testing.T) {
	cfg := tonic.New()
	if err := cfg.Set(map[string]any{"job.workers": int64(8)}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	err := Restore(strings.NewReader(`"not a key" = 1`), cfg)
	if err == nil {
		t.Fatalf("expected malformed key error")
	}
	if cfg.Generation() != 1 {
		t.Fatalf("generation = %d, want untouched 1", cfg.Generation())
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	overrides, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if overrides == nil || len(overrides) != 0 {
		t.Fatalf("overrides = %v, want empty non-nil map", overrides)
	}
}

func TestSaveFileLoadFile(t *testing.T) {
	cfg := seed(t)
	path := filepath.Join(t.TempDir(), "overrides.toml")

	if err := SaveFile(path, cfg.Snapshot()); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	overrides, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if overrides["trainer.epochs"] != int64(20) {
		t.Fatalf("trainer.epochs = %v (%T), want int64(20)", overrides["trainer.epochs"], overrides["trainer.epochs"])
	}
	if overrides["@trainer.data"] != "dataset" {
		t.Fatalf("@trainer.data = %v", overrides["@trainer.data"])
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}