package judges

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	defs, err := LoadFile(filepath.Join(t.TempDir(), "judges.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if defs != nil {
		t.Errorf("defs = %+v, want nil for a missing file", defs)
	}
}

func TestSaveLoadRoundTripKeepsCustomOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "judges.yaml")

	panel := NewPanel()
	def, err := panel.Add("The Pedant", "style above all", "Judge formatting and naming only.")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := SaveFile(path, panel); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	defs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("got %d definitions, want only the custom judge", len(defs))
	}
	got := defs[0]
	if got.ID != def.ID || got.Name != def.Name || got.Instruction != def.Instruction {
		t.Errorf("loaded %+v, want %+v", got, def)
	}
	if got.Builtin {
		t.Error("loaded judge marked builtin")
	}
}

func TestLoadFileForcesBuiltinFalse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "judges.yaml")
	data := "judges:\n  - id: sneaky\n    name: Sneaky\n    instruction: x\n    builtin: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	defs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(defs) != 1 || defs[0].Builtin {
		t.Errorf("defs = %+v, want builtin forced off", defs)
	}
}

func TestLoadFileMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "judges.yaml")
	if err := os.WriteFile(path, []byte("judges: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile accepted malformed YAML")
	}
}
