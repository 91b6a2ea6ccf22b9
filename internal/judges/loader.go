package judges

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// judgesFile is the on-disk shape of a custom judge list.
type judgesFile struct {
	Judges []Definition `yaml:"judges"`
}

// LoadFile reads custom judge definitions from a YAML file. A missing file
// is not an error; it just means no custom judges.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read judges file: %w", err)
	}

	var f judgesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse judges file %s: %w", path, err)
	}
	for i := range f.Judges {
		f.Judges[i].Builtin = false
	}
	return f.Judges, nil
}

// SaveFile writes the panel's custom judges to a YAML file so they survive
// the session.
func SaveFile(path string, panel *Panel) error {
	var f judgesFile
	for _, def := range panel.List() {
		if !def.Builtin {
			f.Judges = append(f.Judges, def)
		}
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshal judges: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create judges dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write judges file: %w", err)
	}
	return nil
}
