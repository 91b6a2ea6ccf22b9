// Package judges holds the evaluator panel: built-in judge personas plus
// user-added ones.
package judges

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateJudge is returned when an id is already on the panel.
	ErrDuplicateJudge = errors.New("judge id already exists")
	// ErrBuiltinJudge is returned when removal targets a built-in judge.
	ErrBuiltinJudge = errors.New("built-in judges cannot be removed")
	// ErrUnknownJudge is returned when no judge carries the given id.
	ErrUnknownJudge = errors.New("no judge with that id")
)

// Definition is one evaluator: a named persona with instruction text applied
// independently to every project.
type Definition struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Instruction string `yaml:"instruction" json:"instruction"`
	Builtin     bool   `yaml:"-" json:"builtin"`
}

// Panel is an explicitly owned judge list. Built-ins are installed at
// construction and can never be removed; custom judges come and go by id.
type Panel struct {
	mu   sync.RWMutex
	defs []Definition
}

// NewPanel creates a panel seeded with the built-in judges.
func NewPanel() *Panel {
	p := &Panel{}
	p.defs = append(p.defs, Builtins()...)
	return p
}

// Add registers a custom judge with a generated unique id.
func (p *Panel) Add(name, description, instruction string) (Definition, error) {
	def := Definition{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Instruction: instruction,
	}
	if err := p.AddDefinition(def); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// AddDefinition registers a fully-specified judge, enforcing id uniqueness.
func (p *Panel) AddDefinition(def Definition) error {
	if def.ID == "" {
		return fmt.Errorf("judge %q: id is required", def.Name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.defs {
		if existing.ID == def.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateJudge, def.ID)
		}
	}
	p.defs = append(p.defs, def)
	return nil
}

// Remove deletes a custom judge by id. Built-ins refuse removal.
func (p *Panel) Remove(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, def := range p.defs {
		if def.ID != id {
			continue
		}
		if def.Builtin {
			return fmt.Errorf("%w: %s", ErrBuiltinJudge, id)
		}
		p.defs = append(p.defs[:i], p.defs[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownJudge, id)
}

// Get returns the judge with the given id.
func (p *Panel) Get(id string) (Definition, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, def := range p.defs {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// List returns a copy of the panel in insertion order.
func (p *Panel) List() []Definition {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Definition, len(p.defs))
	copy(out, p.defs)
	return out
}

// Len returns the panel size.
func (p *Panel) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.defs)
}
