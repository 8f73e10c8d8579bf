package core

import (
	"fmt"
	"sort"
	"strings"
)

// Role captures the identity a participant plays in a scene: a display name,
// a background story and weighted personality traits in [0,1] used by the
// importance scorer and temperature derivation.
type Role struct {
	Name       string             `json:"name" yaml:"name"`
	Background string             `json:"background" yaml:"background"`
	Traits     map[string]float64 `json:"traits,omitempty" yaml:"traits,omitempty"`
}

// Trait returns the weight of a named trait, zero if absent.
func (r Role) Trait(name string) float64 { return r.Traits[name] }

// FormatTraits renders the trait map as a stable comma separated list.
func (r Role) FormatTraits() string {
	if len(r.Traits) == 0 {
		return ""
	}
	names := make([]string, 0, len(r.Traits))
	for name := range r.Traits {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %.1f", name, r.Traits[name]))
	}
	return strings.Join(parts, ", ")
}

// ToPrompt renders the role as a prompt fragment for the generation backend.
func (r Role) ToPrompt() string {
	return fmt.Sprintf("Role: %s\nBackground: %s\nTraits: %s", r.Name, r.Background, r.FormatTraits())
}
