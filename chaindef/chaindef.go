// Package chaindef stores user-defined encryption chains as plain data.
//
// A [Definition] names an ordered list of base modes.  It carries no key
// material and is safe to keep next to the data it describes.  Definitions
// are read and written as YAML; JSON tags are present for callers that
// exchange them over other channels.
package chaindef

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hasbyte1/go-prism/modes"
	"github.com/hasbyte1/go-prism/prism"
)

// Definition is a saved chain.
type Definition struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Modes       modes.Chain `json:"modes" yaml:"modes"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
}

// New builds and validates a definition with a fresh id and a UTC creation
// time.  Surrounding whitespace is trimmed from name and description.
func New(name, description string, chain modes.Chain) (Definition, error) {
	d := Definition{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Modes:       append(modes.Chain(nil), chain...),
		CreatedAt:   time.Now().UTC(),
	}
	if err := d.Validate(); err != nil {
		return Definition{}, err
	}
	return d, nil
}

// Validate checks that the definition has a name and a usable chain.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	if err := d.Modes.Validate(); err != nil {
		return fmt.Errorf("chaindef: %q: %w", d.Name, err)
	}
	return nil
}

// Selection returns the definition as an engine selection.  The mode list
// is copied.
func (d Definition) Selection() prism.Selection {
	return prism.NamedChain{
		Name:  d.Name,
		Modes: append(modes.Chain(nil), d.Modes...),
	}
}

func (d Definition) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Modes)
}
