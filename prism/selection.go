package prism

import (
	"fmt"

	"github.com/hasbyte1/go-prism/modes"
)

// Selection says which primitive or chain an operation uses.  It is a closed
// union of [Primitive] and [NamedChain]; the caller builds one explicitly, so
// the engine never has to guess whether an identifier names a mode or a
// stored chain.
type Selection interface {
	// Resolve returns the concrete, validated layer order.
	Resolve() (modes.Chain, error)
	String() string

	selection()
}

// Primitive selects a single base mode, or the master cascade when the mode
// is [modes.UnifiedPrism].
type Primitive modes.Mode

// Master selects the fixed eight-layer cascade.
func Master() Selection { return Primitive(modes.UnifiedPrism) }

// Resolve implements [Selection].
func (p Primitive) Resolve() (modes.Chain, error) {
	m := modes.Mode(p)
	switch {
	case m == modes.UnifiedPrism:
		return modes.DefaultChain(), nil
	case m.IsBase():
		return modes.Chain{m}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedMode, int(m))
}

func (p Primitive) String() string { return modes.Mode(p).String() }

func (Primitive) selection() {}

// NamedChain selects a caller-defined cascade.  Name is informational; only
// Modes takes part in encryption.
type NamedChain struct {
	Name  string
	Modes modes.Chain
}

// Resolve implements [Selection].  The returned chain is a copy.
func (c NamedChain) Resolve() (modes.Chain, error) {
	if err := c.Modes.Validate(); err != nil {
		return nil, err
	}
	out := make(modes.Chain, len(c.Modes))
	copy(out, c.Modes)
	return out, nil
}

func (c NamedChain) String() string {
	if c.Name == "" {
		return "chain(" + c.Modes.String() + ")"
	}
	return c.Name
}

func (NamedChain) selection() {}

func resolve(sel Selection) (modes.Chain, error) {
	if sel == nil {
		return nil, ErrNoSelection
	}
	return sel.Resolve()
}
