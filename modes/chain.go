package modes

import (
	"fmt"
	"strings"
)

// Chain is an ordered sequence of base primitives.  Encryption applies the
// layers first to last; decryption peels them last to first.
type Chain []Mode

// DefaultChain returns a fresh copy of the canonical eight-layer cascade
// used by [UnifiedPrism].  Callers may modify the returned slice.
func DefaultChain() Chain {
	return Chain(All())
}

// Validate checks that c is non-empty and contains only base primitives.
func (c Chain) Validate() error {
	if len(c) == 0 {
		return ErrEmptyChain
	}
	for i, m := range c {
		if !m.IsBase() {
			return fmt.Errorf("%w: layer %d is %s", ErrUnsupportedMode, i, m)
		}
	}
	return nil
}

// Reverse returns a new chain with the layers in reverse order.
func (c Chain) Reverse() Chain {
	out := make(Chain, len(c))
	for i, m := range c {
		out[len(c)-1-i] = m
	}
	return out
}

// Overhead returns the number of bytes the chain adds to a payload: salt,
// nonce and tag or MAC for every layer.  CBC padding is not included, so the
// real growth of a chain containing [AESCBCHMACSHA256] is up to 16 bytes per
// CBC layer larger.
func (c Chain) Overhead() int {
	n := 0
	for _, m := range c {
		if !m.IsBase() {
			continue
		}
		md := registry[m]
		n += SaltSize + md.NonceSize + md.TagSize
	}
	return n
}

// String joins the layer slugs with " > ".
func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, m := range c {
		parts[i] = m.String()
	}
	return strings.Join(parts, " > ")
}
