package kdf

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations is the PBKDF2 round count used by [Default].
	Iterations = 200_000

	// intermediateSize is the PBKDF2 output length: one SHA-256 block.
	intermediateSize = sha256.Size
)

// Purpose fixes the target algorithm and the length of a derived key.
type Purpose int

const (
	// EncryptionKey is a 256-bit key for AES-256 or (X)ChaCha20.
	EncryptionKey Purpose = iota + 1
	// MACKeySHA256 is a 256-bit HMAC-SHA256 key.
	MACKeySHA256
	// MACKeySHA512 is a 512-bit HMAC-SHA512 key.
	MACKeySHA512
)

type purposeSpec struct {
	size  int
	label string
}

var purposeSpecs = map[Purpose]purposeSpec{
	EncryptionKey: {size: 32, label: "prism/v1/enc/256"},
	MACKeySHA256:  {size: 32, label: "prism/v1/mac/hmac-sha256"},
	MACKeySHA512:  {size: 64, label: "prism/v1/mac/hmac-sha512"},
}

// Size returns the key length in bytes for p, or -1 if p is unknown.
func (p Purpose) Size() int {
	if spec, ok := purposeSpecs[p]; ok {
		return spec.size
	}
	return -1
}

func (p Purpose) String() string {
	if spec, ok := purposeSpecs[p]; ok {
		return spec.label
	}
	return fmt.Sprintf("Purpose(%d)", int(p))
}

// Deriver derives keys with a fixed PBKDF2 iteration count.  A Deriver holds
// no mutable state and is safe for concurrent use.
type Deriver struct {
	iterations int
}

// Default is the production deriver, configured with [Iterations].
var Default = NewDeriver(Iterations)

// NewDeriver returns a Deriver using the given PBKDF2 iteration count.
// A non-positive count selects [Iterations].  Lower counts are meant for
// tests and benchmarks only.
func NewDeriver(iterations int) *Deriver {
	if iterations <= 0 {
		iterations = Iterations
	}
	return &Deriver{iterations: iterations}
}

// Iterations returns the configured PBKDF2 round count.
func (d *Deriver) Iterations() int { return d.iterations }

// Derive is shorthand for Default.Derive.
func Derive(password, salt []byte, p Purpose) ([]byte, error) {
	return Default.Derive(password, salt, p)
}

// Derive returns the key for purpose p.
func (d *Deriver) Derive(password, salt []byte, p Purpose) ([]byte, error) {
	keys, err := d.DeriveMany(password, salt, p)
	if err != nil {
		return nil, err
	}
	return keys[0], nil
}

// DeriveMany returns one key per purpose, in argument order, from a single
// PBKDF2 evaluation.
func (d *Deriver) DeriveMany(password, salt []byte, purposes ...Purpose) ([][]byte, error) {
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: empty salt", ErrDerivationFailure)
	}
	if len(purposes) == 0 {
		return nil, fmt.Errorf("%w: no purpose requested", ErrDerivationFailure)
	}
	for _, p := range purposes {
		if _, ok := purposeSpecs[p]; !ok {
			return nil, fmt.Errorf("%w: unknown purpose %d", ErrDerivationFailure, int(p))
		}
	}

	prk := pbkdf2.Key(password, salt, d.iterations, intermediateSize, sha256.New)
	defer Zero(prk)

	keys := make([][]byte, len(purposes))
	for i, p := range purposes {
		spec := purposeSpecs[p]
		key := make([]byte, spec.size)
		if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, []byte(spec.label)), key); err != nil {
			for _, k := range keys[:i] {
				Zero(k)
			}
			return nil, fmt.Errorf("%w: expand %s: %w", ErrDerivationFailure, p, err)
		}
		keys[i] = key
	}
	return keys, nil
}

// Stretch runs the PBKDF2 step and discards the result.  The chain engine
// uses it to keep the cost of a failed decryption independent of the layer
// at which it failed.
func (d *Deriver) Stretch(password, salt []byte) {
	Zero(pbkdf2.Key(password, salt, d.iterations, intermediateSize, sha256.New))
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
