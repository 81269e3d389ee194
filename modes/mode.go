package modes

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode identifies one encryption primitive, or the composite master chain.
//
// The numeric values match the identifiers used by earlier releases of the
// application, which stored them as the strings "1" through "9".
type Mode int

const (
	// AESGCM is AES-256 in Galois/Counter Mode.
	AESGCM Mode = iota + 1
	// AESCCM is AES-256 in Counter with CBC-MAC mode.
	AESCCM
	// ChaCha20Poly1305 is the IETF ChaCha20-Poly1305 construction (RFC 8439).
	ChaCha20Poly1305
	// AESGCMSIV is the nonce-misuse-resistant AES-256-GCM-SIV (RFC 8452).
	AESGCMSIV
	// AESCTRHMACSHA512 is AES-256-CTR authenticated with HMAC-SHA512.
	AESCTRHMACSHA512
	// XChaCha20Poly1305 is ChaCha20-Poly1305 with a 192-bit extended nonce.
	XChaCha20Poly1305
	// AESCBCHMACSHA256 is AES-256-CBC with PKCS#7 padding, authenticated
	// with HMAC-SHA256.
	AESCBCHMACSHA256
	// AESOCB is AES-256 in Offset Codebook mode (RFC 7253).
	AESOCB
	// UnifiedPrism is the master mode: the eight base primitives applied in
	// the order given by [DefaultChain].
	UnifiedPrism
)

// Category groups modes by how their layer payload is built.
type Category uint8

const (
	// CategoryAEAD modes emit a single authenticated ciphertext with an
	// appended tag.
	CategoryAEAD Category = iota + 1
	// CategoryComposite modes pair an unauthenticated cipher with an HMAC
	// and emit MAC ‖ ciphertext.
	CategoryComposite
	// CategoryMaster is the composite cascade; it has no payload of its own.
	CategoryMaster
)

func (c Category) String() string {
	switch c {
	case CategoryAEAD:
		return "AEAD"
	case CategoryComposite:
		return "COMPOSITE"
	case CategoryMaster:
		return "MASTER"
	}
	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// Metadata describes a single mode.
type Metadata struct {
	// Name is the human-readable display name.
	Name string
	// Slug is the canonical lowercase identifier used in text encodings.
	Slug string
	// NonceSize is the length in bytes of the nonce or IV stored in every
	// artifact produced by this mode.  Zero for [UnifiedPrism].
	NonceSize int
	// TagSize is the AEAD tag length, or the HMAC length for composite
	// modes.  Zero for [UnifiedPrism].
	TagSize int
	// Category selects the payload layout.
	Category Category
}

// SaltSize is the length in bytes of the random salt that opens every
// artifact, regardless of mode.
const SaltSize = 16

// registry is indexed by Mode; index 0 is unused.
var registry = [...]Metadata{
	AESGCM:            {Name: "AES-256-GCM", Slug: "aes-256-gcm", NonceSize: 12, TagSize: 16, Category: CategoryAEAD},
	AESCCM:            {Name: "AES-256-CCM", Slug: "aes-256-ccm", NonceSize: 12, TagSize: 16, Category: CategoryAEAD},
	ChaCha20Poly1305:  {Name: "ChaCha20-Poly1305", Slug: "chacha20-poly1305", NonceSize: 12, TagSize: 16, Category: CategoryAEAD},
	AESGCMSIV:         {Name: "AES-256-GCM-SIV", Slug: "aes-256-gcm-siv", NonceSize: 12, TagSize: 16, Category: CategoryAEAD},
	AESCTRHMACSHA512:  {Name: "AES-256-CTR + HMAC-512", Slug: "aes-256-ctr-hmac-sha512", NonceSize: 16, TagSize: 64, Category: CategoryComposite},
	XChaCha20Poly1305: {Name: "XChaCha20-Poly1305", Slug: "xchacha20-poly1305", NonceSize: 24, TagSize: 16, Category: CategoryAEAD},
	AESCBCHMACSHA256:  {Name: "AES-256-CBC + HMAC-256", Slug: "aes-256-cbc-hmac-sha256", NonceSize: 16, TagSize: 32, Category: CategoryComposite},
	AESOCB:            {Name: "AES-256-OCB", Slug: "aes-256-ocb", NonceSize: 12, TagSize: 16, Category: CategoryAEAD},
	UnifiedPrism:      {Name: "Unified Prism", Slug: "unified-prism", Category: CategoryMaster},
}

// Lookup returns the metadata for m.  It only fails for values outside the
// closed set, which cannot be produced through [Parse].
func Lookup(m Mode) (Metadata, error) {
	if !m.Valid() {
		return Metadata{}, fmt.Errorf("%w: %d", ErrUnsupportedMode, int(m))
	}
	return registry[m], nil
}

// Valid reports whether m is a member of the closed set.
func (m Mode) Valid() bool {
	return m >= AESGCM && m <= UnifiedPrism
}

// IsBase reports whether m is one of the eight base primitives.
func (m Mode) IsBase() bool {
	return m >= AESGCM && m <= AESOCB
}

// All returns the eight base primitives in canonical order.
func All() []Mode {
	return []Mode{
		AESGCM,
		AESCCM,
		ChaCha20Poly1305,
		AESGCMSIV,
		AESCTRHMACSHA512,
		XChaCha20Poly1305,
		AESCBCHMACSHA256,
		AESOCB,
	}
}

// String returns the slug, e.g. "aes-256-gcm".
func (m Mode) String() string {
	if !m.Valid() {
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
	return registry[m].Slug
}

// DisplayName returns the human-readable name, e.g. "AES-256-GCM".
func (m Mode) DisplayName() string {
	if !m.Valid() {
		return m.String()
	}
	return registry[m].Name
}

// Parse resolves a slug, display name or legacy numeric id into a Mode.
// Matching is case-insensitive and ignores surrounding whitespace.
func Parse(s string) (Mode, error) {
	key := strings.TrimSpace(s)
	if key == "" {
		return 0, fmt.Errorf("%w: empty identifier", ErrUnsupportedMode)
	}
	if n, err := strconv.Atoi(key); err == nil {
		m := Mode(n)
		if !m.Valid() {
			return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
		}
		return m, nil
	}
	for m := AESGCM; m <= UnifiedPrism; m++ {
		md := registry[m]
		if strings.EqualFold(key, md.Slug) || strings.EqualFold(key, md.Name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
}

// MarshalText implements [encoding.TextMarshaler] using the slug.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMode, int(m))
	}
	return []byte(registry[m].Slug), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]; it accepts every form
// understood by [Parse].
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
