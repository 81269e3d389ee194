package prism

import (
	"errors"

	"github.com/hasbyte1/go-prism/kdf"
	"github.com/hasbyte1/go-prism/modes"
)

// Sentinel errors returned by the engine.
//
// Callers should use errors.Is for comparisons:
//
//	pt, err := engine.Decrypt(ct, pw, prism.Primitive(modes.AESGCM), nil)
//	if errors.Is(err, prism.ErrIntegrityViolation) {
//	    // wrong password or tampered artifact; ask again
//	}
//
// None of these conditions is transient and the engine never retries.
var (
	// ErrMalformedArtifact is returned when the input is too short to hold
	// the salt, nonce and tag (or MAC) of its outermost layer, or when
	// base64 text handed to [Engine.DecryptText] cannot be decoded.
	ErrMalformedArtifact = errors.New("prism: malformed artifact")

	// ErrIntegrityViolation is returned when an AEAD tag or HMAC does not
	// verify.  It covers both a wrong password and a modified artifact and
	// is deliberately the same value for every layer of a chain.
	ErrIntegrityViolation = errors.New("prism: integrity check failed")

	// ErrUnsupportedMode is returned for a mode outside the registry, or for
	// the master mode where a single primitive is required.
	ErrUnsupportedMode = modes.ErrUnsupportedMode

	// ErrEmptyChain is returned when a chain selection has no layers.
	ErrEmptyChain = modes.ErrEmptyChain

	// ErrDerivationFailure is returned when the key derivation or cipher
	// backend cannot produce a usable primitive.
	ErrDerivationFailure = kdf.ErrDerivationFailure

	// ErrEmptyPassword is returned when a nil or zero-length password is
	// supplied.
	ErrEmptyPassword = errors.New("prism: password must not be empty")

	// ErrNoSelection is returned when a nil [Selection] is supplied.
	ErrNoSelection = errors.New("prism: no mode or chain selected")

	// ErrPayloadTooLarge is returned when a single layer's input exceeds
	// what its primitive can encrypt (2^24-1 bytes for AES-CCM).
	ErrPayloadTooLarge = errors.New("prism: payload too large for mode")
)
