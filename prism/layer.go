package prism

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/hasbyte1/go-prism/kdf"
	"github.com/hasbyte1/go-prism/modes"
)

// SaltSize is the length of the random salt at the start of every artifact.
const SaltSize = modes.SaltSize

// EncryptLayer applies a single base primitive to plaintext and returns the
// artifact salt ‖ nonce ‖ payload.  A fresh salt and nonce are drawn on every
// call, so encrypting the same input twice gives different artifacts.
//
// [modes.UnifiedPrism] is rejected with [ErrUnsupportedMode]; use
// [Engine.Encrypt] or [Engine.EncryptChain] for cascades.
func (e *Engine) EncryptLayer(plaintext, password []byte, m modes.Mode) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	return e.encryptLayer(plaintext, password, m)
}

// DecryptLayer reverses [Engine.EncryptLayer].
//
// Possible errors: [ErrMalformedArtifact], [ErrIntegrityViolation],
// [ErrUnsupportedMode], [ErrDerivationFailure].
func (e *Engine) DecryptLayer(artifact, password []byte, m modes.Mode) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	return e.decryptLayer(artifact, password, m)
}

func (e *Engine) encryptLayer(plaintext, password []byte, m modes.Mode) ([]byte, error) {
	md, err := modes.Lookup(m)
	if err != nil {
		return nil, err
	}
	salt, err := randomBytes(SaltSize)
	if err != nil {
		return nil, err
	}

	var body []byte
	switch md.Category {
	case modes.CategoryAEAD:
		p := aeadPrimitives[m]
		key, err := e.deriver.Derive(password, salt, kdf.EncryptionKey)
		if err != nil {
			return nil, err
		}
		defer kdf.Zero(key)
		body, err = p.seal(key, plaintext)
		if err != nil {
			return nil, backendError(m, err)
		}

	case modes.CategoryComposite:
		p := compositePrimitives[m]
		keys, err := e.deriver.DeriveMany(password, salt, kdf.EncryptionKey, p.macPurpose)
		if err != nil {
			return nil, err
		}
		defer zeroAll(keys)
		body, err = p.seal(keys[0], keys[1], plaintext)
		if err != nil {
			return nil, backendError(m, err)
		}

	default:
		return nil, fmt.Errorf("%w: %s is not a single layer", ErrUnsupportedMode, m)
	}

	out := make([]byte, 0, len(salt)+len(body))
	out = append(out, salt...)
	return append(out, body...), nil
}

func (e *Engine) decryptLayer(artifact, password []byte, m modes.Mode) ([]byte, error) {
	md, err := modes.Lookup(m)
	if err != nil {
		return nil, err
	}
	if md.Category == modes.CategoryMaster {
		return nil, fmt.Errorf("%w: %s is not a single layer", ErrUnsupportedMode, m)
	}
	if len(artifact) < SaltSize+md.NonceSize+md.TagSize {
		return nil, ErrMalformedArtifact
	}
	salt, body := artifact[:SaltSize], artifact[SaltSize:]

	var plaintext []byte
	switch md.Category {
	case modes.CategoryAEAD:
		p := aeadPrimitives[m]
		key, err := e.deriver.Derive(password, salt, kdf.EncryptionKey)
		if err != nil {
			return nil, err
		}
		defer kdf.Zero(key)
		plaintext, err = p.open(key, body)
		if err != nil {
			return nil, openError(m, err)
		}

	case modes.CategoryComposite:
		p := compositePrimitives[m]
		keys, err := e.deriver.DeriveMany(password, salt, kdf.EncryptionKey, p.macPurpose)
		if err != nil {
			return nil, err
		}
		defer zeroAll(keys)
		plaintext, err = p.open(keys[0], keys[1], body)
		if err != nil {
			return nil, openError(m, err)
		}
	}
	return plaintext, nil
}

// backendError classifies a failure of a primitive during encryption.
func backendError(m modes.Mode, err error) error {
	if errors.Is(err, ErrPayloadTooLarge) {
		return fmt.Errorf("%s: %w", m, err)
	}
	return fmt.Errorf("%w: %s backend: %v", ErrDerivationFailure, m, err)
}

// openError keeps integrity failures bare so that their text never varies.
func openError(m modes.Mode, err error) error {
	if errors.Is(err, ErrIntegrityViolation) {
		return ErrIntegrityViolation
	}
	return fmt.Errorf("%w: %s backend: %v", ErrDerivationFailure, m, err)
}

func zeroAll(keys [][]byte) {
	for _, k := range keys {
		kdf.Zero(k)
	}
}

// randomBytes returns n bytes from crypto/rand.
func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("%w: read %d random bytes: %v", ErrDerivationFailure, n, err)
	}
	return b, nil
}
