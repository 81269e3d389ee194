package prism

import (
	"errors"

	"github.com/hasbyte1/go-prism/modes"
)

// LayerFunc is called synchronously immediately before each layer is
// processed, in the order the layers are visited.  It is a progress signal
// only and cannot stop the operation.
type LayerFunc func(m modes.Mode)

// EncryptChain applies the layers of chain to plaintext first to last.  The
// whole artifact of each layer is the plaintext of the next; no outer framing
// is added.
func (e *Engine) EncryptChain(plaintext, password []byte, chain modes.Chain, onLayer LayerFunc) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if err := chain.Validate(); err != nil {
		return nil, err
	}
	return e.encryptChain(plaintext, password, chain, onLayer)
}

// DecryptChain peels the layers of chain from data last to first.
//
// Every failure other than a malformed outer artifact or a backend error is
// reported as the bare [ErrIntegrityViolation], whatever the depth of the
// failing layer.  The key-derivation work of the layers that were not reached
// is still performed, and onLayer still fires for them, so neither the
// result nor its latency reveals which layer rejected the input.
func (e *Engine) DecryptChain(data, password []byte, chain modes.Chain, onLayer LayerFunc) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if err := chain.Validate(); err != nil {
		return nil, err
	}
	return e.decryptChain(data, password, chain, onLayer)
}

func (e *Engine) encryptChain(plaintext, password []byte, chain modes.Chain, onLayer LayerFunc) ([]byte, error) {
	current := plaintext
	for _, m := range chain {
		e.enterLayer(m, directionEncrypt, onLayer)
		out, err := e.encryptLayer(current, password, m)
		if err != nil {
			return nil, err
		}
		current = out
	}
	return current, nil
}

func (e *Engine) decryptChain(data, password []byte, chain modes.Chain, onLayer LayerFunc) ([]byte, error) {
	order := chain.Reverse()
	current := data
	for i, m := range order {
		e.enterLayer(m, directionDecrypt, onLayer)
		out, err := e.decryptLayer(current, password, m)
		if err == nil {
			current = out
			continue
		}
		if errors.Is(err, ErrDerivationFailure) {
			return nil, err
		}
		if i == 0 && errors.Is(err, ErrMalformedArtifact) {
			return nil, ErrMalformedArtifact
		}
		if errors.Is(err, ErrMalformedArtifact) {
			// The layer stopped before deriving its key.
			e.deriver.Stretch(password, make([]byte, SaltSize))
		}
		e.absorb(order[i+1:], password, onLayer)
		return nil, ErrIntegrityViolation
	}
	return current, nil
}

// absorb spends the derivation cost of the layers a failed decryption did
// not reach.
func (e *Engine) absorb(rest modes.Chain, password []byte, onLayer LayerFunc) {
	salt := make([]byte, SaltSize)
	for _, m := range rest {
		e.enterLayer(m, directionDecrypt, onLayer)
		e.deriver.Stretch(password, salt)
	}
}

func (e *Engine) enterLayer(m modes.Mode, dir direction, onLayer LayerFunc) {
	emitLayerStart(e.bus(), m, dir)
	if onLayer != nil {
		onLayer(m)
	}
}
