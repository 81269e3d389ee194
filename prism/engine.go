package prism

import (
	"time"
	"unicode/utf8"

	"github.com/zoobzio/capitan"

	"github.com/hasbyte1/go-prism/kdf"
	"github.com/hasbyte1/go-prism/modes"
	"github.com/hasbyte1/go-prism/redact"
)

// Option is a functional option for [New].
type Option func(*Engine)

// WithDeriver replaces the key deriver.  A nil deriver is ignored.
func WithDeriver(d *kdf.Deriver) Option {
	return func(e *Engine) {
		if d != nil {
			e.deriver = d
		}
	}
}

// WithKDFIterations sets the PBKDF2 round count.  Artifacts are only
// readable by an engine using the same count, and anything below
// [kdf.Iterations] weakens the password stretching; use it for tests and
// benchmarks.
func WithKDFIterations(n int) Option {
	return WithDeriver(kdf.NewDeriver(n))
}

// WithEvents routes the engine's signals to c instead of the default capitan
// instance.  A nil instance is ignored.
func WithEvents(c *capitan.Capitan) Option {
	return func(e *Engine) {
		if c != nil {
			e.events = c
		}
	}
}

// Engine is the entry point for layered encryption.  It holds no mutable
// state once constructed; a single Engine may be used from many goroutines.
type Engine struct {
	deriver *kdf.Deriver
	events  *capitan.Capitan
}

// New returns an Engine using [kdf.Default] unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{deriver: kdf.Default}
	for _, o := range opts {
		o(e)
	}
	return e
}

var defaultEngine = New()

// bus returns the configured instance, or capitan's default resolved at
// call time.
func (e *Engine) bus() *capitan.Capitan {
	if e.events != nil {
		return e.events
	}
	return capitan.Default()
}

// Encrypt encrypts payload with the default engine.  See [Engine.Encrypt].
func Encrypt(payload, password []byte, sel Selection, maskPAN bool, onLayer LayerFunc) ([]byte, error) {
	return defaultEngine.Encrypt(payload, password, sel, maskPAN, onLayer)
}

// Decrypt decrypts payload with the default engine.  See [Engine.Decrypt].
func Decrypt(payload, password []byte, sel Selection, onLayer LayerFunc) ([]byte, error) {
	return defaultEngine.Decrypt(payload, password, sel, onLayer)
}

// Redact masks card numbers in text when enabled.  See [redact.PAN].
func Redact(text string, enabled bool) string {
	return redact.PAN(text, enabled)
}

// Encrypt resolves sel and encrypts payload with it.  A single primitive is
// a one-layer chain; [modes.UnifiedPrism] is the default eight-layer chain.
//
// When maskPAN is set and payload is valid UTF-8, card numbers are masked
// once, before the first layer.  Binary payloads are never altered.
func (e *Engine) Encrypt(payload, password []byte, sel Selection, maskPAN bool, onLayer LayerFunc) ([]byte, error) {
	start := time.Now()
	chain, err := resolve(sel)
	if err != nil {
		return nil, err
	}
	emitStart(e.bus(), directionEncrypt, sel, len(chain), len(payload))

	out, err := e.encrypt(payload, password, chain, maskPAN, onLayer)
	emitComplete(e.bus(), directionEncrypt, sel, len(chain), len(out), time.Since(start), err)
	return out, err
}

// Decrypt resolves sel and removes its layers from payload in reverse
// order.  No redaction is undone: masking is one-way.
//
// Possible errors: [ErrMalformedArtifact], [ErrIntegrityViolation],
// [ErrEmptyPassword], [ErrUnsupportedMode], [ErrEmptyChain],
// [ErrDerivationFailure].
func (e *Engine) Decrypt(payload, password []byte, sel Selection, onLayer LayerFunc) ([]byte, error) {
	start := time.Now()
	chain, err := resolve(sel)
	if err != nil {
		return nil, err
	}
	emitStart(e.bus(), directionDecrypt, sel, len(chain), len(payload))

	var out []byte
	if len(password) == 0 {
		err = ErrEmptyPassword
	} else {
		out, err = e.decryptChain(payload, password, chain, onLayer)
	}
	emitComplete(e.bus(), directionDecrypt, sel, len(chain), len(out), time.Since(start), err)
	return out, err
}

func (e *Engine) encrypt(payload, password []byte, chain modes.Chain, maskPAN bool, onLayer LayerFunc) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	input := payload
	if maskPAN && utf8.Valid(payload) {
		text := string(payload)
		if masked, n := redact.Apply(text); n > 0 {
			input = []byte(masked)
			emitRedacted(e.bus(), n)
		}
	}
	return e.encryptChain(input, password, chain, onLayer)
}
