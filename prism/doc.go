// Package prism implements layered password-based authenticated encryption.
//
// A payload is encrypted under one primitive, or under a chain of primitives
// where the complete output of each layer becomes the input of the next.
// Decryption peels the layers in exactly the reverse order.
//
// # Artifact format
//
// Every layer produces a self-describing artifact:
//
//	salt[16] ‖ nonce[N] ‖ payload
//
// N is fixed per mode (see the modes package).  For AEAD modes the payload is
// the ciphertext followed by its 16-byte tag.  For the composite modes it is
//
//	MAC[64|32] ‖ ciphertext
//
// where MAC is HMAC-SHA512 (AES-CTR) or HMAC-SHA256 (AES-CBC) computed over
// nonce ‖ ciphertext.  The nonce is part of the MAC input: this format is not
// interchangeable with layouts that authenticate the ciphertext alone, and
// artifacts from such encoders fail verification here.  A chain adds no framing of its own; its size grows by
// the per-layer overhead reported by [modes.Chain.Overhead].
//
// # Keys
//
// Keys are derived per layer from the password and that layer's salt (see the
// kdf package) and are never stored.  Composite layers derive an encryption
// key and a MAC key from the same salt under different purposes.
//
// # Quick start
//
//	engine := prism.New()
//
//	ct, err := engine.Encrypt([]byte("hello"), pw, prism.Master(), false, nil)
//	pt, err := engine.Decrypt(ct, pw, prism.Master(), nil)
//
// A custom cascade:
//
//	sel := prism.NamedChain{Name: "vault", Modes: modes.Chain{modes.AESGCMSIV, modes.AESOCB}}
//	ct, err := engine.Encrypt(data, pw, sel, false, func(m modes.Mode) {
//	    fmt.Println("layer", m)
//	})
//
// # Security notes
//
//   - Salt and nonce are drawn from crypto/rand for every layer of every call.
//   - Composite layers verify the HMAC in constant time before decrypting.
//   - A failed chain decryption returns the same error after the same amount
//     of key-derivation work, whichever layer rejected the input.
//   - Card-number masking ([Redact]) is applied at most once, to the original
//     text, never to intermediate ciphertext.
//
// # Observability
//
// The engine emits capitan signals (see signals.go) for operation start and
// completion, each layer and each redaction.  The per-call [LayerFunc] is
// the synchronous alternative for progress reporting.
package prism
