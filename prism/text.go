package prism

import (
	"encoding/base64"
	"strings"
)

// EncryptText encrypts a UTF-8 string and returns the artifact as standard
// padded base64, ready for display or transport.
func (e *Engine) EncryptText(text string, password []byte, sel Selection, maskPAN bool, onLayer LayerFunc) (string, error) {
	out, err := e.Encrypt([]byte(text), password, sel, maskPAN, onLayer)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// DecryptText decodes a base64 artifact produced by [Engine.EncryptText] and
// decrypts it.  Whitespace such as line wrapping is ignored.  Any other
// alphabet, missing padding or non-canonical trailing bits yield
// [ErrMalformedArtifact].
func (e *Engine) DecryptText(encoded string, password []byte, sel Selection, onLayer LayerFunc) (string, error) {
	raw, err := decodeArtifact(encoded)
	if err != nil {
		return "", ErrMalformedArtifact
	}
	out, err := e.Decrypt(raw, password, sel, onLayer)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func decodeArtifact(s string) ([]byte, error) {
	return base64.StdEncoding.Strict().DecodeString(strings.Join(strings.Fields(s), ""))
}
