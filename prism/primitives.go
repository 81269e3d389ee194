package prism

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/ProtonMail/go-crypto/ocb"
	"github.com/pion/dtls/v2/pkg/crypto/ccm"
	"github.com/tink-crypto/tink-go/v2/aead/subtle"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/hasbyte1/go-prism/kdf"
	"github.com/hasbyte1/go-prism/modes"
)

// aeadTagSize is the authentication tag length of every AEAD primitive.
const aeadTagSize = 16

// ──────────────────────────────────────────────────────────────────────────────
// AEAD primitives
// ──────────────────────────────────────────────────────────────────────────────

// aeadPrimitive seals and opens the body of an AEAD layer, which is
// nonce ‖ ciphertext ‖ tag.
type aeadPrimitive interface {
	seal(key, plaintext []byte) ([]byte, error)
	open(key, body []byte) ([]byte, error)
}

// stdAEAD adapts any cipher.AEAD that accepts a caller-chosen nonce.
type stdAEAD struct {
	nonceSize int
	construct func(key []byte) (cipher.AEAD, error)
}

// lengthLimited is implemented by AEADs with a per-message size limit.
type lengthLimited interface {
	MaxLength() int
}

func (p stdAEAD) seal(key, plaintext []byte) ([]byte, error) {
	aead, err := p.construct(key)
	if err != nil {
		return nil, err
	}
	if l, ok := aead.(lengthLimited); ok && len(plaintext) > l.MaxLength() {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, len(plaintext), l.MaxLength())
	}
	nonce, err := randomBytes(p.nonceSize)
	if err != nil {
		return nil, err
	}
	out := make([]byte, p.nonceSize, p.nonceSize+len(plaintext)+aead.Overhead())
	copy(out, nonce)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

func (p stdAEAD) open(key, body []byte) ([]byte, error) {
	aead, err := p.construct(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, body[:p.nonceSize], body[p.nonceSize:], nil)
	if err != nil {
		return nil, ErrIntegrityViolation
	}
	return plaintext, nil
}

// gcmSIV wraps Tink's AES-GCM-SIV, which draws its own 12-byte nonce and
// emits nonce ‖ ciphertext ‖ tag, the same layout as stdAEAD.
type gcmSIV struct{}

func (gcmSIV) seal(key, plaintext []byte) ([]byte, error) {
	a, err := subtle.NewAESGCMSIV(key)
	if err != nil {
		return nil, err
	}
	return a.Encrypt(plaintext, nil)
}

func (gcmSIV) open(key, body []byte) ([]byte, error) {
	a, err := subtle.NewAESGCMSIV(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := a.Decrypt(body, nil)
	if err != nil {
		return nil, ErrIntegrityViolation
	}
	return plaintext, nil
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithTagSize(block, aeadTagSize)
}

func newAESCCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return ccm.NewCCM(block, aeadTagSize, 12)
}

func newAESOCB(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return ocb.NewOCBWithNonceAndTagSize(block, 12, aeadTagSize)
}

var aeadPrimitives = map[modes.Mode]aeadPrimitive{
	modes.AESGCM:            stdAEAD{nonceSize: 12, construct: newAESGCM},
	modes.AESCCM:            stdAEAD{nonceSize: 12, construct: newAESCCM},
	modes.ChaCha20Poly1305:  stdAEAD{nonceSize: chacha20poly1305.NonceSize, construct: chacha20poly1305.New},
	modes.AESGCMSIV:         gcmSIV{},
	modes.XChaCha20Poly1305: stdAEAD{nonceSize: chacha20poly1305.NonceSizeX, construct: chacha20poly1305.NewX},
	modes.AESOCB:            stdAEAD{nonceSize: 12, construct: newAESOCB},
}

// ──────────────────────────────────────────────────────────────────────────────
// Composite primitives (unauthenticated cipher + HMAC)
// ──────────────────────────────────────────────────────────────────────────────

// compositePrimitive pairs an AES stream or block mode with an HMAC.  The
// layer body is iv ‖ MAC ‖ ciphertext, where MAC = HMAC(macKey, iv ‖ ciphertext).
type compositePrimitive struct {
	macPurpose kdf.Purpose
	hash       func() hash.Hash
	macSize    int
	encrypt    func(block cipher.Block, iv, plaintext []byte) []byte
	decrypt    func(block cipher.Block, iv, ciphertext []byte) ([]byte, error)
}

func (p compositePrimitive) seal(encKey, macKey, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}
	iv, err := randomBytes(aes.BlockSize)
	if err != nil {
		return nil, err
	}
	ciphertext := p.encrypt(block, iv, plaintext)

	out := make([]byte, 0, len(iv)+p.macSize+len(ciphertext))
	out = append(out, iv...)
	out = append(out, p.mac(macKey, iv, ciphertext)...)
	return append(out, ciphertext...), nil
}

// open verifies the MAC before any decryption takes place.
func (p compositePrimitive) open(encKey, macKey, body []byte) ([]byte, error) {
	iv := body[:aes.BlockSize]
	tag := body[aes.BlockSize : aes.BlockSize+p.macSize]
	ciphertext := body[aes.BlockSize+p.macSize:]

	if !hmac.Equal(tag, p.mac(macKey, iv, ciphertext)) {
		return nil, ErrIntegrityViolation
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}
	plaintext, err := p.decrypt(block, iv, ciphertext)
	if err != nil {
		return nil, ErrIntegrityViolation
	}
	return plaintext, nil
}

func (p compositePrimitive) mac(key, iv, ciphertext []byte) []byte {
	h := hmac.New(p.hash, key)
	h.Write(iv)
	h.Write(ciphertext)
	return h.Sum(nil)
}

func ctrXOR(block cipher.Block, iv, in []byte) []byte {
	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)
	return out
}

func cbcEncrypt(block cipher.Block, iv, plaintext []byte) []byte {
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(padded, padded)
	return padded
}

func cbcDecrypt(block cipher.Block, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errBadPadding
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext, aes.BlockSize)
}

var compositePrimitives = map[modes.Mode]compositePrimitive{
	modes.AESCTRHMACSHA512: {
		macPurpose: kdf.MACKeySHA512,
		hash:       sha512.New,
		macSize:    sha512.Size,
		encrypt:    ctrXOR,
		decrypt: func(block cipher.Block, iv, ciphertext []byte) ([]byte, error) {
			return ctrXOR(block, iv, ciphertext), nil
		},
	},
	modes.AESCBCHMACSHA256: {
		macPurpose: kdf.MACKeySHA256,
		hash:       sha256.New,
		macSize:    sha256.Size,
		encrypt:    cbcEncrypt,
		decrypt:    cbcDecrypt,
	},
}
