package prism

import (
	"bytes"
	"errors"
)

var errBadPadding = errors.New("prism: invalid PKCS#7 padding")

// pkcs7Pad returns a copy of src padded to a multiple of blockSize.  A full
// block of padding is added when src is already aligned.
func pkcs7Pad(src []byte, blockSize int) []byte {
	padding := blockSize - len(src)%blockSize
	out := make([]byte, len(src), len(src)+padding)
	copy(out, src)
	return append(out, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

// pkcs7Unpad strips PKCS#7 padding.  It only ever sees data whose MAC has
// already been verified.
func pkcs7Unpad(src []byte, blockSize int) ([]byte, error) {
	n := len(src)
	if n == 0 || n%blockSize != 0 {
		return nil, errBadPadding
	}
	padding := int(src[n-1])
	if padding == 0 || padding > blockSize {
		return nil, errBadPadding
	}
	for _, b := range src[n-padding:] {
		if int(b) != padding {
			return nil, errBadPadding
		}
	}
	return src[:n-padding], nil
}
