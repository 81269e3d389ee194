package prism_test

import (
	"bytes"

	"github.com/hasbyte1/go-prism/modes"
	"github.com/hasbyte1/go-prism/prism"
)

// testIterations keeps PBKDF2 cheap; the production count is exercised by
// the tests that use prism.New() without options.
const testIterations = 1000

func newTestEngine() *prism.Engine {
	return prism.New(prism.WithKDFIterations(testIterations))
}

var (
	password = []byte("s3cr3t-pr1sm")
	wrongPW  = []byte("s3cr3t-pr1sm!")
)

// flipped returns a copy of b with byte i inverted.
func flipped(b []byte, i int) []byte {
	out := bytes.Clone(b)
	out[i] ^= 0xff
	return out
}

// recorder collects the modes passed to a LayerFunc.
type recorder struct {
	seen modes.Chain
}

func (r *recorder) onLayer(m modes.Mode) { r.seen = append(r.seen, m) }

func samplePayloads() map[string][]byte {
	return map[string][]byte{
		"empty":        {},
		"one byte":     {0x42},
		"one block":    bytes.Repeat([]byte{0x10}, 16),
		"block plus 1": bytes.Repeat([]byte{0x11}, 17),
		"text":         []byte("The quick brown fox jumps over the lazy dog"),
		"binary 1KiB":  bytes.Repeat([]byte{0x00, 0xff, 0x7f, 0x80}, 256),
	}
}
