package prism

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"

	"github.com/hasbyte1/go-prism/modes"
)

// Signals for engine events.  Events carry sizes, modes and timings only;
// payloads, passwords and keys are never attached.
var (
	SignalEncryptStart    = capitan.NewSignal("prism.encrypt.start", "Encrypt operation beginning")
	SignalEncryptComplete = capitan.NewSignal("prism.encrypt.complete", "Encrypt operation finished")
	SignalDecryptStart    = capitan.NewSignal("prism.decrypt.start", "Decrypt operation beginning")
	SignalDecryptComplete = capitan.NewSignal("prism.decrypt.complete", "Decrypt operation finished")
	SignalLayerStart      = capitan.NewSignal("prism.layer.start", "Layer operation beginning")
	SignalRedacted        = capitan.NewSignal("prism.redact.applied", "Card numbers masked before encryption")
)

// Keys for typed event data.
var (
	KeySelection     = capitan.NewStringKey("selection")
	KeyMode          = capitan.NewStringKey("mode")
	KeyDirection     = capitan.NewStringKey("direction")
	KeyLayers        = capitan.NewIntKey("layers")
	KeySize          = capitan.NewIntKey("size")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyRedactedCount = capitan.NewIntKey("redacted_count")
	KeyError         = capitan.NewErrorKey("error")
)

type direction string

const (
	directionEncrypt direction = "encrypt"
	directionDecrypt direction = "decrypt"
)

func emitStart(c *capitan.Capitan, dir direction, sel Selection, layers, size int) {
	signal := SignalEncryptStart
	if dir == directionDecrypt {
		signal = SignalDecryptStart
	}
	c.Emit(context.Background(), signal,
		KeySelection.Field(selectionName(sel)),
		KeyLayers.Field(layers),
		KeySize.Field(size),
	)
}

func emitComplete(c *capitan.Capitan, dir direction, sel Selection, layers, size int, duration time.Duration, err error) {
	signal := SignalEncryptComplete
	if dir == directionDecrypt {
		signal = SignalDecryptComplete
	}
	fields := []capitan.Field{
		KeySelection.Field(selectionName(sel)),
		KeyLayers.Field(layers),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		c.Error(context.Background(), signal, fields...)
	} else {
		c.Emit(context.Background(), signal, fields...)
	}
}

func emitLayerStart(c *capitan.Capitan, m modes.Mode, dir direction) {
	c.Emit(context.Background(), SignalLayerStart,
		KeyMode.Field(m.String()),
		KeyDirection.Field(string(dir)),
	)
}

func emitRedacted(c *capitan.Capitan, count int) {
	c.Emit(context.Background(), SignalRedacted,
		KeyRedactedCount.Field(count),
	)
}

func selectionName(sel Selection) string {
	if sel == nil {
		return ""
	}
	return sel.String()
}
