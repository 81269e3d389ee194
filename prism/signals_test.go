package prism

import (
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/capitan"
	capitantesting "github.com/zoobzio/capitan/testing"

	"github.com/hasbyte1/go-prism/modes"
)

func syncBus(t *testing.T) (*capitan.Capitan, *capitantesting.EventCapture) {
	t.Helper()
	bus := capitan.New(capitan.WithSyncMode())
	capture := capitantesting.NewEventCapture()
	obs := bus.Observe(capture.Handler())
	t.Cleanup(func() {
		obs.Close()
		bus.Shutdown()
	})
	return bus, capture
}

func TestEmitStartAndComplete(t *testing.T) {
	bus, capture := syncBus(t)
	sel := Primitive(modes.AESGCM)

	emitStart(bus, directionDecrypt, sel, 1, 55)
	emitComplete(bus, directionDecrypt, sel, 1, 0, 10*time.Millisecond, ErrIntegrityViolation)

	events := capture.Events()
	if len(events) != 2 {
		t.Fatalf("captured %d events, want 2", len(events))
	}

	start := events[0]
	if start.Signal != SignalDecryptStart || start.Severity != capitan.SeverityInfo {
		t.Errorf("start = %s/%s", start.Signal.Name(), start.Severity)
	}
	if got := KeySelection.ExtractFromFields(start.Fields); got != "aes-256-gcm" {
		t.Errorf("selection = %q", got)
	}
	if got := KeySize.ExtractFromFields(start.Fields); got != 55 {
		t.Errorf("size = %d, want 55", got)
	}

	done := events[1]
	if done.Signal != SignalDecryptComplete || done.Severity != capitan.SeverityError {
		t.Errorf("complete = %s/%s, want error severity", done.Signal.Name(), done.Severity)
	}
	if got := KeyDuration.ExtractFromFields(done.Fields); got != 10*time.Millisecond {
		t.Errorf("duration = %v", got)
	}
	if got := KeyError.ExtractFromFields(done.Fields); got != ErrIntegrityViolation { //nolint:errorlint // identity is the property under test
		t.Errorf("error field = %v", got)
	}
}

func TestEmitComplete_SuccessHasNoError(t *testing.T) {
	bus, capture := syncBus(t)

	emitComplete(bus, directionEncrypt, Master(), 8, 400, time.Millisecond, nil)

	events := capture.Events()
	if len(events) != 1 {
		t.Fatalf("captured %d events, want 1", len(events))
	}
	if events[0].Signal != SignalEncryptComplete || events[0].Severity != capitan.SeverityInfo {
		t.Errorf("complete = %s/%s", events[0].Signal.Name(), events[0].Severity)
	}
	for _, f := range events[0].Fields {
		if f.Key().Name() == KeyError.Name() {
			t.Fatalf("success event carries an error field: %v", f.Value())
		}
	}
	if got := KeyLayers.ExtractFromFields(events[0].Fields); got != 8 {
		t.Errorf("layers = %d, want 8", got)
	}
}

func TestEmitLayerAndRedacted(t *testing.T) {
	bus, capture := syncBus(t)

	emitLayerStart(bus, modes.AESOCB, directionEncrypt)
	emitRedacted(bus, 2)

	events := capture.Events()
	if len(events) != 2 {
		t.Fatalf("captured %d events, want 2", len(events))
	}
	if got := KeyMode.ExtractFromFields(events[0].Fields); got != "aes-256-ocb" {
		t.Errorf("mode = %q", got)
	}
	if got := KeyDirection.ExtractFromFields(events[0].Fields); got != "encrypt" {
		t.Errorf("direction = %q", got)
	}
	if events[1].Signal != SignalRedacted {
		t.Errorf("signal = %s", events[1].Signal.Name())
	}
	if got := KeyRedactedCount.ExtractFromFields(events[1].Fields); got != 2 {
		t.Errorf("redacted_count = %d, want 2", got)
	}
}

func TestSelectionName(t *testing.T) {
	if got := selectionName(nil); got != "" {
		t.Fatalf("selectionName(nil) = %q", got)
	}
	if got := selectionName(Master()); got != "unified-prism" {
		t.Fatalf("selectionName(Master()) = %q", got)
	}
}

func TestOpenError_KeepsIntegrityBare(t *testing.T) {
	if err := openError(modes.AESGCM, ErrIntegrityViolation); err != ErrIntegrityViolation { //nolint:errorlint // identity is the property under test
		t.Fatalf("got %v", err)
	}
	err := openError(modes.AESGCM, errors.New("boom"))
	if !errors.Is(err, ErrDerivationFailure) {
		t.Fatalf("got %v, want ErrDerivationFailure", err)
	}
}
