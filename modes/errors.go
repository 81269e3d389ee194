package modes

import "errors"

// Sentinel errors returned by the registry.
var (
	// ErrUnsupportedMode is returned for a Mode outside the closed set, for
	// an identifier [Parse] does not recognise, or when the composite
	// [UnifiedPrism] mode appears where only a base primitive is allowed.
	ErrUnsupportedMode = errors.New("modes: unsupported mode")

	// ErrEmptyChain is returned when a [Chain] has no layers.
	ErrEmptyChain = errors.New("modes: chain must contain at least one mode")
)
