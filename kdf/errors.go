package kdf

import "errors"

// ErrDerivationFailure is returned when key material cannot be produced: an
// empty salt, an unknown [Purpose], or a failure of the underlying
// primitives.  The wrapped message never includes the password.
var ErrDerivationFailure = errors.New("kdf: key derivation failed")
