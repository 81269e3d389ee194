// Package kdf turns a password and a per-layer salt into key material.
//
// Derivation is two-step.  PBKDF2 with HMAC-SHA-256 and [Iterations] rounds
// stretches (password, salt) into a 32-byte intermediate secret; HKDF-Expand
// with SHA-256 then produces one key per [Purpose], using the purpose label
// as the HKDF info string.  Two keys derived from the same (password, salt)
// for different purposes are therefore independent, even when they share a
// length (an AES-256 key and an HMAC-SHA256 key, for example).
//
// Quick start:
//
//	key, err := kdf.Derive(password, salt, kdf.EncryptionKey)
//
// Composite layers need an encryption key and a MAC key from one salt; use
// [Deriver.DeriveMany] so that the expensive PBKDF2 step runs once:
//
//	keys, err := kdf.Default.DeriveMany(password, salt, kdf.EncryptionKey, kdf.MACKeySHA512)
//
// Nothing in this package logs or returns the password, and the intermediate
// secret is zeroed before the call returns.
package kdf
