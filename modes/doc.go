// Package modes is the registry of encryption primitives understood by the
// prism engine.
//
// Every primitive is identified by a [Mode].  The set is closed: eight base
// primitives plus the composite [UnifiedPrism] mode, which stands for the
// fixed eight-layer cascade returned by [DefaultChain].  The metadata table
// behind [Lookup] is the single source of truth for nonce lengths, tag sizes
// and categories, so that the encrypt and decrypt paths always agree on the
// artifact framing.
//
// # Identifiers
//
// Modes have three textual forms, all accepted by [Parse]:
//
//	aes-256-gcm         slug, used by [Mode.String] and MarshalText
//	AES-256-GCM         display name
//	1                   legacy numeric id
//
// # Chains
//
// A [Chain] is an ordered list of base primitives.  Chains are plain values;
// naming and storing them is left to the caller (see the chaindef package).
package modes
