// Package strhash implements the deterministic djb2-style hash used as
// identity for every identifier in the database: interface names, input
// names, icon names, label presets, and device field names.
//
// The hash is 32-bit, computed byte-wise with no case folding and no UTF-8
// decoding — identifiers are ASCII ([A-Za-z0-9_]+) by grammar, so decoding
// would be wasted work.
package strhash

// Hash is a 32-bit identifier fingerprint.
type Hash uint32

// Seed is the hash of the empty string: h0 = 5381.
const Seed Hash = 5381

// Sum computes the hash of s from the seed.
func Sum(s string) Hash {
	h := Seed
	for i := 0; i < len(s); i++ {
		h = Append(h, s[i])
	}
	return h
}

// Append folds one more byte into an in-progress hash: h' = h*33 + b.
func Append(h Hash, b byte) Hash {
	return (h<<5)+h + Hash(b)
}

// Compose builds the hash of "a.b" from the already-known hash of a and the
// literal bytes of b, without rematerializing the concatenated string.
// It is used by the parser to build "iface.input" fully-qualified hashes
// from two separately tokenized names.
func Compose(a Hash, dot byte, b string) Hash {
	h := Append(a, dot)
	for i := 0; i < len(b); i++ {
		h = Append(h, b[i])
	}
	return h
}

// Qualify is a convenience wrapper around Compose for the common
// "iface.input" case, hashing iface from scratch.
func Qualify(iface, input string) Hash {
	return Compose(Sum(iface), '.', input)
}
