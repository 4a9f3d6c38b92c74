// Package canonhash fixes the canonical byte representation submissions are
// hashed over: the encoding/json encoding of the typed submission struct,
// which is deterministic because struct fields marshal in declaration order.
// The signer and any independent verifier must agree on these bytes exactly.
package canonhash

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
)

// SumObject returns the SHA-512 digest over the canonical encoding of v,
// together with the canonical bytes themselves.
func SumObject(v any) (digest []byte, canonical []byte, err error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	sum := sha512.Sum512(b)
	return sum[:], b, nil
}

// HexSHA256 is the short-hash helper used to derive public identifiers from
// raw signature bytes. The hex form is 64 characters.
func HexSHA256(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
