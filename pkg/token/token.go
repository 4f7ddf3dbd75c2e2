package token

import (
	"crypto/rand"
	"math/big"
)

// Alphabet matches the historical id_token format: uppercase letters and digits.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of characters in a generated token.
const Length = 8

// New generates a random 8-character identifier token.
// Tokens are not guaranteed globally unique; callers that need
// uniqueness should pair them with a database unique index.
func New() string {
	buf := make([]byte, Length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf)
}
