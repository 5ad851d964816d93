package groups

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	shareCodeLength   = 8
	shareCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

var shareCodeAlphabetLen = big.NewInt(int64(len(shareCodeAlphabet)))

// NewShareCode returns a fresh 8-character alphanumeric code. Each position
// is drawn with rand.Int so no alphabet character is favored. Uniqueness is
// enforced by the database; callers retry on collision.
func NewShareCode() (string, error) {
	buf := make([]byte, shareCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, shareCodeAlphabetLen)
		if err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}
		buf[i] = shareCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
