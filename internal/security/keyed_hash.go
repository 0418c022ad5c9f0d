package security

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// KeyedHasher produces stable pseudonymous fingerprints, such as the hash of
// a client address, without storing the original value.
type KeyedHasher struct {
	key []byte
}

func NewKeyedHasher(secret string) *KeyedHasher {
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	return &KeyedHasher{key: key}
}

func (hasher *KeyedHasher) Hash(value string) string {
	digest, err := blake2b.New256(hasher.key)
	if err != nil {
		return ""
	}
	digest.Write([]byte(strings.TrimSpace(value)))
	return hex.EncodeToString(digest.Sum(nil))
}
