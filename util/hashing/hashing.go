package hashing

import (
	"crypto/md5"
	"encoding/hex"
)

// GenerateStringHash fingerprints arbitrary content, used for deal
// deduplication and solver cache keys.
func GenerateStringHash(data string) string {
	h := md5.Sum([]byte(data))
	return hex.EncodeToString(h[:])
}
