package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey hashes a namespace and the parts that identify an entry. Parts
// are JSON-encoded first so that adjacent strings cannot run together.
func hashKey(namespace string, parts ...any) string {
	data, _ := json.Marshal(append([]any{namespace}, parts...))
	return Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
