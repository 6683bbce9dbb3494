package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/quantmind-br/assetmanifest/internal/utils"
)

// Key prefixes for the record kinds in the store
const (
	PrefixLatest  = "latest"
	PrefixHistory = "history"
)

// GenerateKey generates a store key from a manifest target path.
// The key is a SHA256 hash of the canonical path.
func GenerateKey(target string) string {
	hash := sha256.Sum256([]byte(utils.CanonicalPath(target)))
	return hex.EncodeToString(hash[:])
}

// LatestKey is the key of the most recent record of target
func LatestKey(target string) []byte {
	return []byte(PrefixLatest + ":" + GenerateKey(target))
}

// HistoryPrefix is the key prefix of every history record of target
func HistoryPrefix(target string) []byte {
	return []byte(PrefixHistory + ":" + GenerateKey(target) + ":")
}

// HistoryKey is the key of the seq-th record of target. Sequence numbers
// are zero padded so keys sort in commit order.
func HistoryKey(target string, seq uint64) []byte {
	return append(HistoryPrefix(target), fmt.Sprintf("%020d", seq)...)
}

// Digest returns the hex SHA256 of content
func Digest(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
