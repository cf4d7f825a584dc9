package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
)

// Session IDs are ULIDs drawn from crypto/rand. IDs minted in the same
// millisecond increase monotonically, so they sort by creation time.
var idEntropy = &ulid.LockedMonotonicReader{MonotonicReader: ulid.Monotonic(rand.Reader, 0)}

func newID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), idEntropy).String()
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
