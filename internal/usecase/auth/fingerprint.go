package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprintLength keeps the fingerprint a coarse bucket: distinct clients
// may collide, which is acceptable for quota bucketing.
const fingerprintLength = 16

// Fingerprint derives a short quota-bucketing identifier from the client
// network address and declared agent string. It is one-way and carries no
// identity.
func Fingerprint(remoteAddr, userAgent string) string {
	sum := sha256.Sum256([]byte(remoteAddr + ":" + userAgent))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}
