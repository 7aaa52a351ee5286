package report

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ekiren/bistsignal/internal/models"
)

// Fingerprint hashes the digest body. The header is excluded on purpose:
// it carries the run timestamp, and an unchanged watchlist must map to an
// unchanged fingerprint so redelivery is suppressed.
func Fingerprint(d models.RunDigest) string {
	sum := sha256.Sum256([]byte(d.Body))
	return hex.EncodeToString(sum[:])
}
