package push

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign produces the hex HMAC-SHA256 signature carried in the
// X-Framerr-Signature header so push receivers can verify origin.
func Sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
