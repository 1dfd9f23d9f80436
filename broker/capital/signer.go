package capital

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// signer produces the per-request HMAC the API expects: SHA-256 over
// timestamp + method + path + body, keyed with the API secret, hex
// encoded. The timestamp is unix milliseconds and is sent alongside the
// signature so the server can replay the same message.
type signer struct {
	secret []byte
	now    func() time.Time
}

func newSigner(secret string) *signer {
	return &signer{secret: []byte(secret), now: time.Now}
}

// sign returns the timestamp and signature for one request. path must
// include the /api/v1 prefix, body is the exact bytes sent on the wire
// (empty for GET).
func (s *signer) sign(method, path string, body []byte) (timestamp, signature string) {
	timestamp = strconv.FormatInt(s.now().UnixMilli(), 10)

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte(method))
	mac.Write([]byte(path))
	mac.Write(body)

	return timestamp, hex.EncodeToString(mac.Sum(nil))
}
