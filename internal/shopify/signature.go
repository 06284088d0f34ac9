package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifySignature reports whether signature is a valid base64-encoded
// HMAC-SHA256 of body under secret, as sent in X-Shopify-Hmac-Sha256.
//
// body must be the raw request bytes exactly as received: re-encoding a
// parsed JSON body is not byte-identical to the original and breaks the
// signature. The comparison is constant-time. Missing signature, missing
// secret, or malformed base64 all return false rather than an error.
func VerifySignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}

	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)

	return hmac.Equal(provided, mac.Sum(nil))
}
