package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"id":1234,"email":"a@x.com"}`)
	secret := "shpss_test_secret"

	t.Run("valid signature", func(t *testing.T) {
		if !VerifySignature(body, sign(body, secret), secret) {
			t.Error("expected valid signature to verify")
		}
	})

	t.Run("mutated body", func(t *testing.T) {
		sig := sign(body, secret)
		for i := range body {
			mutated := append([]byte(nil), body...)
			mutated[i] ^= 0x01
			if VerifySignature(mutated, sig, secret) {
				t.Errorf("byte %d: mutated body must not verify", i)
			}
		}
	})

	t.Run("mutated signature", func(t *testing.T) {
		raw, _ := base64.StdEncoding.DecodeString(sign(body, secret))
		for i := range raw {
			bad := append([]byte(nil), raw...)
			bad[i] ^= 0x01
			if VerifySignature(body, base64.StdEncoding.EncodeToString(bad), secret) {
				t.Errorf("byte %d: mutated signature must not verify", i)
			}
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		if VerifySignature(body, sign(body, secret), "other-secret") {
			t.Error("signature under a different secret must not verify")
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		if VerifySignature(body, "", secret) {
			t.Error("empty signature must not verify")
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		if VerifySignature(body, sign(body, secret), "") {
			t.Error("empty secret must not verify")
		}
	})

	t.Run("malformed base64", func(t *testing.T) {
		if VerifySignature(body, "not-valid-base64!!!", secret) {
			t.Error("malformed base64 must return false, not panic")
		}
	})

	t.Run("verification over raw bytes", func(t *testing.T) {
		// Re-encoded JSON (different key order, whitespace) must fail even
		// though it is semantically the same document.
		reencoded := []byte(`{"email": "a@x.com", "id": 1234}`)
		if VerifySignature(reencoded, sign(body, secret), secret) {
			t.Error("re-serialized body must not verify against the original signature")
		}
	})
}
