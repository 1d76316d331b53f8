package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature computes the gateway checkout signature: HMAC-SHA256 over
// "part1|part2" rendered as lowercase hex.
func Signature(secret, part1, part2 string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(part1))
	mac.Write([]byte("|"))
	mac.Write([]byte(part2))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the expected signature and compares it against
// the claimed one in constant time. Callers are expected to reject malformed
// claims before calling; a structurally valid mismatch simply returns false.
func VerifySignature(secret, part1, part2, claimed string) bool {
	expected := Signature(secret, part1, part2)
	return hmac.Equal([]byte(expected), []byte(claimed))
}

// OrderSignature is the one-time payment signing order: orderID|paymentID.
func OrderSignature(secret, orderID, paymentID string) string {
	return Signature(secret, orderID, paymentID)
}

// SubscriptionSignature uses the reversed field order the gateway applies to
// recurring payments: paymentID|subscriptionID.
func SubscriptionSignature(secret, subscriptionID, paymentID string) string {
	return Signature(secret, paymentID, subscriptionID)
}
