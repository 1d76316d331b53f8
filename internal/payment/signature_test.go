package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureKnownVectors(t *testing.T) {
	// Vectors computed independently with openssl dgst -sha256 -hmac.
	assert.Equal(t,
		"a734976b4a9aa4403181acd25d87b09ad8cb31f7d73be91e2bb9eb5c517ca319",
		OrderSignature("test_secret", "order_abc", "pay_xyz"))
	assert.Equal(t,
		"da27dfdbb21383baa3f55ee2792bc3b15a64b0d22617789fb81bbf1e12954957",
		SubscriptionSignature("test_secret", "sub_123", "pay_xyz"))
}

func TestSignatureRoundTrip(t *testing.T) {
	sig := OrderSignature("s3cret", "order_1", "pay_1")
	require.Len(t, sig, 64)
	assert.True(t, VerifySignature("s3cret", "order_1", "pay_1", sig))

	subSig := SubscriptionSignature("s3cret", "sub_1", "pay_1")
	assert.True(t, VerifySignature("s3cret", "pay_1", "sub_1", subSig))
}

func TestSignatureDeterministic(t *testing.T) {
	a := Signature("k", "left", "right")
	b := Signature("k", "left", "right")
	assert.Equal(t, a, b)
}

func TestSignatureSingleCharFlipRejected(t *testing.T) {
	sig := OrderSignature("s3cret", "order_1", "pay_1")
	flipped := []byte(sig)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}
	assert.False(t, VerifySignature("s3cret", "order_1", "pay_1", string(flipped)))
}

func TestSignatureFieldOrderMatters(t *testing.T) {
	// The subscription flow signs paymentID|subscriptionID. A signature
	// built in the one-time order must not pass for the reversed pair.
	sig := Signature("s3cret", "id_a", "id_b")
	assert.False(t, VerifySignature("s3cret", "id_b", "id_a", sig))
}

func TestSignatureWrongSecretRejected(t *testing.T) {
	sig := OrderSignature("s3cret", "order_1", "pay_1")
	assert.False(t, VerifySignature("other", "order_1", "pay_1", sig))
}

func TestSignatureEmptyClaimRejected(t *testing.T) {
	assert.False(t, VerifySignature("s3cret", "order_1", "pay_1", ""))
}
