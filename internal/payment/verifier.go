package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog"
)

// Verifier asserts the authenticity of a gateway payment claim. It is a
// pure check with no side effects and no network call: it recomputes the
// HMAC the gateway produced and compares in constant time. Anything that
// does not match is treated as forged.
type Verifier interface {
	// Verify reports whether signature is the HMAC-SHA256 of
	// "<orderRef>|<paymentRef>" under the shared secret.
	Verify(gatewayOrderRef, gatewayPaymentRef, signature string) bool
}

type hmacVerifier struct {
	secret []byte
	logger zerolog.Logger
}

// NewHMACVerifier creates a verifier bound to the gateway's shared secret.
func NewHMACVerifier(secret string, logger zerolog.Logger) Verifier {
	return &hmacVerifier{
		secret: []byte(secret),
		logger: logger.With().Str("component", "payment_verifier").Logger(),
	}
}

// Verify recomputes the signature and compares with hmac.Equal. It fails
// closed: a malformed or empty signature is Invalid, never a pass.
func (v *hmacVerifier) Verify(gatewayOrderRef, gatewayPaymentRef, signature string) bool {
	if gatewayOrderRef == "" || gatewayPaymentRef == "" || signature == "" {
		return false
	}

	expected := Sign(v.secret, gatewayOrderRef, gatewayPaymentRef)
	valid := hmac.Equal([]byte(expected), []byte(signature))
	if !valid {
		v.logger.Warn().
			Str("gateway_order_ref", gatewayOrderRef).
			Msg("payment signature mismatch")
	}

	return valid
}

// Sign computes the hex-encoded HMAC-SHA256 of "<orderRef>|<paymentRef>"
// under secret. Exported so tests can produce valid signatures the same way
// the gateway does.
func Sign(secret []byte, gatewayOrderRef, gatewayPaymentRef string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(gatewayOrderRef + "|" + gatewayPaymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}
