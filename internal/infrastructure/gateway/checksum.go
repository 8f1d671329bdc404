package gateway

import (
	"context"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"strings"

	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
	"github.com/orris-inc/paygate/internal/domain/payment"
)

// queryChecksumFields are hashed, in order, after the secret and merchant id.
var queryChecksumFields = []string{"status", "statusCode", "orderID", "paymentID", "reference", "transactionID"}

var callbackChecksumFields = append(append([]string{}, queryChecksumFields...), "amount", "currency", "consumerIPAddress")

// Checksum is hex(SHA1(parts joined by "|")).
func Checksum(parts ...string) string {
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// ChecksumVerifier authenticates gateway responses by recomputing their checksum.
type ChecksumVerifier struct{}

func NewChecksumVerifier() *ChecksumVerifier {
	return &ChecksumVerifier{}
}

var _ payment.ResponseVerifier = (*ChecksumVerifier)(nil)

func (v *ChecksumVerifier) VerifyQuery(_ context.Context, creds merchantvo.Credentials, values url.Values) (payment.VerifiedResult, bool, error) {
	return v.verify(creds, values, queryChecksumFields)
}

func (v *ChecksumVerifier) VerifyCallback(_ context.Context, creds merchantvo.Credentials, values url.Values) (payment.VerifiedResult, bool, error) {
	return v.verify(creds, values, callbackChecksumFields)
}

func (v *ChecksumVerifier) verify(creds merchantvo.Credentials, values url.Values, signed []string) (payment.VerifiedResult, bool, error) {
	if valueFold(values, "merchant") != creds.MerchantID.String() {
		return payment.VerifiedResult{}, false, nil
	}

	given := valueFold(values, "checksum")
	if given == "" {
		return payment.VerifiedResult{}, false, nil
	}

	expected := Checksum(signedParts(creds, values, signed)...)
	if subtle.ConstantTimeCompare([]byte(strings.ToLower(given)), []byte(expected)) != 1 {
		return payment.VerifiedResult{}, false, nil
	}

	params := make(map[string]string, len(values))
	for k := range values {
		params[k] = values.Get(k)
	}
	return payment.VerifiedResult{
		Status:     valueFold(values, "status"),
		StatusCode: valueFold(values, "statusCode"),
		OrderID:    valueFold(values, "orderID"),
		Params:     params,
	}, true, nil
}

// valueFold returns the first value whose key matches name case-insensitively,
// preferring an exact match.
func valueFold(values url.Values, name string) string {
	if v, ok := values[name]; ok && len(v) > 0 {
		return v[0]
	}
	for k, v := range values {
		if strings.EqualFold(k, name) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func signedParts(creds merchantvo.Credentials, values url.Values, fields []string) []string {
	parts := make([]string, 0, len(fields)+2)
	parts = append(parts, creds.Secret.Reveal(), creds.MerchantID.String())
	for _, f := range fields {
		parts = append(parts, valueFold(values, f))
	}
	return parts
}

// SignQuery returns values with merchant and checksum set for the query
// channel. The mock gateway and tests use it to produce valid redirects.
func SignQuery(creds merchantvo.Credentials, values url.Values) url.Values {
	return sign(creds, values, queryChecksumFields)
}

// SignCallback is SignQuery for the callback channel.
func SignCallback(creds merchantvo.Credentials, values url.Values) url.Values {
	return sign(creds, values, callbackChecksumFields)
}

func sign(creds merchantvo.Credentials, values url.Values, fields []string) url.Values {
	out := url.Values{}
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	out.Set("merchant", creds.MerchantID.String())
	out.Set("checksum", Checksum(signedParts(creds, out, fields)...))
	return out
}
