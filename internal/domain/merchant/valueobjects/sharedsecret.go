package valueobjects

import (
	"fmt"
	"unicode/utf8"

	apperrors "github.com/orris-inc/paygate/internal/shared/errors"
	"github.com/orris-inc/paygate/internal/shared/utils"
)

const sharedSecretLength = 40

// SharedSecret authenticates requests and responses exchanged with the gateway.
// It is never part of the wire payload.
type SharedSecret struct {
	value string
}

// NewSharedSecret validates that secret is 40 characters and not purely numeric.
func NewSharedSecret(secret string) (SharedSecret, error) {
	if utf8.RuneCountInString(secret) != sharedSecretLength {
		return SharedSecret{}, apperrors.NewInvalidArgumentError(
			fmt.Sprintf("shared secret must be exactly %d characters", sharedSecretLength))
	}
	if utils.IsNumeric(secret) {
		return SharedSecret{}, apperrors.NewInvalidArgumentError("shared secret must not be numeric")
	}
	return SharedSecret{value: secret}, nil
}

// Reveal returns the raw secret for checksum computation.
func (s SharedSecret) Reveal() string {
	return s.value
}

// String masks the secret so it can be logged safely.
func (s SharedSecret) String() string {
	return utils.MaskSecret(s.value)
}

func (s SharedSecret) IsZero() bool {
	return s.value == ""
}
