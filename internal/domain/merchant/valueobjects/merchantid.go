package valueobjects

import (
	"regexp"

	apperrors "github.com/orris-inc/paygate/internal/shared/errors"
)

var merchantIDPattern = regexp.MustCompile(`^[0-9]{5}$`)

// MerchantID identifies a registered merchant account at the gateway.
type MerchantID struct {
	value string
}

// NewMerchantID validates that id is exactly five ASCII digits.
func NewMerchantID(id string) (MerchantID, error) {
	if !merchantIDPattern.MatchString(id) {
		return MerchantID{}, apperrors.NewInvalidArgumentError("merchant id must be exactly 5 digits")
	}
	return MerchantID{value: id}, nil
}

func (m MerchantID) String() string {
	return m.value
}

func (m MerchantID) IsZero() bool {
	return m.value == ""
}
