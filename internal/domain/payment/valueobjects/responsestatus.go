package valueobjects

import (
	apperrors "github.com/orris-inc/paygate/internal/shared/errors"
)

// ResponseStatus is the status code the gateway reports for a transaction.
type ResponseStatus string

const (
	ResponseStatusOpen       ResponseStatus = "OPEN"
	ResponseStatusAuthorized ResponseStatus = "AUTHORIZED"
	ResponseStatusErr        ResponseStatus = "ERR"
	ResponseStatusOK         ResponseStatus = "OK"
	ResponseStatusRefund     ResponseStatus = "REFUND"
	ResponseStatusChargeback ResponseStatus = "CBACK"
)

// NewResponseStatus parses a gateway status code. The match is exact.
func NewResponseStatus(code string) (ResponseStatus, error) {
	s := ResponseStatus(code)
	if !s.IsValid() {
		return "", apperrors.NewInvalidArgumentError("unknown response status", code)
	}
	return s, nil
}

func (s ResponseStatus) IsValid() bool {
	switch s {
	case ResponseStatusOpen, ResponseStatusAuthorized, ResponseStatusErr,
		ResponseStatusOK, ResponseStatusRefund, ResponseStatusChargeback:
		return true
	default:
		return false
	}
}

func (s ResponseStatus) IsSuccessful() bool {
	return s == ResponseStatusOK
}

func (s ResponseStatus) IsPending() bool {
	return s == ResponseStatusOpen
}

// IsFinal reports whether the gateway will not move the transaction on its own.
// AUTHORIZED is not final: it still settles to OK or ERR.
func (s ResponseStatus) IsFinal() bool {
	switch s {
	case ResponseStatusErr, ResponseStatusOK, ResponseStatusRefund, ResponseStatusChargeback:
		return true
	default:
		return false
	}
}

func (s ResponseStatus) String() string {
	return string(s)
}
