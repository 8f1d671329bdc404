package handlers

import (
	"context"
	"errors"

	"github.com/orris-inc/paygate/internal/application/payment/paymentgateway"
	merchantvo "github.com/orris-inc/paygate/internal/domain/merchant/valueobjects"
)

// rejectingGateway lists methods but fails every checkout.
type rejectingGateway struct {
	*paymentgateway.MockGateway
}

func (g *rejectingGateway) CheckoutBasic(context.Context, merchantvo.Credentials, *paymentgateway.Payment) (*paymentgateway.CheckoutResult, error) {
	return nil, errors.New("gateway returned status 503")
}
