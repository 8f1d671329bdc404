package payment

// SubmissionResult is what the gateway hands back for a submitted request.
// The identifiers and TestMode are only populated on the webservice path.
type SubmissionResult struct {
	PaymentURL            string
	TransactionID         *string
	ProviderTransactionID *string
	TestMode              *bool
}

// IsWebservice reports whether the result came from the webservice path.
func (r *SubmissionResult) IsWebservice() bool {
	return r.TransactionID != nil
}
