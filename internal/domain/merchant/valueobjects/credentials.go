package valueobjects

// Credentials pairs a merchant id with its shared secret. Both parts are
// immutable, so a Credentials value can be shared freely between goroutines.
type Credentials struct {
	MerchantID MerchantID
	Secret     SharedSecret
}

// NewCredentials validates both parts at once.
func NewCredentials(merchantID, secret string) (Credentials, error) {
	id, err := NewMerchantID(merchantID)
	if err != nil {
		return Credentials{}, err
	}
	s, err := NewSharedSecret(secret)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{MerchantID: id, Secret: s}, nil
}
