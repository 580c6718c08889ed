package service

// QRCodeService defines the interface for payment QR code generation
type QRCodeService interface {
	// GeneratePaymentQR renders a PNG QR code for paying the merchant. An amount of 0 leaves it to the payer.
	GeneratePaymentQR(merchantID string, amount float64) ([]byte, error)

	// ParsePaymentQR decodes the payload of a code produced by GeneratePaymentQR.
	ParsePaymentQR(payload string) (merchantID string, amount float64, err error)
}
