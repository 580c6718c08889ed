// Package qrcode renders the eSewa payment QR code shown at checkout.
package qrcode

import (
	"encoding/json"
	"strings"

	"emart/config"
	"emart/internal/domain/service"
	"emart/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const (
	defaultSize    = 256
	paymentQRType  = "esewa"
	paymentQRScale = 2
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// PaymentQRData is the payload encoded into the code
type PaymentQRData struct {
	Type       string  `json:"type"`
	MerchantID string  `json:"esewa_id"`
	Amount     *string `json:"amount,omitempty"`
}

// NewQRCodeService creates a QR code service from the qrcode config section
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size, level := defaultSize, ""
	if cfg.QRCode != nil {
		size, level = cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel
	}

	return newQRCodeService(size, level)
}

func newQRCodeService(size int, errorCorrectionLevel string) *qrcodeService {
	if size <= 0 {
		size = defaultSize
	}

	var level qrcode.RecoveryLevel
	switch strings.ToUpper(errorCorrectionLevel) {
	case "L":
		level = qrcode.Low
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GeneratePaymentQR renders a PNG for paying merchantID. The amount is omitted when not positive.
func (s *qrcodeService) GeneratePaymentQR(merchantID string, amount float64) ([]byte, error) {
	merchantID = strings.TrimSpace(merchantID)
	if merchantID == "" {
		return nil, errors.New("merchant id is required")
	}

	data := PaymentQRData{Type: paymentQRType, MerchantID: merchantID}
	if amount > 0 {
		formatted := decimal.NewFromFloat(amount).StringFixed(paymentQRScale)
		data.Amount = &formatted
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal QR code data")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParsePaymentQR decodes a payload produced by GeneratePaymentQR
func (s *qrcodeService) ParsePaymentQR(payload string) (string, float64, error) {
	var data PaymentQRData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return "", 0, errors.Wrap(err, "failed to unmarshal QR code data")
	}

	if data.Type != paymentQRType {
		return "", 0, errors.Errorf("invalid QR code type: %s", data.Type)
	}
	if data.MerchantID == "" {
		return "", 0, errors.New("missing merchant id")
	}
	if data.Amount == nil {
		return data.MerchantID, 0, nil
	}

	amount, err := decimal.NewFromString(*data.Amount)
	if err != nil {
		return "", 0, errors.Wrap(err, "failed to parse amount")
	}

	return data.MerchantID, amount.InexactFloat64(), nil
}
