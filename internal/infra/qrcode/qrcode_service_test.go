package qrcode

import (
	"encoding/json"
	"testing"

	"emart/config"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isPNG(b []byte) bool {
	return len(b) > 4 && b[0] == 0x89 && b[1] == 'P' && b[2] == 'N' && b[3] == 'G'
}

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  qrcode.RecoveryLevel
	}{
		{"Low error correction", "L", qrcode.Low},
		{"Medium error correction", "M", qrcode.Medium},
		{"High error correction", "q", qrcode.High},
		{"Highest error correction", "H", qrcode.Highest},
		{"Default error correction", "invalid", qrcode.Medium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newQRCodeService(0, tt.level)
			assert.Equal(t, tt.want, svc.errorCorrectionLevel)
			assert.Equal(t, defaultSize, svc.size)
		})
	}
}

func TestNewQRCodeService_FromConfig(t *testing.T) {
	svc := NewQRCodeService(&config.Config{QRCode: &config.QRCodeConfig{Size: 128, ErrorCorrectionLevel: "H"}})

	png, err := svc.GeneratePaymentQR("9800000000", 0)
	require.NoError(t, err)
	assert.True(t, isPNG(png))

	svc = NewQRCodeService(&config.Config{})
	png, err = svc.GeneratePaymentQR("9800000000", 0)
	require.NoError(t, err)
	assert.True(t, isPNG(png))
}

func TestQRCodeService_GenerateAndParse(t *testing.T) {
	svc := newQRCodeService(256, "M")

	png, err := svc.GeneratePaymentQR("9800000000", 1499.5)
	require.NoError(t, err)
	assert.True(t, isPNG(png))

	payload, err := json.Marshal(PaymentQRData{Type: "esewa", MerchantID: "9800000000", Amount: ptr("1499.50")})
	require.NoError(t, err)

	merchant, amount, err := svc.ParsePaymentQR(string(payload))
	require.NoError(t, err)
	assert.Equal(t, "9800000000", merchant)
	assert.InDelta(t, 1499.5, amount, 1e-9)
}

func TestQRCodeService_GenerateRequiresMerchant(t *testing.T) {
	svc := newQRCodeService(256, "M")

	_, err := svc.GeneratePaymentQR("  ", 10)
	assert.Error(t, err)
}

func TestQRCodeService_ParseInvalid(t *testing.T) {
	svc := newQRCodeService(256, "M")

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "hello"},
		{"wrong type", `{"type":"subscription","esewa_id":"1"}`},
		{"missing merchant", `{"type":"esewa"}`},
		{"bad amount", `{"type":"esewa","esewa_id":"1","amount":"ten"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.ParsePaymentQR(tt.payload)
			assert.Error(t, err)
		})
	}

	merchant, amount, err := svc.ParsePaymentQR(`{"type":"esewa","esewa_id":"1"}`)
	require.NoError(t, err)
	assert.Equal(t, "1", merchant)
	assert.Zero(t, amount)
}

func ptr(s string) *string {
	return &s
}
