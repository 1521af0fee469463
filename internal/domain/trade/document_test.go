package trade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentTypePrefix(t *testing.T) {
	tests := []struct {
		docType DocumentType
		prefix  string
	}{
		{DocumentTypeSalesInvoice, "INV"},
		{DocumentTypePurchaseInvoice, "PUR"},
		{DocumentTypeReturn, "RET"},
		{DocumentTypeTransfer, "TRF"},
	}

	for _, tt := range tests {
		t.Run(string(tt.docType), func(t *testing.T) {
			assert.Equal(t, tt.prefix, tt.docType.Prefix())
			assert.True(t, tt.docType.IsValid())
		})
	}

	assert.False(t, DocumentType("UNKNOWN").IsValid())
	assert.Empty(t, DocumentType("UNKNOWN").Prefix())
}

func TestFormatDocumentNumber(t *testing.T) {
	date := time.Date(2025, 8, 31, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "INV-250831-0042", FormatDocumentNumber(DocumentTypeSalesInvoice, date, 42))
	assert.Equal(t, "TRF-250831-0001", FormatDocumentNumber(DocumentTypeTransfer, date, 1))
	assert.Equal(t, "PUR-250831-9999", FormatDocumentNumber(DocumentTypePurchaseInvoice, date, 9999))
}

func TestParseDocumentNumber(t *testing.T) {
	prefix, date, seq, err := ParseDocumentNumber("RET-250831-0007")
	require.NoError(t, err)

	assert.Equal(t, "RET", prefix)
	assert.Equal(t, 2025, date.Year())
	assert.Equal(t, time.August, date.Month())
	assert.Equal(t, 31, date.Day())
	assert.Equal(t, int64(7), seq)
}

func TestParseDocumentNumberInvalid(t *testing.T) {
	invalid := []string{
		"",
		"INV-250831",
		"INV-20250831-0001",
		"inv-250831-0001",
		"INVX-250831-0001",
		"INV-251345-0001", // impossible date
		"INV-250831-01",
	}

	for _, number := range invalid {
		_, _, _, err := ParseDocumentNumber(number)
		assert.Error(t, err, "expected parse failure for %q", number)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	date := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	number := FormatDocumentNumber(DocumentTypeReturn, date, 123)

	prefix, parsed, seq, err := ParseDocumentNumber(number)
	require.NoError(t, err)
	assert.Equal(t, "RET", prefix)
	assert.Equal(t, date.Format("060102"), parsed.Format("060102"))
	assert.Equal(t, int64(123), seq)
}

func TestPaymentMethodIsValid(t *testing.T) {
	assert.True(t, PaymentMethodCash.IsValid())
	assert.True(t, PaymentMethodCard.IsValid())
	assert.True(t, PaymentMethodTransfer.IsValid())
	assert.True(t, PaymentMethodCredit.IsValid())
	assert.False(t, PaymentMethod("CHECK").IsValid())
}
