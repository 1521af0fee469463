package trade

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentType identifies one of the four ledger document kinds
type DocumentType string

const (
	DocumentTypeSalesInvoice    DocumentType = "SALES_INVOICE"
	DocumentTypePurchaseInvoice DocumentType = "PURCHASE_INVOICE"
	DocumentTypeReturn          DocumentType = "RETURN"
	DocumentTypeTransfer        DocumentType = "TRANSFER"
)

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeSalesInvoice, DocumentTypePurchaseInvoice, DocumentTypeReturn, DocumentTypeTransfer:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// Prefix returns the document number prefix for this type
func (t DocumentType) Prefix() string {
	switch t {
	case DocumentTypeSalesInvoice:
		return "INV"
	case DocumentTypePurchaseInvoice:
		return "PUR"
	case DocumentTypeReturn:
		return "RET"
	case DocumentTypeTransfer:
		return "TRF"
	}
	return ""
}

var documentNumberPattern = regexp.MustCompile(`^([A-Z]{3})-(\d{6})-(\d{4})$`)

// FormatDocumentNumber builds a document number in PREFIX-YYMMDD-NNNN form
func FormatDocumentNumber(docType DocumentType, date time.Time, sequence int64) string {
	return fmt.Sprintf("%s-%s-%04d", docType.Prefix(), date.Format("060102"), sequence)
}

// ParseDocumentNumber splits a document number into its prefix, date, and sequence.
// Returns an error if the number does not match the PREFIX-YYMMDD-NNNN format.
func ParseDocumentNumber(number string) (prefix string, date time.Time, sequence int64, err error) {
	matches := documentNumberPattern.FindStringSubmatch(number)
	if matches == nil {
		return "", time.Time{}, 0, shared.NewDomainError("INVALID_NUMBER", "Document number must match PREFIX-YYMMDD-NNNN")
	}

	date, parseErr := time.Parse("060102", matches[2])
	if parseErr != nil {
		return "", time.Time{}, 0, shared.NewDomainError("INVALID_NUMBER", "Document number contains an invalid date")
	}

	sequence, _ = strconv.ParseInt(matches[3], 10, 64)
	return matches[1], date, sequence, nil
}

// NumberAllocator hands out gap-free, per-tenant, per-type, per-day document
// numbers. Allocation must be atomic: two concurrent calls for the same
// (tenant, type, day) never return the same number. Numbers allocated inside
// a transaction that rolls back are lost; a gap in the sequence is acceptable,
// a duplicate is not.
type NumberAllocator interface {
	NextNumber(ctx context.Context, tenantID uuid.UUID, docType DocumentType, date time.Time) (string, error)
}

// PaymentMethod records how a sales invoice was settled
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCredit   PaymentMethod = "ON_CREDIT"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCredit:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}
