package trade

import (
	"testing"

	"github.com/bizledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestReturn(t *testing.T) *Return {
	t.Helper()
	ret, err := NewReturn(uuid.New(), "RET-250831-0001", uuid.New(), uuid.New())
	require.NoError(t, err)
	return ret
}

func addTestReturnItem(t *testing.T, ret *Return, restock bool) *ReturnItem {
	t.Helper()
	price, _ := valueobject.NewMoneyUSDFromString("10.00")
	item, err := ret.AddItem(uuid.New(), "Widget", "SKU-001",
		decimal.NewFromInt(2), decimal.NewFromInt(5), price, restock, "damaged box")
	require.NoError(t, err)
	return item
}

func TestNewReturn(t *testing.T) {
	tenantID := uuid.New()
	invoiceID := uuid.New()

	ret, err := NewReturn(tenantID, "RET-250831-0001", invoiceID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, tenantID, ret.TenantID)
	assert.Equal(t, invoiceID, ret.SalesInvoiceID)
	assert.Equal(t, ReturnStatusPending, ret.Status)
	assert.Len(t, ret.GetDomainEvents(), 1)
}

func TestNewReturnValidation(t *testing.T) {
	_, err := NewReturn(uuid.New(), "", uuid.New(), uuid.New())
	assert.Error(t, err)

	_, err = NewReturn(uuid.New(), "RET-250831-0001", uuid.Nil, uuid.New())
	assert.Error(t, err)

	_, err = NewReturn(uuid.New(), "RET-250831-0001", uuid.New(), uuid.Nil)
	assert.Error(t, err)
}

func TestReturnQuantityBoundedBySold(t *testing.T) {
	ret := createTestReturn(t)
	price, _ := valueobject.NewMoneyUSDFromString("10.00")

	// returning 6 of 5 sold units is rejected
	_, err := ret.AddItem(uuid.New(), "Widget", "SKU-001",
		decimal.NewFromInt(6), decimal.NewFromInt(5), price, true, "")
	assert.Error(t, err)

	// returning exactly the sold quantity is allowed
	_, err = ret.AddItem(uuid.New(), "Widget", "SKU-001",
		decimal.NewFromInt(5), decimal.NewFromInt(5), price, true, "")
	assert.NoError(t, err)
}

func TestReturnRefundTotal(t *testing.T) {
	ret := createTestReturn(t)
	addTestReturnItem(t, ret, true)

	assert.Equal(t, "20.00", ret.RefundTotal.StringFixed(2))
	assert.True(t, ret.GetRefundTotalMoney().Equals(valueobject.NewMoneyUSD(decimal.NewFromInt(20))))
}

func TestRestockItems(t *testing.T) {
	ret := createTestReturn(t)
	price, _ := valueobject.NewMoneyUSDFromString("10.00")

	_, err := ret.AddItem(uuid.New(), "Widget", "SKU-001",
		decimal.NewFromInt(1), decimal.NewFromInt(5), price, true, "")
	require.NoError(t, err)
	_, err = ret.AddItem(uuid.New(), "Gadget", "SKU-002",
		decimal.NewFromInt(1), decimal.NewFromInt(5), price, false, "broken")
	require.NoError(t, err)

	restock := ret.RestockItems()
	require.Len(t, restock, 1)
	assert.Equal(t, "SKU-001", restock[0].ProductCode)
}

func TestReturnStatusTransitions(t *testing.T) {
	tests := []struct {
		from    ReturnStatus
		to      ReturnStatus
		allowed bool
	}{
		{ReturnStatusPending, ReturnStatusApproved, true},
		{ReturnStatusPending, ReturnStatusRejected, true},
		{ReturnStatusPending, ReturnStatusRefunded, false},
		{ReturnStatusApproved, ReturnStatusRefunded, true},
		{ReturnStatusApproved, ReturnStatusRejected, false},
		{ReturnStatusRefunded, ReturnStatusApproved, false},
		{ReturnStatusRejected, ReturnStatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestReturnLifecycle(t *testing.T) {
	ret := createTestReturn(t)
	addTestReturnItem(t, ret, true)

	require.NoError(t, ret.Approve())
	assert.True(t, ret.IsApproved())
	assert.NotNil(t, ret.ApprovedAt)

	require.NoError(t, ret.Refund(nil))
	assert.True(t, ret.IsRefunded())
	assert.True(t, ret.IsTerminal())
}

func TestRefundOverrideAmount(t *testing.T) {
	ret := createTestReturn(t)
	addTestReturnItem(t, ret, true) // 2 x 10.00 = 20.00 computed
	require.NoError(t, ret.Approve())

	negative := decimal.NewFromInt(-1)
	assert.Error(t, ret.Refund(&negative))

	over := decimal.NewFromInt(21)
	assert.Error(t, ret.Refund(&over))
	assert.True(t, ret.IsApproved())

	partial := decimal.NewFromInt(12)
	require.NoError(t, ret.Refund(&partial))
	assert.True(t, ret.IsRefunded())
	assert.Equal(t, "12.00", ret.RefundTotal.StringFixed(2))
}

func TestApproveRequiresItems(t *testing.T) {
	ret := createTestReturn(t)
	assert.Error(t, ret.Approve())
}

func TestRejectRequiresReason(t *testing.T) {
	ret := createTestReturn(t)
	addTestReturnItem(t, ret, true)

	assert.Error(t, ret.Reject(""))

	require.NoError(t, ret.Reject("outside return window"))
	assert.True(t, ret.IsRejected())
	assert.Equal(t, "outside return window", ret.RejectReason)

	// terminal
	assert.Error(t, ret.Approve())
	assert.Error(t, ret.Refund(nil))
}
