package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()

	items := []CartItem{
		{Product: ProductSnapshot{ID: "p1", Price: 100}, Quantity: 2},
		{Product: ProductSnapshot{ID: "p2", Price: 49.5}, Quantity: 1},
	}
	customer := Customer{CustomerID: "c1", Name: "Ram", Email: "ram@example.com", Phone: "98", Address: "Thamel", City: "Kathmandu"}

	order, err := NewOrder("1700000000000", time.Now(), customer, items, " TX-1 ", "")
	require.NoError(t, err)

	return order
}

func TestNewOrder(t *testing.T) {
	order := newTestOrder(t)

	assert.Equal(t, OrderStatusPending, order.Status)
	assert.InDelta(t, 249.5, order.Total, 1e-9)
	assert.Equal(t, "TX-1", order.TransactionID)
	assert.Equal(t, 3, order.ItemCount())
	assert.True(t, order.BelongsTo("c1"))
	assert.False(t, order.BelongsTo(""))
}

func TestNewOrder_Validation(t *testing.T) {
	customer := Customer{Name: "Ram", Email: "e", Phone: "p", Address: "a", City: "c"}
	items := []CartItem{{Product: ProductSnapshot{ID: "p1"}, Quantity: 1}}

	_, err := NewOrder("1", time.Now(), customer, nil, "tx", "")
	assert.ErrorIs(t, err, ErrOrderItemsRequired)

	_, err = NewOrder("1", time.Now(), Customer{Name: "Ram"}, items, "tx", "")
	assert.ErrorIs(t, err, ErrCustomerIncomplete)

	_, err = NewOrder("1", time.Now(), customer, items, "  ", "")
	assert.ErrorIs(t, err, ErrTransactionIDRequired)
}

func TestOrder_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		from  OrderStatus
		to    OrderStatus
		actor Role
		want  error
	}{
		{name: "owner confirms", from: OrderStatusPending, to: OrderStatusConfirmed, actor: RoleOwner},
		{name: "owner flags payment", from: OrderStatusPending, to: OrderStatusPaymentIssue, actor: RoleOwner},
		{name: "customer cancels", from: OrderStatusPending, to: OrderStatusCancelled, actor: RoleCustomer},
		{name: "owner cancels", from: OrderStatusPending, to: OrderStatusCancelled, actor: RoleOwner},
		{name: "customer cannot confirm", from: OrderStatusPending, to: OrderStatusConfirmed, actor: RoleCustomer, want: ErrStatusTransitionByActor},
		{name: "confirmed to payment issue", from: OrderStatusConfirmed, to: OrderStatusPaymentIssue, actor: RoleOwner, want: ErrStatusTransitionDenied},
		{name: "confirmed back to pending", from: OrderStatusConfirmed, to: OrderStatusPending, actor: RoleOwner, want: ErrStatusTransitionDenied},
		{name: "payment issue back to pending", from: OrderStatusPaymentIssue, to: OrderStatusPending, actor: RoleOwner, want: ErrStatusTransitionDenied},
		{name: "cancelled back to pending", from: OrderStatusCancelled, to: OrderStatusPending, actor: RoleOwner, want: ErrStatusTransitionDenied},
		{name: "cancel after confirm", from: OrderStatusConfirmed, to: OrderStatusCancelled, actor: RoleCustomer, want: ErrStatusTransitionDenied},
		{name: "unknown status", from: OrderStatusPending, to: OrderStatus("shipped"), actor: RoleOwner, want: ErrInvalidOrderStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Status: tt.from}
			changed, err := order.Transition(tt.to, tt.actor)

			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.False(t, changed)
				assert.Equal(t, tt.from, order.Status)

				return
			}
			require.NoError(t, err)
			assert.True(t, changed)
			assert.Equal(t, tt.to, order.Status)
		})
	}
}

func TestOrder_SameStatusIsNoop(t *testing.T) {
	order := &Order{Status: OrderStatusConfirmed}

	changed, err := order.Transition(OrderStatusConfirmed, RoleOwner)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestOrder_PlaceAcceptThenRejectPayment(t *testing.T) {
	order := newTestOrder(t)

	_, err := order.Transition(OrderStatusConfirmed, RoleOwner)
	require.NoError(t, err)

	_, err = order.Transition(OrderStatusPaymentIssue, RoleOwner)
	assert.ErrorIs(t, err, ErrStatusTransitionDenied)
	assert.Equal(t, OrderStatusConfirmed, order.Status)
}
