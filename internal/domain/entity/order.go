package entity

import (
	"strings"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "pending"
	OrderStatusConfirmed    OrderStatus = "confirmed"
	OrderStatusPaymentIssue OrderStatus = "payment-issue"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPaymentIssue, OrderStatusCancelled:
		return true
	}

	return false
}

// IsFinal reports whether no further transition is possible.
func (s OrderStatus) IsFinal() bool {
	return s != OrderStatusPending
}

// transitions lists, per source state, the reachable targets and the roles allowed to take each edge.
var transitions = map[OrderStatus]map[OrderStatus][]Role{
	OrderStatusPending: {
		OrderStatusConfirmed:    {RoleOwner},
		OrderStatusPaymentIssue: {RoleOwner},
		OrderStatusCancelled:    {RoleCustomer, RoleOwner},
	},
}

// CanTransition reports whether actor may move an order from one status to another.
func CanTransition(from, to OrderStatus, actor Role) error {
	if !to.Valid() {
		return ErrInvalidOrderStatus
	}

	allowed, ok := transitions[from][to]
	if !ok {
		return ErrStatusTransitionDenied
	}
	for _, role := range allowed {
		if role == actor {
			return nil
		}
	}

	return ErrStatusTransitionByActor
}

// Customer holds the shipping and contact fields captured at checkout.
type Customer struct {
	CustomerID string `json:"customerId,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
}

// Validate checks that the required contact fields are present.
func (c Customer) Validate() error {
	for _, field := range []string{c.Name, c.Email, c.Phone, c.Address, c.City} {
		if strings.TrimSpace(field) == "" {
			return ErrCustomerIncomplete
		}
	}

	return nil
}

// Order is a submitted checkout.
type Order struct {
	ID            string      `json:"id"`
	Date          time.Time   `json:"date"`
	Customer      Customer    `json:"customer"`
	Items         []CartItem  `json:"items"`
	Total         float64     `json:"total"`
	TransactionID string      `json:"transactionId"`
	Message       string      `json:"message,omitempty"`
	Status        OrderStatus `json:"status"`
}

// NewOrder creates a pending order whose total is computed from items.
func NewOrder(id string, date time.Time, customer Customer, items []CartItem, transactionID, message string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrOrderItemsRequired
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(transactionID) == "" {
		return nil, ErrTransactionIDRequired
	}

	return &Order{
		ID:            id,
		Date:          date,
		Customer:      customer,
		Items:         items,
		Total:         SumItems(items),
		TransactionID: strings.TrimSpace(transactionID),
		Message:       strings.TrimSpace(message),
		Status:        OrderStatusPending,
	}, nil
}

// Transition moves the order to status on behalf of actor.
// A request for the current status is accepted and reports changed=false.
func (o *Order) Transition(status OrderStatus, actor Role) (bool, error) {
	if o.Status == status {
		return false, nil
	}
	if err := CanTransition(o.Status, status, actor); err != nil {
		return false, err
	}
	o.Status = status

	return true, nil
}

// BelongsTo reports whether the order was placed by the given customer.
func (o *Order) BelongsTo(customerID string) bool {
	return customerID != "" && o.Customer.CustomerID == customerID
}

// ItemCount is the number of units in the order.
func (o *Order) ItemCount() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}

	return total
}
