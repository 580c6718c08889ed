package impl

import (
	"context"
	"testing"
	"time"

	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/domain/repository"
	"emart/internal/domain/service"
	"emart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderServiceFixtures struct {
	service usecase.OrderUsecase
	carts   usecase.CartUsecase
	repos   *testRepos
	events  *eventRecorder
}

func createTestOrderService(t *testing.T, products ...*entity.Product) orderServiceFixtures {
	t.Helper()

	repos := newTestRepos(t)
	for _, p := range products {
		require.NoError(t, repos.products.CreateProduct(context.Background(), p))
	}
	events := newEventRecorder(t)

	svc := NewOrderService(OrderServiceParams{
		OrderRepo:   repos.orders,
		CartRepo:    repos.carts,
		ProductRepo: repos.products,
		EventBus:    events.bus,
		Logger:      newDiscardLogger(),
	})
	svc.(*orderService).now = fixedClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	carts := NewCartService(CartServiceParams{
		CartRepo:    repos.carts,
		ProductRepo: repos.products,
		Logger:      newDiscardLogger(),
	})

	return orderServiceFixtures{service: svc, carts: carts, repos: repos, events: events}
}

func testCustomer(customerID string) entity.Customer {
	return entity.Customer{
		CustomerID: customerID,
		Name:       "Sita Sharma",
		Email:      "sita@example.com",
		Phone:      "9800000001",
		Address:    "Thamel",
		City:       "Kathmandu",
	}
}

func (fx orderServiceFixtures) placeOrder(t *testing.T, customerID string) *entity.Order {
	t.Helper()
	ctx := context.Background()

	_, err := fx.carts.AddItem(ctx, "cart-"+customerID, "p", "", "")
	require.NoError(t, err)

	order, err := fx.service.Checkout(ctx, usecase.CheckoutInput{
		CartID:        "cart-" + customerID,
		Customer:      testCustomer(customerID),
		TransactionID: "TX-1",
	})
	require.NoError(t, err)

	return order
}

func TestOrderService_Checkout(t *testing.T) {
	fx := createTestOrderService(t,
		sampleProduct("p", "Clothing", 100, 3, 10),
		sampleProduct("q", "Clothing", 40, 1, 10),
	)
	ctx := context.Background()

	for _, id := range []string{"p", "p", "q"} {
		_, err := fx.carts.AddItem(ctx, "cart", id, "", "")
		require.NoError(t, err)
	}

	order, err := fx.service.Checkout(ctx, usecase.CheckoutInput{
		CartID:        "cart",
		Customer:      testCustomer("u1"),
		TransactionID: " ESW-123 ",
		Message:       "Leave at the door",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.InDelta(t, 240.0, order.Total, 1e-9)
	assert.Equal(t, "ESW-123", order.TransactionID)
	assert.Equal(t, "1772359200000", order.ID)

	p, err := fx.repos.products.FindProductByID(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)
	q, err := fx.repos.products.FindProductByID(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, 0, q.Stock)

	cart, err := fx.carts.GetCart(ctx, "cart")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	stored, err := fx.service.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Total, stored.Total)

	assert.Equal(t, []service.Topic{
		service.TopicOrdersUpdated, service.TopicProductUpdated, service.TopicCartUpdated,
	}, fx.events.topics())
}

func TestOrderService_Checkout_RejectsShortStock(t *testing.T) {
	fx := createTestOrderService(t, sampleProduct("p", "Clothing", 10, 5, 10))
	ctx := context.Background()

	_, err := fx.carts.AddItem(ctx, "cart", "p", "", "")
	require.NoError(t, err)
	_, err = fx.carts.UpdateQuantity(ctx, "cart", entity.CartKey{ProductID: "p"}, 4)
	require.NoError(t, err)

	// Another shopper bought most of the stock after this cart was filled.
	_, err = fx.repos.products.UpdateProduct(ctx, "p", func(p *entity.Product) error {
		p.Stock = 2

		return nil
	})
	require.NoError(t, err)

	_, err = fx.service.Checkout(ctx, usecase.CheckoutInput{
		CartID:        "cart",
		Customer:      testCustomer(""),
		TransactionID: "TX",
	})
	requireAppError(t, err, "OUT_OF_STOCK")

	p, err := fx.repos.products.FindProductByID(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)

	cart, err := fx.carts.GetCart(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, 4, cart.TotalItems)

	orders, err := fx.service.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_Checkout_ProductRemovedFromCatalog(t *testing.T) {
	fx := createTestOrderService(t, sampleProduct("p", "Clothing", 10, 5, 10))
	ctx := context.Background()

	_, err := fx.carts.AddItem(ctx, "cart", "p", "", "")
	require.NoError(t, err)
	require.NoError(t, fx.repos.products.DeleteProduct(ctx, "p"))

	_, err = fx.service.Checkout(ctx, usecase.CheckoutInput{CartID: "cart", Customer: testCustomer(""), TransactionID: "TX"})
	requireAppError(t, err, "PRODUCT_NOT_FOUND")
}

func TestOrderService_Checkout_ReleasesStockWhenOrderNotSaved(t *testing.T) {
	fx := createTestOrderService(t, sampleProduct("p", "Clothing", 10, 5, 10))
	ctx := context.Background()

	_, err := fx.carts.AddItem(ctx, "cart", "p", "", "")
	require.NoError(t, err)

	fx.repos.kv.failKey.Store(constants.KeyOrders)
	_, err = fx.service.Checkout(ctx, usecase.CheckoutInput{CartID: "cart", Customer: testCustomer(""), TransactionID: "TX"})
	requireAppError(t, err, "DATABASE_EXECUTE_FAILED")
	fx.repos.kv.failKey.Store("")

	p, err := fx.repos.products.FindProductByID(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	cart, err := fx.carts.GetCart(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.TotalItems)
}

func TestOrderService_Checkout_CartWriteFailureKeepsOrder(t *testing.T) {
	fx := createTestOrderService(t, sampleProduct("p", "Clothing", 10, 5, 10))
	ctx := context.Background()

	_, err := fx.carts.AddItem(ctx, "cart", "p", "", "")
	require.NoError(t, err)

	fx.repos.kv.failKey.Store(constants.KeyCartPrefix + "cart")
	order, err := fx.service.Checkout(ctx, usecase.CheckoutInput{CartID: "cart", Customer: testCustomer(""), TransactionID: "TX"})
	require.NoError(t, err)
	fx.repos.kv.failKey.Store("")

	stored, err := fx.service.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ItemCount())

	p, err := fx.repos.products.FindProductByID(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)
}

// stallingProducts runs hook inside the stock reservation, while checkout holds the cart.
type stallingProducts struct {
	repository.ProductRepository
	hook func()
}

func (r *stallingProducts) UpdateProducts(ctx context.Context, fn func([]*entity.Product) ([]*entity.Product, error)) error {
	if r.hook != nil {
		r.hook()
	}

	return r.ProductRepository.UpdateProducts(ctx, fn)
}

func TestOrderService_Checkout_KeepsItemAddedDuringCheckout(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	require.NoError(t, repos.products.CreateProduct(ctx, sampleProduct("p", "Clothing", 10, 5, 10)))
	require.NoError(t, repos.products.CreateProduct(ctx, sampleProduct("q", "Clothing", 20, 5, 10)))

	carts := NewCartService(CartServiceParams{
		CartRepo:    repos.carts,
		ProductRepo: repos.products,
		Logger:      newDiscardLogger(),
	})
	_, err := carts.AddItem(ctx, "cart", "p", "", "")
	require.NoError(t, err)

	added := make(chan error, 1)
	products := &stallingProducts{ProductRepository: repos.products}
	products.hook = func() {
		products.hook = nil
		go func() {
			_, err := carts.AddItem(ctx, "cart", "q", "", "")
			added <- err
		}()
		// The add has to wait for the cart, so give it time to either block or slip through.
		select {
		case err := <-added:
			added <- err
		case <-time.After(50 * time.Millisecond):
		}
	}

	svc := NewOrderService(OrderServiceParams{
		OrderRepo:   repos.orders,
		CartRepo:    repos.carts,
		ProductRepo: products,
		Logger:      newDiscardLogger(),
	})

	order, err := svc.Checkout(ctx, usecase.CheckoutInput{CartID: "cart", Customer: testCustomer(""), TransactionID: "TX"})
	require.NoError(t, err)
	require.NoError(t, <-added)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "p", order.Items[0].Product.ID)

	cart, err := carts.GetCart(ctx, "cart")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "q", cart.Items[0].Product.ID)
}

func TestOrderService_Checkout_Validation(t *testing.T) {
	fx := createTestOrderService(t, sampleProduct("p", "Clothing", 10, 5, 10))
	ctx := context.Background()

	_, err := fx.service.Checkout(ctx, usecase.CheckoutInput{
		CartID:        "empty",
		Customer:      testCustomer(""),
		TransactionID: "TX",
	})
	requireAppError(t, err, "CART_EMPTY")

	_, err = fx.carts.AddItem(ctx, "cart", "p", "", "")
	require.NoError(t, err)

	incomplete := testCustomer("")
	incomplete.City = ""
	_, err = fx.service.Checkout(ctx, usecase.CheckoutInput{CartID: "cart", Customer: incomplete, TransactionID: "TX"})
	requireAppError(t, err, "VALIDATION_FAILED")

	_, err = fx.service.Checkout(ctx, usecase.CheckoutInput{CartID: "cart", Customer: testCustomer(""), TransactionID: "  "})
	requireAppError(t, err, "VALIDATION_FAILED")

	cart, err := fx.carts.GetCart(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.TotalItems)

	orders, err := fx.service.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_Checkout_OrderWriteFailure(t *testing.T) {
	fx := createTestOrderService(t, sampleProduct("p", "Clothing", 10, 5, 10))
	ctx := context.Background()

	_, err := fx.carts.AddItem(ctx, "cart", "p", "", "")
	require.NoError(t, err)

	fx.repos.kv.failWrites.Store(true)
	_, err = fx.service.Checkout(ctx, usecase.CheckoutInput{CartID: "cart", Customer: testCustomer(""), TransactionID: "TX"})
	requireAppError(t, err, "DATABASE_EXECUTE_FAILED")
	fx.repos.kv.failWrites.Store(false)

	p, err := fx.repos.products.FindProductByID(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
}

func TestOrderService_StatusMachine(t *testing.T) {
	fx := createTestOrderService(t, sampleProduct("p", "Clothing", 10, 50, 10))
	ctx := context.Background()
	order := fx.placeOrder(t, "u1")

	confirmed, err := fx.service.UpdateStatus(ctx, order.ID, entity.OrderStatusConfirmed, entity.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, confirmed.Status)

	_, err = fx.service.UpdateStatus(ctx, order.ID, entity.OrderStatusPaymentIssue, entity.RoleOwner)
	requireAppError(t, err, "INVALID_STATUS_TRANSITION")

	same, err := fx.service.UpdateStatus(ctx, order.ID, entity.OrderStatusConfirmed, entity.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, same.Status)

	_, err = fx.service.UpdateStatus(ctx, order.ID, entity.OrderStatus("shipped"), entity.RoleOwner)
	requireAppError(t, err, "INVALID_ORDER_STATUS")

	_, err = fx.service.UpdateStatus(ctx, "nope", entity.OrderStatusConfirmed, entity.RoleOwner)
	requireAppError(t, err, "ORDER_NOT_FOUND")

	stored, err := fx.service.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, stored.Status)
}

func TestOrderService_CustomerCannotConfirm(t *testing.T) {
	fx := createTestOrderService(t, sampleProduct("p", "Clothing", 10, 50, 10))
	order := fx.placeOrder(t, "u1")

	_, err := fx.service.UpdateStatus(context.Background(), order.ID, entity.OrderStatusConfirmed, entity.RoleCustomer)
	requireAppError(t, err, "FORBIDDEN")
}

func TestOrderService_CancelOrder(t *testing.T) {
	fx := createTestOrderService(t, sampleProduct("p", "Clothing", 10, 50, 10))
	ctx := context.Background()
	order := fx.placeOrder(t, "u1")

	_, err := fx.service.CancelOrder(ctx, order.ID, "u2")
	requireAppError(t, err, "ORDER_OWNERSHIP_VIOLATION")

	cancelled, err := fx.service.CancelOrder(ctx, order.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)

	_, err = fx.service.UpdateStatus(ctx, order.ID, entity.OrderStatusConfirmed, entity.RoleOwner)
	requireAppError(t, err, "INVALID_STATUS_TRANSITION")

	mine, err := fx.service.ListCustomerOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	theirs, err := fx.service.ListCustomerOrders(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	fx := createTestOrderService(t, sampleProduct("p", "Clothing", 10, 50, 10))
	ctx := context.Background()
	order := fx.placeOrder(t, "u1")

	_, err := fx.service.UpdateStatus(ctx, order.ID, entity.OrderStatusConfirmed, entity.RoleOwner)
	require.NoError(t, err)

	require.NoError(t, fx.service.DeleteOrder(ctx, order.ID))
	requireAppError(t, fx.service.DeleteOrder(ctx, order.ID), "ORDER_NOT_FOUND")

	_, err = fx.service.GetOrder(ctx, order.ID)
	requireAppError(t, err, "ORDER_NOT_FOUND")
}

func TestTimestampIDs_Monotonic(t *testing.T) {
	ids := &timestampIDs{}
	at := time.UnixMilli(1000)

	assert.Equal(t, "1000", ids.next(at))
	assert.Equal(t, "1001", ids.next(at))
	assert.Equal(t, "1002", ids.next(at.Add(-time.Second)))
	assert.Equal(t, "5000", ids.next(time.UnixMilli(5000)))
}
