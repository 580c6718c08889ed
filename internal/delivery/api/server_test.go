package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"emart/config"
	apimiddleware "emart/internal/delivery/api/middleware"
	"emart/internal/delivery/api/response"
	"emart/internal/delivery/api/router"
	"emart/internal/delivery/api/router/handler"
	"emart/internal/domain/constants"
	"emart/internal/domain/entity"
	"emart/internal/infra/ai"
	"emart/internal/infra/auth"
	"emart/internal/infra/eventbus"
	"emart/internal/infra/mail"
	"emart/internal/infra/persistence/document"
	"emart/internal/infra/persistence/memory"
	"emart/internal/infra/qrcode"
	"emart/internal/infra/upload"
	"emart/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwnerEmail    = "owner@example.com"
	testOwnerPassword = "owner-secret"
	testOwnerPIN      = "2468"
)

// newTestEcho wires the real usecases over an in-memory store.
func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	hasher := auth.NewBcryptHasherWithCost(4)
	passwordHash, err := hasher.Hash(testOwnerPassword)
	require.NoError(t, err)
	pinHash, err := hasher.Hash(testOwnerPIN)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "2MB"
	cfg.SecretKey.Access = "test-access-secret"
	cfg.Auth = &config.AuthConfig{BcryptCost: 4, AccessTokenTTL: time.Hour, ResetCodeTTL: 15 * time.Minute}
	cfg.Owner = &config.OwnerConfig{Email: testOwnerEmail, Name: "Store Owner", PasswordHash: passwordHash, PINHash: pinHash}
	cfg.QRCode = &config.QRCodeConfig{MerchantID: "9800000000"}

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	generator, err := ai.NewTextGenerator(context.Background(), cfg, logger)
	require.NoError(t, err)
	uploader, err := upload.NewImageUploader(cfg, logger)
	require.NoError(t, err)
	bus := eventbus.NewLocalBus(logger, eventbus.DefaultBufferSize)
	t.Cleanup(bus.Close)

	store := document.NewStore(memory.NewStore(), logger)
	products := document.NewProductRepository(store)
	carts := document.NewCartRepository(store)
	orders := document.NewOrderRepository(store)
	categories := document.NewCategoryRepository(store)
	users := document.NewUserRepository(store)
	conversations := document.NewConversationRepository(store)
	contacts := document.NewContactMessageRepository(store)
	settings := document.NewSettingsRepository(store)
	resets := document.NewPasswordResetRepository(store)
	devices := document.NewDeviceRepository(store)

	userUC := impl.NewUserService(impl.UserServiceParams{UserRepo: users, Hasher: hasher, TokenService: tokens, Logger: logger})
	ownerUC := impl.NewOwnerService(impl.OwnerServiceParams{Config: cfg, Hasher: hasher, TokenService: tokens, Logger: logger})
	orderUC := impl.NewOrderService(impl.OrderServiceParams{OrderRepo: orders, CartRepo: carts, ProductRepo: products, EventBus: bus, Logger: logger})
	reviewUC := impl.NewReviewService(impl.ReviewServiceParams{ProductRepo: products, EventBus: bus, Logger: logger})
	catalogUC := impl.NewCatalogService(impl.CatalogServiceParams{
		ProductRepo: products, CategoryRepo: categories, Uploader: uploader, EventBus: bus, Config: cfg, Logger: logger,
	})

	params := router.RouterParams{
		AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{
			UserUC:  userUC,
			OwnerUC: ownerUC,
			PasswordResetUC: impl.NewPasswordResetService(impl.PasswordResetServiceParams{
				UserRepo: users, ResetRepo: resets, Hasher: hasher, Generator: generator,
				Mailer: mail.NewLogMailer(cfg, logger), Config: cfg, Logger: logger,
			}),
			Logger: logger,
		}),
		AccountHandler: handler.NewAccountHandler(handler.AccountHandlerParams{UserUC: userUC, OrderUC: orderUC, Logger: logger}),
		SessionHandler: handler.NewSessionHandler(),
		CatalogHandler: handler.NewCatalogHandler(handler.CatalogHandlerParams{
			CatalogUC: catalogUC, ReviewUC: reviewUC, UserUC: userUC, Logger: logger,
		}),
		CategoryHandler: handler.NewCategoryHandler(handler.CategoryHandlerParams{
			CategoryUC: impl.NewCategoryService(impl.CategoryServiceParams{
				CategoryRepo: categories, ProductRepo: products, EventBus: bus, Logger: logger,
			}),
			Logger: logger,
		}),
		CartHandler: handler.NewCartHandler(handler.CartHandlerParams{
			CartUC: impl.NewCartService(impl.CartServiceParams{CartRepo: carts, ProductRepo: products, EventBus: bus, Logger: logger}),
			Logger: logger,
		}),
		OrderHandler: handler.NewOrderHandler(handler.OrderHandlerParams{OrderUC: orderUC, Logger: logger}),
		ChatHandler: handler.NewChatHandler(handler.ChatHandlerParams{
			ChatUC: impl.NewChatService(impl.ChatServiceParams{
				ConversationRepo: conversations, DeviceRepo: devices, EventBus: bus, Logger: logger,
			}),
			UserUC: userUC,
			Logger: logger,
		}),
		ContactHandler: handler.NewContactHandler(handler.ContactHandlerParams{
			ContactUC: impl.NewContactService(impl.ContactServiceParams{ContactRepo: contacts, EventBus: bus, Logger: logger}),
			Logger:    logger,
		}),
		ContentHandler: handler.NewContentHandler(handler.ContentHandlerParams{
			ContentUC: impl.NewContentService(impl.ContentServiceParams{
				SettingsRepo: settings, Uploader: uploader, QRService: qrcode.NewQRCodeService(cfg),
				EventBus: bus, Config: cfg, Logger: logger,
			}),
			Logger: logger,
		}),
		RecommendationHandler: handler.NewRecommendationHandler(handler.RecommendationHandlerParams{
			RecommendationUC: impl.NewRecommendationService(impl.RecommendationServiceParams{
				ProductRepo: products, Generator: generator, Logger: logger,
			}),
			Logger: logger,
		}),
		DeviceHandler: handler.NewDeviceHandler(handler.DeviceHandlerParams{
			DeviceUC: impl.NewDeviceService(impl.DeviceServiceParams{DeviceRepo: devices, Logger: logger}),
			Logger:   logger,
		}),
		EventHandler:       handler.NewEventHandler(handler.EventHandlerParams{EventBus: bus, Logger: logger}),
		AuthMiddleware:     apimiddleware.NewAuthMiddleware(tokens),
		OwnerPINMiddleware: apimiddleware.NewOwnerPINMiddleware(ownerUC),
	}

	return NewEcho(cfg, logger, params)
}

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorInfo `json:"error"`
	Meta  *response.MetaInfo  `json:"meta"`
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	headers map[string]string
}

func do(t *testing.T, e *echo.Echo, r request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var body bytes.Buffer
	if r.body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(r.body))
	}
	req := httptest.NewRequest(r.method, r.path, &body)
	if r.body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if r.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, env envelope, status int, code string) {
	t.Helper()

	require.Equal(t, status, rec.Code, rec.Body.String())
	require.NotNil(t, env.Error)
	assert.Equal(t, code, env.Error.Code)
	require.NotNil(t, env.Meta)
	assert.NotEmpty(t, env.Meta.RequestID)
}

func registerCustomer(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()

	rec, env := do(t, e, request{method: http.MethodPost, path: "/auth/register", body: map[string]string{
		"name": "Sita", "email": email, "password": "sita-password",
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out handler.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))

	return out.AccessToken
}

func loginOwner(t *testing.T, e *echo.Echo) string {
	t.Helper()

	rec, env := do(t, e, request{method: http.MethodPost, path: "/auth/owner/login", body: map[string]string{
		"email": testOwnerEmail, "password": testOwnerPassword,
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out handler.OwnerAuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))

	return out.AccessToken
}

func productBody(name, category string, price float64, stock, limit int) map[string]any {
	images := make([]map[string]string, entity.ProductImageCount)
	for i := range images {
		images[i] = map[string]string{"url": "https://img.example.com/" + name + ".jpg", "alt": name}
	}

	return map[string]any{
		"name":          name,
		"description":   name + " description",
		"price":         price,
		"stock":         stock,
		"category":      category,
		"images":        images,
		"purchaseLimit": limit,
	}
}

func createProduct(t *testing.T, e *echo.Echo, ownerToken string, body map[string]any) *entity.Product {
	t.Helper()

	rec, env := do(t, e, request{method: http.MethodPost, path: "/api/v1/owner/products", body: body, token: ownerToken})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))

	return &product
}

func TestHealth(t *testing.T) {
	e := newTestEcho(t)

	rec, _ := do(t, e, request{method: http.MethodGet, path: "/health"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestAccountFlow(t *testing.T) {
	e := newTestEcho(t)
	token := registerCustomer(t, e, "sita@example.com")

	rec, env := do(t, e, request{method: http.MethodGet, path: "/api/v1/me", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, string(env.Data), "passwordHash")
	var me handler.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "sita@example.com", me.Email)

	rec, env = do(t, e, request{method: http.MethodPut, path: "/api/v1/me", token: token, body: map[string]string{"name": "Sita Sharma"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Sita Sharma", me.Name)

	rec, env = do(t, e, request{method: http.MethodPost, path: "/auth/login", body: map[string]string{
		"email": "SITA@example.com", "password": "sita-password",
	}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, e, request{method: http.MethodPost, path: "/auth/login", body: map[string]string{
		"email": "sita@example.com", "password": "wrong-password",
	}})
	requireErrorCode(t, rec, env, http.StatusUnauthorized, "INVALID_CREDENTIALS")

	rec, env = do(t, e, request{method: http.MethodGet, path: "/api/v1/session", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	var session handler.SessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.True(t, session.Authenticated)
	assert.Equal(t, []string{"customer"}, session.Roles)
}

func TestAuthErrors(t *testing.T) {
	e := newTestEcho(t)
	customerToken := registerCustomer(t, e, "ram@example.com")

	tests := []struct {
		name   string
		req    request
		status int
		code   string
	}{
		{
			name:   "missing token",
			req:    request{method: http.MethodGet, path: "/api/v1/me"},
			status: http.StatusUnauthorized,
			code:   "UNAUTHORIZED",
		},
		{
			name:   "garbage token",
			req:    request{method: http.MethodGet, path: "/api/v1/products", token: "not-a-jwt"},
			status: http.StatusUnauthorized,
			code:   "UNAUTHORIZED",
		},
		{
			name:   "customer on owner route",
			req:    request{method: http.MethodGet, path: "/api/v1/owner/orders", token: customerToken},
			status: http.StatusForbidden,
			code:   "FORBIDDEN",
		},
		{
			name: "invalid register body",
			req: request{method: http.MethodPost, path: "/auth/register", body: map[string]string{
				"name": "X", "email": "not-an-email", "password": "long-enough",
			}},
			status: http.StatusBadRequest,
			code:   "VALIDATION_FAILED",
		},
		{
			name: "duplicate email",
			req: request{method: http.MethodPost, path: "/auth/register", body: map[string]string{
				"name": "Ram", "email": "RAM@example.com", "password": "long-enough",
			}},
			status: http.StatusConflict,
			code:   "USER_ALREADY_EXISTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, e, tt.req)
			requireErrorCode(t, rec, env, tt.status, tt.code)
		})
	}
}

func TestValidationErrorDetails(t *testing.T) {
	e := newTestEcho(t)

	rec, env := do(t, e, request{method: http.MethodPost, path: "/api/v1/contact", body: map[string]string{"name": "Hari"}})

	requireErrorCode(t, rec, env, http.StatusBadRequest, "VALIDATION_FAILED")
	details, ok := env.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "required", details["email"])
	assert.Equal(t, "required", details["message"])
}

func TestGuestCheckoutAndOwnerOrderFlow(t *testing.T) {
	e := newTestEcho(t)
	ownerToken := loginOwner(t, e)
	product := createProduct(t, e, ownerToken, productBody("kurta", "Clothing", 1200, 5, 2))

	rec, env := do(t, e, request{method: http.MethodGet, path: "/api/v1/products?category=clothing&sort=price-asc"})
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, product.ID, listed[0].ID)

	guest := map[string]string{constants.HeaderCartID: "browser-1"}
	line := map[string]string{"productId": product.ID, "size": "M"}

	rec, env = do(t, e, request{method: http.MethodPost, path: "/api/v1/cart/items", body: line})
	requireErrorCode(t, rec, env, http.StatusBadRequest, "VALIDATION_FAILED")

	for range 2 {
		rec, _ = do(t, e, request{method: http.MethodPost, path: "/api/v1/cart/items", body: line, headers: guest})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec, env = do(t, e, request{method: http.MethodPost, path: "/api/v1/cart/items", body: line, headers: guest})
	requireErrorCode(t, rec, env, http.StatusConflict, "CART_LIMIT_REACHED")

	rec, env = do(t, e, request{method: http.MethodGet, path: "/api/v1/cart", headers: guest})
	require.Equal(t, http.StatusOK, rec.Code)
	var cart struct {
		TotalItems int     `json:"totalItems"`
		TotalPrice float64 `json:"totalPrice"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, 2, cart.TotalItems)
	assert.InDelta(t, 2400, cart.TotalPrice, 0.001)

	rec, env = do(t, e, request{method: http.MethodPost, path: "/api/v1/checkout", headers: guest, body: map[string]string{
		"name": "Guest", "email": "guest@example.com", "phone": "9800000001",
		"address": "Thamel", "city": "Kathmandu", "transactionId": "ESW-1",
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order entity.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.InDelta(t, 2400, order.Total, 0.001)

	rec, _ = do(t, e, request{method: http.MethodGet, path: "/api/v1/orders/" + order.ID})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, e, request{method: http.MethodGet, path: "/api/v1/products/" + product.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	var after entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &after))
	assert.Equal(t, 3, after.Stock)

	statusPath := "/api/v1/owner/orders/" + order.ID + "/status"
	rec, env = do(t, e, request{method: http.MethodPut, path: statusPath, token: ownerToken, body: map[string]string{"status": "confirmed"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, entity.OrderStatusConfirmed, order.Status)

	rec, env = do(t, e, request{method: http.MethodPut, path: statusPath, token: ownerToken, body: map[string]string{"status": "cancelled"}})
	requireErrorCode(t, rec, env, http.StatusConflict, "INVALID_STATUS_TRANSITION")

	orderPath := "/api/v1/owner/orders/" + order.ID
	rec, env = do(t, e, request{method: http.MethodDelete, path: orderPath, token: ownerToken})
	requireErrorCode(t, rec, env, http.StatusForbidden, "INVALID_PIN")

	rec, env = do(t, e, request{method: http.MethodDelete, path: orderPath, token: ownerToken, headers: map[string]string{constants.HeaderOwnerPIN: "0000"}})
	requireErrorCode(t, rec, env, http.StatusForbidden, "INVALID_PIN")

	rec, _ = do(t, e, request{method: http.MethodDelete, path: orderPath, token: ownerToken, headers: map[string]string{constants.HeaderOwnerPIN: testOwnerPIN}})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = do(t, e, request{method: http.MethodGet, path: "/api/v1/orders/" + order.ID})
	requireErrorCode(t, rec, env, http.StatusNotFound, "ORDER_NOT_FOUND")
}

func TestCustomerOrderVisibility(t *testing.T) {
	e := newTestEcho(t)
	ownerToken := loginOwner(t, e)
	product := createProduct(t, e, ownerToken, productBody("dhaka-topi", "Accessories", 500, 10, 10))
	buyer := registerCustomer(t, e, "buyer@example.com")
	other := registerCustomer(t, e, "other@example.com")

	rec, _ := do(t, e, request{method: http.MethodPost, path: "/api/v1/cart/items", token: buyer, body: map[string]string{"productId": product.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env := do(t, e, request{method: http.MethodPost, path: "/api/v1/checkout", token: buyer, body: map[string]string{
		"name": "Buyer", "email": "buyer@example.com", "phone": "9800000002",
		"address": "Patan", "city": "Lalitpur", "transactionId": "ESW-2",
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order entity.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.NotEmpty(t, order.Customer.CustomerID)

	rec, env = do(t, e, request{method: http.MethodGet, path: "/api/v1/orders/" + order.ID})
	requireErrorCode(t, rec, env, http.StatusForbidden, "ORDER_OWNERSHIP_VIOLATION")

	rec, env = do(t, e, request{method: http.MethodPost, path: "/api/v1/orders/" + order.ID + "/cancel", token: other})
	requireErrorCode(t, rec, env, http.StatusForbidden, "ORDER_OWNERSHIP_VIOLATION")

	rec, env = do(t, e, request{method: http.MethodGet, path: "/api/v1/me/orders", token: buyer})
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []entity.Order
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)

	rec, env = do(t, e, request{method: http.MethodPost, path: "/api/v1/orders/" + order.ID + "/cancel", token: buyer})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, entity.OrderStatusCancelled, order.Status)

	rec, _ = do(t, e, request{method: http.MethodGet, path: "/api/v1/orders/" + order.ID, token: ownerToken})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReviewsThroughAPI(t *testing.T) {
	e := newTestEcho(t)
	ownerToken := loginOwner(t, e)
	product := createProduct(t, e, ownerToken, productBody("shawl", "Clothing", 3000, 4, 10))
	customer := registerCustomer(t, e, "reviewer@example.com")
	reviewPath := "/api/v1/products/" + product.ID + "/reviews"

	rec, env := do(t, e, request{method: http.MethodPost, path: reviewPath, token: customer, body: map[string]any{"rating": 6}})
	requireErrorCode(t, rec, env, http.StatusBadRequest, "VALIDATION_FAILED")

	rec, env = do(t, e, request{method: http.MethodPost, path: reviewPath, token: customer, body: map[string]any{"rating": 4, "comment": "Warm"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reviewed entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &reviewed))
	assert.Equal(t, 1, reviewed.ReviewCount())
	assert.InDelta(t, 4.0, reviewed.Rating(), 0.001)
	review := reviewed.DetailedReviews()[0]
	assert.Equal(t, "Sita", review.Author)

	rec, env = do(t, e, request{method: http.MethodDelete, path: "/api/v1/owner/products/" + product.ID + "/reviews/" + review.ID, token: ownerToken})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &reviewed))
	assert.Equal(t, 0, reviewed.ReviewCount())
	assert.Zero(t, reviewed.Rating())
}

func TestContentEndpoints(t *testing.T) {
	e := newTestEcho(t)
	ownerToken := loginOwner(t, e)

	rec, env := do(t, e, request{method: http.MethodGet, path: "/api/v1/payment/qr"})
	requireErrorCode(t, rec, env, http.StatusNotFound, "PAYMENT_QR_NOT_CONFIGURED")

	rec, _ = do(t, e, request{method: http.MethodGet, path: "/api/v1/payment/qr.png?amount=250"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec, env = do(t, e, request{method: http.MethodGet, path: "/api/v1/payment/qr.png?amount=abc"})
	requireErrorCode(t, rec, env, http.StatusBadRequest, "VALIDATION_FAILED")

	rec, _ = do(t, e, request{method: http.MethodPut, path: "/api/v1/owner/theme", token: ownerToken, body: map[string]string{
		"primary": "#ff0000", "background": "#ffffff", "accent": "222 47% 11%",
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = do(t, e, request{method: http.MethodGet, path: "/api/v1/theme.css"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), "--primary: 0 100% 50%;")

	rec, _ = do(t, e, request{method: http.MethodPut, path: "/api/v1/owner/pages/About", token: ownerToken, body: map[string]string{
		"title": "About us", "content": "Since 2010",
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = do(t, e, request{method: http.MethodGet, path: "/api/v1/pages/about"})
	require.Equal(t, http.StatusOK, rec.Code)
	var page entity.PageContent
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, "About us", page.Title)
}

func TestRecommendationsFallBackWithoutModel(t *testing.T) {
	e := newTestEcho(t)
	ownerToken := loginOwner(t, e)
	viewed := createProduct(t, e, ownerToken, productBody("sari", "Clothing", 5000, 3, 10))
	sibling := createProduct(t, e, ownerToken, productBody("lehenga", "Clothing", 8000, 3, 10))
	createProduct(t, e, ownerToken, productBody("singing-bowl", "Handicraft", 2500, 3, 10))

	rec, env := do(t, e, request{method: http.MethodPost, path: "/api/v1/recommendations", body: map[string]any{
		"viewingHistory": []string{viewed.ID},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		RecommendedProducts []entity.Product `json:"recommendedProducts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.RecommendedProducts, 1)
	assert.Equal(t, sibling.ID, out.RecommendedProducts[0].ID)
}

func TestEventStream(t *testing.T) {
	e := newTestEcho(t)
	ownerToken := loginOwner(t, e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	rec, env := do(t, e, request{method: http.MethodGet, path: "/api/v1/events?topics=bogus"})
	requireErrorCode(t, rec, env, http.StatusBadRequest, "VALIDATION_FAILED")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events?topics=categories-updated", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get(echo.HeaderContentType))

	rec, _ = do(t, e, request{method: http.MethodPost, path: "/api/v1/owner/categories", token: ownerToken, body: map[string]string{"name": "Jewellery"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	scanner := bufio.NewScanner(resp.Body)
	require.True(t, scanner.Scan())
	assert.Equal(t, "event: categories-updated", scanner.Text())
	require.True(t, scanner.Scan())
	assert.Equal(t, `data: {"topic":"categories-updated"}`, scanner.Text())
}

func TestEventStream_PrefillReachesOnlyItsCustomer(t *testing.T) {
	e := newTestEcho(t)
	ownerToken := loginOwner(t, e)
	customerToken := registerCustomer(t, e, "sita@example.com")
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	openStream := func(token string) *bufio.Scanner {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events?topics=prefill-chat-message,categories-updated", nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		require.Equal(t, http.StatusOK, resp.StatusCode)

		return bufio.NewScanner(resp.Body)
	}
	guest := openStream("")
	own := openStream(customerToken)

	rec, env := do(t, e, request{method: http.MethodPost, path: "/api/v1/chat/prefill", body: map[string]string{"message": "hi"}})
	requireErrorCode(t, rec, env, http.StatusUnauthorized, "UNAUTHORIZED")

	rec, _ = do(t, e, request{method: http.MethodPost, path: "/api/v1/chat/prefill", token: customerToken, body: map[string]string{"message": "About order 17"}})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	rec, _ = do(t, e, request{method: http.MethodPost, path: "/api/v1/owner/categories", token: ownerToken, body: map[string]string{"name": "Jewellery"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.True(t, own.Scan())
	assert.Equal(t, "event: prefill-chat-message", own.Text())
	require.True(t, own.Scan())
	assert.Contains(t, own.Text(), `"prefill":{"message":"About order 17"}`)

	require.True(t, guest.Scan())
	assert.Equal(t, "event: categories-updated", guest.Text())
	require.True(t, guest.Scan())
	assert.Equal(t, `data: {"topic":"categories-updated"}`, guest.Text())
}
