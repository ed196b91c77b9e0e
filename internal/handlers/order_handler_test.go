package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/handlers"
	"github.com/peanutradio/shopmall-api/internal/httpx"
	"github.com/peanutradio/shopmall-api/internal/middleware"
	"github.com/peanutradio/shopmall-api/internal/port"
	"github.com/peanutradio/shopmall-api/internal/repository/memory"
	"github.com/peanutradio/shopmall-api/internal/service"
)

var testJWTSecret = []byte("handler-test-secret")

type stubVerifier struct {
	record port.PaymentRecord
}

func (v stubVerifier) Verify(_ context.Context, _ string, expectedAmount int64) (port.PaymentRecord, error) {
	if v.record.Status != "paid" {
		return v.record, fmt.Errorf("%w: payment status is %q, not paid", domain.ErrPaymentVerification, v.record.Status)
	}
	if v.record.Amount != expectedAmount {
		return v.record, fmt.Errorf("%w: amount mismatch", domain.ErrPaymentVerification)
	}
	return v.record, nil
}

type testApp struct {
	app *fiber.App

	users    *memory.UserRepo
	products *memory.ProductRepo
	carts    *memory.CartRepo
	orders   *memory.OrderRepo

	userService *service.UserService
}

// newTestApp wires the full request path over in-memory storage: routing,
// auth middleware, handlers, services.
func newTestApp(verifier port.PaymentVerifier) *testApp {
	ta := &testApp{
		users:    memory.NewUserRepo(),
		products: memory.NewProductRepo(),
		carts:    memory.NewCartRepo(),
		orders:   memory.NewOrderRepo(),
	}

	ta.userService = service.NewUserService(ta.users, testJWTSecret)
	cartService := service.NewCartService(ta.carts, ta.products)
	orderService := service.NewOrderService(ta.orders, ta.carts, ta.products, ta.users, verifier)

	userHandler := handlers.NewUserHandler(ta.userService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	authenticate := middleware.Authenticate(ta.users, testJWTSecret)
	requireAdmin := middleware.RequireAdmin()

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/", userHandler.Register)
	users.Post("/login", userHandler.Login)

	carts := api.Group("/carts", authenticate)
	carts.Get("/", cartHandler.GetCart)
	carts.Post("/items", cartHandler.AddItem)

	orders := api.Group("/orders", authenticate)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/number/:orderNumber", orderHandler.GetByOrderNumber)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", requireAdmin, orderHandler.Update)
	orders.Delete("/:id", requireAdmin, orderHandler.Delete)

	ta.app = app
	return ta
}

// signup registers a user through the service layer and returns a login token.
func (ta *testApp) signup(t *testing.T, userType domain.UserType) (domain.User, string) {
	t.Helper()
	ctx := context.Background()

	email := gofakeit.Email()
	password := "secret-" + gofakeit.LetterN(10)

	user, err := ta.userService.Register(ctx, email, gofakeit.Name(), password, userType, gofakeit.Address().Address)
	require.NoError(t, err)

	_, token, err := ta.userService.Login(ctx, email, password)
	require.NoError(t, err)

	return user, token
}

func (ta *testApp) seedProduct(t *testing.T, price int64) domain.Product {
	t.Helper()
	product := domain.Product{
		SKU:      gofakeit.LetterN(8),
		Name:     gofakeit.ProductName(),
		Price:    price,
		Category: domain.CategoryTops,
	}
	require.NoError(t, ta.products.Insert(context.Background(), &product))
	return product
}

func (ta *testApp) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) (httpx.APIResponse, json.RawMessage) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		httpx.APIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.APIResponse, envelope.Data
}

func orderPayload(item handlers.OrderItemRequest) fiber.Map {
	return fiber.Map{
		"items":           []handlers.OrderItemRequest{item},
		"recipientName":   gofakeit.Name(),
		"shippingAddress": gofakeit.Address().Address,
		"phone":           gofakeit.Phone(),
		"address":         gofakeit.Address().Street,
		"zipCode":         gofakeit.Zip(),
		"paymentMethod":   "card",
	}
}

func TestOrderEndpoints_RequireAuth(t *testing.T) {
	ta := newTestApp(stubVerifier{})

	resp := ta.request(t, http.MethodGet, "/api/orders/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ta.request(t, http.MethodPost, "/api/orders/", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateOrder_CartCheckoutFlow(t *testing.T) {
	ta := newTestApp(stubVerifier{record: port.PaymentRecord{
		ImpUID:      "imp_http_1",
		MerchantUID: "merchant_http_1",
		Status:      "paid",
		Amount:      30000,
	}})

	_, token := ta.signup(t, domain.UserTypeCustomer)
	product := ta.seedProduct(t, 15000)

	resp := ta.request(t, http.MethodPost, "/api/carts/items", token, fiber.Map{
		"productId": product.ID.Hex(),
		"quantity":  2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.request(t, http.MethodPost, "/api/orders/", token, fiber.Map{
		"useCart":         true,
		"recipientName":   gofakeit.Name(),
		"shippingAddress": gofakeit.Address().Address,
		"phone":           gofakeit.Phone(),
		"address":         gofakeit.Address().Street,
		"zipCode":         gofakeit.Zip(),
		"paymentMethod":   "card",
		"imp_uid":         "imp_http_1",
		"merchant_uid":    "merchant_http_1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope, data := decodeResponse(t, resp)
	assert.True(t, envelope.Success)

	var view service.OrderView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, int64(30000), view.Order.TotalAmount)
	assert.Equal(t, domain.PaymentStatusCompleted, view.Order.PaymentStatus)
	assert.NotEmpty(t, view.Order.OrderNumber)

	// cart is empty after checkout
	resp = ta.request(t, http.MethodGet, "/api/carts/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, data = decodeResponse(t, resp)

	var cart domain.Cart
	require.NoError(t, json.Unmarshal(data, &cart))
	assert.Empty(t, cart.Items)
}

func TestCreateOrder_DuplicateReturnsConflict(t *testing.T) {
	ta := newTestApp(stubVerifier{record: port.PaymentRecord{
		ImpUID:      "imp_http_2",
		MerchantUID: "merchant_http_2",
		Status:      "paid",
		Amount:      15000,
	}})

	_, token := ta.signup(t, domain.UserTypeCustomer)
	product := ta.seedProduct(t, 15000)

	payload := orderPayload(handlers.OrderItemRequest{
		ProductID: product.ID.Hex(),
		Quantity:  1,
		Price:     15000,
	})
	payload["imp_uid"] = "imp_http_2"
	payload["merchant_uid"] = "merchant_http_2"

	resp := ta.request(t, http.MethodPost, "/api/orders/", token, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ta.request(t, http.MethodPost, "/api/orders/", token, payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	envelope, _ := decodeResponse(t, resp)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
	assert.NotEmpty(t, envelope.Error.Details["order_number"])

	assert.Equal(t, 1, ta.orders.Count())
}

func TestCreateOrder_PaymentMismatchRejected(t *testing.T) {
	ta := newTestApp(stubVerifier{record: port.PaymentRecord{
		ImpUID:      "imp_http_3",
		MerchantUID: "merchant_http_3",
		Status:      "paid",
		Amount:      9999,
	}})

	_, token := ta.signup(t, domain.UserTypeCustomer)
	product := ta.seedProduct(t, 15000)

	payload := orderPayload(handlers.OrderItemRequest{
		ProductID: product.ID.Hex(),
		Quantity:  1,
		Price:     15000,
	})
	payload["imp_uid"] = "imp_http_3"
	payload["merchant_uid"] = "merchant_http_3"

	resp := ta.request(t, http.MethodPost, "/api/orders/", token, payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, ta.orders.Count())
}

func TestCreateOrder_MissingFields(t *testing.T) {
	ta := newTestApp(stubVerifier{})
	_, token := ta.signup(t, domain.UserTypeCustomer)

	resp := ta.request(t, http.MethodPost, "/api/orders/", token, fiber.Map{
		"useCart": true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetOrder_ForeignOrderForbidden(t *testing.T) {
	ta := newTestApp(stubVerifier{})

	_, ownerToken := ta.signup(t, domain.UserTypeCustomer)
	_, strangerToken := ta.signup(t, domain.UserTypeCustomer)
	_, adminToken := ta.signup(t, domain.UserTypeAdmin)
	product := ta.seedProduct(t, 5000)

	payload := orderPayload(handlers.OrderItemRequest{
		ProductID: product.ID.Hex(),
		Quantity:  1,
		Price:     5000,
	})
	resp := ta.request(t, http.MethodPost, "/api/orders/", ownerToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, data := decodeResponse(t, resp)
	var view service.OrderView
	require.NoError(t, json.Unmarshal(data, &view))

	path := "/api/orders/" + view.Order.ID.Hex()

	resp = ta.request(t, http.MethodGet, path, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ta.request(t, http.MethodGet, path, ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ta.request(t, http.MethodGet, path, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// lookup by human-readable number goes through the same ownership check
	resp = ta.request(t, http.MethodGet, "/api/orders/number/"+view.Order.OrderNumber, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdateOrder_AdminOnly(t *testing.T) {
	ta := newTestApp(stubVerifier{})

	_, customerToken := ta.signup(t, domain.UserTypeCustomer)
	_, adminToken := ta.signup(t, domain.UserTypeAdmin)
	product := ta.seedProduct(t, 5000)

	payload := orderPayload(handlers.OrderItemRequest{
		ProductID: product.ID.Hex(),
		Quantity:  1,
		Price:     5000,
	})
	resp := ta.request(t, http.MethodPost, "/api/orders/", customerToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, data := decodeResponse(t, resp)
	var view service.OrderView
	require.NoError(t, json.Unmarshal(data, &view))

	path := "/api/orders/" + view.Order.ID.Hex()

	resp = ta.request(t, http.MethodPut, path, customerToken, fiber.Map{"orderStatus": "confirmed"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ta.request(t, http.MethodPut, path, adminToken, fiber.Map{"orderStatus": "confirmed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, data = decodeResponse(t, resp)
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, domain.OrderStatusConfirmed, view.Order.OrderStatus)
}

func TestUpdateOrder_InvalidTransitionRejected(t *testing.T) {
	ta := newTestApp(stubVerifier{})

	_, customerToken := ta.signup(t, domain.UserTypeCustomer)
	_, adminToken := ta.signup(t, domain.UserTypeAdmin)
	product := ta.seedProduct(t, 5000)

	payload := orderPayload(handlers.OrderItemRequest{
		ProductID: product.ID.Hex(),
		Quantity:  1,
		Price:     5000,
	})
	resp := ta.request(t, http.MethodPost, "/api/orders/", customerToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, data := decodeResponse(t, resp)
	var view service.OrderView
	require.NoError(t, json.Unmarshal(data, &view))

	path := "/api/orders/" + view.Order.ID.Hex()

	resp = ta.request(t, http.MethodPut, path, adminToken, fiber.Map{"orderStatus": "cancelled"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// cancelled is terminal
	resp = ta.request(t, http.MethodPut, path, adminToken, fiber.Map{"orderStatus": "confirmed"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListOrders_ScopedByRole(t *testing.T) {
	ta := newTestApp(stubVerifier{})

	_, aliceToken := ta.signup(t, domain.UserTypeCustomer)
	_, bobToken := ta.signup(t, domain.UserTypeCustomer)
	_, adminToken := ta.signup(t, domain.UserTypeAdmin)
	product := ta.seedProduct(t, 1000)

	for i := 0; i < 2; i++ {
		resp := ta.request(t, http.MethodPost, "/api/orders/", aliceToken, orderPayload(handlers.OrderItemRequest{
			ProductID: product.ID.Hex(),
			Quantity:  1,
			Price:     1000,
		}))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	listCount := func(token string) int {
		resp := ta.request(t, http.MethodGet, "/api/orders/", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_, data := decodeResponse(t, resp)

		var list handlers.ListResponse
		require.NoError(t, json.Unmarshal(data, &list))
		return list.Count
	}

	assert.Equal(t, 2, listCount(aliceToken))
	assert.Equal(t, 0, listCount(bobToken))
	assert.Equal(t, 2, listCount(adminToken))
}

func TestDeleteOrder_AdminOnly(t *testing.T) {
	ta := newTestApp(stubVerifier{})

	_, customerToken := ta.signup(t, domain.UserTypeCustomer)
	_, adminToken := ta.signup(t, domain.UserTypeAdmin)
	product := ta.seedProduct(t, 5000)

	resp := ta.request(t, http.MethodPost, "/api/orders/", customerToken, orderPayload(handlers.OrderItemRequest{
		ProductID: product.ID.Hex(),
		Quantity:  1,
		Price:     5000,
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, data := decodeResponse(t, resp)
	var view service.OrderView
	require.NoError(t, json.Unmarshal(data, &view))

	path := "/api/orders/" + view.Order.ID.Hex()

	resp = ta.request(t, http.MethodDelete, path, customerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ta.request(t, http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, ta.orders.Count())

	resp = ta.request(t, http.MethodGet, path, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
