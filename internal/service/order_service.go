package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/port"
)

// maxOrderNumberAttempts bounds the collision-retry loop for generated
// order numbers. Exhaustion is a hard failure with no order created.
const maxOrderNumberAttempts = 10

type OrderService struct {
	orders   port.OrderRepository
	carts    port.CartRepository
	products port.ProductRepository
	users    port.UserRepository
	verifier port.PaymentVerifier
}

func NewOrderService(
	orders port.OrderRepository,
	carts port.CartRepository,
	products port.ProductRepository,
	users port.UserRepository,
	verifier port.PaymentVerifier,
) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		products: products,
		users:    users,
		verifier: verifier,
	}
}

type OrderItemInput struct {
	ProductID primitive.ObjectID
	Quantity  int
	Price     int64
}

type CreateOrderInput struct {
	UseCart bool
	Items   []OrderItemInput

	RecipientName   string
	ShippingAddress string
	Phone           string
	Address         string
	DetailAddress   string
	ZipCode         string
	DeliveryRequest string

	PaymentMethod domain.PaymentMethod
	ImpUID        string
	MerchantUID   string
}

// Purchaser is the order owner's display identity.
type Purchaser struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

type OrderViewItem struct {
	Product   *domain.Product    `json:"product,omitempty"`
	ProductID primitive.ObjectID `json:"productId"`
	Quantity  int                `json:"quantity"`
	Price     int64              `json:"price"`
}

// OrderView is an order with its line items and purchaser resolved for display.
type OrderView struct {
	Order     domain.Order    `json:"order"`
	Items     []OrderViewItem `json:"items"`
	Purchaser Purchaser       `json:"purchaser"`
}

// CreateOrder turns a validated checkout form plus a non-empty cart (or an
// explicit item list) into exactly one persisted order. Retried submissions
// carrying the same payment identifiers surface the existing order via
// domain.ErrDuplicateOrder instead of creating a second record. No partial
// state survives any failure; the cart is cleared only after the order is
// durably created.
func (s *OrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID, input CreateOrderInput) (OrderView, error) {
	items, totalAmount, err := s.sourceItems(ctx, userID, input)
	if err != nil {
		return OrderView{}, err
	}

	if totalAmount <= 0 {
		return OrderView{}, domain.ErrInvalidOrderTotal
	}

	// Duplicate-submission guard runs before any external call.
	if input.ImpUID != "" && input.MerchantUID != "" {
		existing, err := s.orders.FindByPaymentRef(ctx, input.ImpUID, input.MerchantUID)
		if err == nil {
			view, viewErr := s.resolveView(ctx, existing)
			if viewErr != nil {
				return OrderView{}, viewErr
			}
			return view, domain.ErrDuplicateOrder
		}
		if !errors.Is(err, domain.ErrOrderNotFound) {
			return OrderView{}, fmt.Errorf("orders.FindByPaymentRef: %w", err)
		}
	}

	paymentStatus := domain.PaymentStatusPending
	if input.ImpUID != "" {
		record, err := s.verifier.Verify(ctx, input.ImpUID, totalAmount)
		if err != nil {
			return OrderView{}, err
		}
		if record.MerchantUID != input.MerchantUID {
			return OrderView{}, fmt.Errorf("%w: merchant uid mismatch", domain.ErrPaymentVerification)
		}
		paymentStatus = domain.PaymentStatusCompleted
	}

	orderNumber, err := s.uniqueOrderNumber(ctx)
	if err != nil {
		return OrderView{}, err
	}

	order := domain.Order{
		OrderNumber:     orderNumber,
		UserID:          userID,
		Items:           items,
		TotalAmount:     totalAmount,
		RecipientName:   input.RecipientName,
		ShippingAddress: input.ShippingAddress,
		Phone:           input.Phone,
		Address:         input.Address,
		DetailAddress:   input.DetailAddress,
		ZipCode:         input.ZipCode,
		DeliveryRequest: input.DeliveryRequest,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   paymentStatus,
		ImpUID:          input.ImpUID,
		MerchantUID:     input.MerchantUID,
		OrderStatus:     domain.OrderStatusPending,
	}

	if err := s.orders.Insert(ctx, &order); err != nil {
		if errors.Is(err, domain.ErrDuplicateOrder) {
			// A payment ref raced past the pre-insert guard and hit the
			// unique index. Surface the winning order's identity.
			if input.ImpUID != "" && input.MerchantUID != "" {
				existing, findErr := s.orders.FindByPaymentRef(ctx, input.ImpUID, input.MerchantUID)
				if findErr == nil {
					view, viewErr := s.resolveView(ctx, existing)
					if viewErr != nil {
						return OrderView{}, viewErr
					}
					return view, domain.ErrDuplicateOrder
				}
			}
			// The collision was on the order number itself; there is no
			// existing order to hand back, so report a plain failure.
			return OrderView{}, fmt.Errorf("orders.Insert: %v", err)
		}
		return OrderView{}, fmt.Errorf("orders.Insert: %w", err)
	}

	log.Printf("Order created: OrderNumber=%s UserID=%s Amount=%d PaymentStatus=%s",
		order.OrderNumber, userID.Hex(), order.TotalAmount, order.PaymentStatus)

	// The order is durable at this point. A failed cart clear leaves a stale
	// cart, which is a display-only inconsistency, not a financial one.
	if input.UseCart {
		if err := s.clearCart(ctx, userID); err != nil {
			log.Printf("Cart clear after order %s failed: %v", order.OrderNumber, err)
		}
	}

	return s.resolveView(ctx, order)
}

func (s *OrderService) sourceItems(ctx context.Context, userID primitive.ObjectID, input CreateOrderInput) ([]domain.OrderItem, int64, error) {
	if input.UseCart {
		cart, err := s.carts.FindByUser(ctx, userID)
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil, 0, domain.ErrEmptyCart
		}
		if err != nil {
			return nil, 0, fmt.Errorf("carts.FindByUser: %w", err)
		}
		if len(cart.Items) == 0 {
			return nil, 0, domain.ErrEmptyCart
		}

		items := make([]domain.OrderItem, len(cart.Items))
		for i, item := range cart.Items {
			items[i] = domain.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
		}
		return items, cart.TotalAmount, nil
	}

	if len(input.Items) == 0 {
		return nil, 0, domain.ErrNoOrderItems
	}

	items := make([]domain.OrderItem, len(input.Items))
	for i, item := range input.Items {
		if _, err := s.products.FindByID(ctx, item.ProductID); err != nil {
			return nil, 0, fmt.Errorf("products.FindByID %s: %w", item.ProductID.Hex(), err)
		}
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	return items, domain.OrderItemsTotal(items), nil
}

// uniqueOrderNumber probes generated candidates against the store and gives
// up after a fixed bound rather than looping forever.
func (s *OrderService) uniqueOrderNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		candidate := generateOrderNumber()

		_, err := s.orders.FindByOrderNumber(ctx, candidate)
		if errors.Is(err, domain.ErrOrderNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("orders.FindByOrderNumber: %w", err)
		}
		// collision, try a fresh suffix
	}

	return "", domain.ErrOrderNumberExhausted
}

// generateOrderNumber builds a human-readable candidate: current date plus
// a 6-digit random suffix. Uniqueness is handled by the caller's probe loop.
func generateOrderNumber() string {
	suffix := 100000 + rand.Intn(900000)
	return fmt.Sprintf("%s%d", time.Now().Format("20060102"), suffix)
}

func (s *OrderService) clearCart(ctx context.Context, userID primitive.ObjectID) error {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("carts.FindByUser: %w", err)
	}

	cart.Clear()

	if err := s.carts.Save(ctx, cart); err != nil {
		return fmt.Errorf("carts.Save: %w", err)
	}

	return nil
}

func (s *OrderService) resolveView(ctx context.Context, order domain.Order) (OrderView, error) {
	items := make([]OrderViewItem, len(order.Items))
	for i, item := range order.Items {
		view := OrderViewItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		// A product removed from the catalog after purchase leaves the
		// snapshot line intact without a resolved record.
		if product, err := s.products.FindByID(ctx, item.ProductID); err == nil {
			view.Product = &product
		}
		items[i] = view
	}

	view := OrderView{
		Order: order,
		Items: items,
	}

	if user, err := s.users.FindByID(ctx, order.UserID); err == nil {
		view.Purchaser = Purchaser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		}
	}

	return view, nil
}

// GetOrder loads an order for the caller; non-admins may only read their own.
func (s *OrderService) GetOrder(ctx context.Context, caller domain.User, id primitive.ObjectID) (OrderView, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return OrderView{}, fmt.Errorf("orders.FindByID: %w", err)
	}

	if !caller.IsAdmin() && order.UserID != caller.ID {
		return OrderView{}, domain.ErrOrderNotOwned
	}

	return s.resolveView(ctx, order)
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, caller domain.User, orderNumber string) (OrderView, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return OrderView{}, fmt.Errorf("orders.FindByOrderNumber: %w", err)
	}

	if !caller.IsAdmin() && order.UserID != caller.ID {
		return OrderView{}, domain.ErrOrderNotOwned
	}

	return s.resolveView(ctx, order)
}

type ListOrdersInput struct {
	OrderStatus   *domain.OrderStatus
	PaymentStatus *domain.PaymentStatus
	Page          int
	Limit         int // zero means no pagination
}

// ListOrders returns the caller's orders, or all orders for admins,
// newest first.
func (s *OrderService) ListOrders(ctx context.Context, caller domain.User, input ListOrdersInput) ([]OrderView, int64, error) {
	filter := port.OrderFilter{
		OrderStatus:   input.OrderStatus,
		PaymentStatus: input.PaymentStatus,
		Page:          input.Page,
		Limit:         input.Limit,
	}
	if !caller.IsAdmin() {
		filter.UserID = &caller.ID
	}

	orders, totalCount, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("orders.List: %w", err)
	}

	views := make([]OrderView, len(orders))
	for i, order := range orders {
		view, err := s.resolveView(ctx, order)
		if err != nil {
			return nil, 0, err
		}
		views[i] = view
	}

	return views, totalCount, nil
}

type UpdateOrderInput struct {
	OrderStatus   *domain.OrderStatus
	PaymentStatus *domain.PaymentStatus

	ShippingAddress *string
	Phone           *string
	Address         *string
	DetailAddress   *string
	ZipCode         *string
	DeliveryRequest *string

	TrackingNumber        *string
	EstimatedDeliveryDate *time.Time
}

// UpdateOrder applies an administrative update. Status moves are checked
// against the transition rules: delivered and cancelled are terminal, and
// payment status only moves pending -> completed|failed, completed -> refunded.
func (s *OrderService) UpdateOrder(ctx context.Context, id primitive.ObjectID, input UpdateOrderInput) (OrderView, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return OrderView{}, fmt.Errorf("orders.FindByID: %w", err)
	}

	if input.OrderStatus != nil {
		if !order.OrderStatus.CanTransitionTo(*input.OrderStatus) {
			return OrderView{}, fmt.Errorf("%w: order status %s -> %s",
				domain.ErrInvalidTransition, order.OrderStatus, *input.OrderStatus)
		}
		order.OrderStatus = *input.OrderStatus
	}

	if input.PaymentStatus != nil {
		if !order.PaymentStatus.CanTransitionTo(*input.PaymentStatus) {
			return OrderView{}, fmt.Errorf("%w: payment status %s -> %s",
				domain.ErrInvalidTransition, order.PaymentStatus, *input.PaymentStatus)
		}
		order.PaymentStatus = *input.PaymentStatus
	}

	if input.ShippingAddress != nil {
		order.ShippingAddress = *input.ShippingAddress
	}
	if input.Phone != nil {
		order.Phone = *input.Phone
	}
	if input.Address != nil {
		order.Address = *input.Address
	}
	if input.DetailAddress != nil {
		order.DetailAddress = *input.DetailAddress
	}
	if input.ZipCode != nil {
		order.ZipCode = *input.ZipCode
	}
	if input.DeliveryRequest != nil {
		order.DeliveryRequest = *input.DeliveryRequest
	}
	if input.TrackingNumber != nil {
		order.TrackingNumber = *input.TrackingNumber
	}
	if input.EstimatedDeliveryDate != nil {
		order.EstimatedDeliveryDate = input.EstimatedDeliveryDate
	}

	if err := s.orders.Update(ctx, &order); err != nil {
		return OrderView{}, fmt.Errorf("orders.Update: %w", err)
	}

	return s.resolveView(ctx, order)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id primitive.ObjectID) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.FindByID: %w", err)
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return domain.Order{}, fmt.Errorf("orders.Delete: %w", err)
	}

	return order, nil
}
