// Package memory provides in-memory port implementations backed by maps.
// They mirror the Mongo repositories' semantics (duplicate-key errors,
// not-found sentinels, newest-first listing) for tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/port"
)

type UserRepo struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[primitive.ObjectID]domain.User)}
}

func (r *UserRepo) Insert(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}

	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id primitive.ObjectID) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *UserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *UserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type ProductRepo struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]domain.Product
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: make(map[primitive.ObjectID]domain.Product)}
}

func (r *ProductRepo) Insert(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.products {
		if existing.SKU == product.SKU {
			return domain.ErrSKUTaken
		}
	}

	now := time.Now()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *ProductRepo) List(_ context.Context, filter port.ProductFilter) ([]domain.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []domain.Product
	for _, product := range r.products {
		if filter.Category != nil && product.Category != *filter.Category {
			continue
		}
		products = append(products, product)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	totalCount := int64(len(products))
	products = paginate(products, filter.Page, filter.Limit)

	return products, totalCount, nil
}

func (r *ProductRepo) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

type CartRepo struct {
	mu    sync.RWMutex
	carts map[primitive.ObjectID]domain.Cart // keyed by user id
}

func NewCartRepo() *CartRepo {
	return &CartRepo{carts: make(map[primitive.ObjectID]domain.Cart)}
}

func (r *CartRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}

	copied := cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (r *CartRepo) Save(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	stored := *cart
	stored.Items = append([]domain.CartItem(nil), cart.Items...)
	r.carts[cart.UserID] = stored
	return nil
}

type OrderRepo struct {
	mu     sync.RWMutex
	orders map[primitive.ObjectID]domain.Order
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: make(map[primitive.ObjectID]domain.Order)}
}

func (r *OrderRepo) Insert(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.OrderNumber == order.OrderNumber {
			return domain.ErrDuplicateOrder
		}
		if order.ImpUID != "" && existing.ImpUID == order.ImpUID {
			return domain.ErrDuplicateOrder
		}
		if order.MerchantUID != "" && existing.MerchantUID == order.MerchantUID {
			return domain.ErrDuplicateOrder
		}
	}

	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = *order
	return nil
}

func (r *OrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *OrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

func (r *OrderRepo) FindByPaymentRef(_ context.Context, impUID, merchantUID string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if (impUID != "" && order.ImpUID == impUID) ||
			(merchantUID != "" && order.MerchantUID == merchantUID) {
			return order, nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

func (r *OrderRepo) List(_ context.Context, filter port.OrderFilter) ([]domain.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []domain.Order
	for _, order := range r.orders {
		if filter.UserID != nil && order.UserID != *filter.UserID {
			continue
		}
		if filter.OrderStatus != nil && order.OrderStatus != *filter.OrderStatus {
			continue
		}
		if filter.PaymentStatus != nil && order.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	totalCount := int64(len(orders))
	orders = paginate(orders, filter.Page, filter.Limit)

	return orders, totalCount, nil
}

func (r *OrderRepo) Update(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

func (r *OrderRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

// Count reports the number of stored orders.
func (r *OrderRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}

	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
