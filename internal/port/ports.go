package port

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
)

type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProductFilter struct {
	Category *domain.ProductCategory
	Page     int
	Limit    int // zero means no pagination
}

type ProductRepository interface {
	Insert(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int64, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CartRepository interface {
	// FindByUser returns domain.ErrCartNotFound when the user has no cart yet.
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}

// OrderFilter has AND semantics across fields. A nil UserID means all users.
type OrderFilter struct {
	UserID        *primitive.ObjectID
	OrderStatus   *domain.OrderStatus
	PaymentStatus *domain.PaymentStatus
	Page          int
	Limit         int // zero means no pagination
}

type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (domain.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (domain.Order, error)
	// FindByPaymentRef matches either the gateway transaction id or the
	// merchant idempotency token.
	FindByPaymentRef(ctx context.Context, impUID, merchantUID string) (domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int64, error)
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PaymentRecord is the gateway's view of a transaction.
type PaymentRecord struct {
	ImpUID      string
	MerchantUID string
	Status      string
	Amount      int64
}

// PaymentVerifier checks a transaction against the external processor.
// Verify fails unless the transaction is paid and its amount equals
// expectedAmount.
type PaymentVerifier interface {
	Verify(ctx context.Context, impUID string, expectedAmount int64) (PaymentRecord, error)
}
