package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/repository/memory"
	"github.com/peanutradio/shopmall-api/internal/service"
)

type cartFixture struct {
	carts    *memory.CartRepo
	products *memory.ProductRepo
	svc      *service.CartService

	userID  primitive.ObjectID
	product domain.Product
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	f := &cartFixture{
		carts:    memory.NewCartRepo(),
		products: memory.NewProductRepo(),
		userID:   primitive.NewObjectID(),
	}
	f.svc = service.NewCartService(f.carts, f.products)

	f.product = domain.Product{
		SKU:      strings.ToUpper(gofakeit.LetterN(8)),
		Name:     gofakeit.ProductName(),
		Price:    2500,
		Category: domain.CategoryAccessories,
	}
	require.NoError(t, f.products.Insert(context.Background(), &f.product))

	return f
}

func TestGetCart_CreatesOnFirstAccess(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	cart, err := f.svc.GetCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, f.userID, cart.UserID)
	assert.Empty(t, cart.Items)

	// second read returns the same persisted cart, not a fresh one
	again, err := f.svc.GetCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddItem_UsesCatalogPrice(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	cart, err := f.svc.AddItem(ctx, f.userID, f.product.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(2500), cart.Items[0].Price)
	assert.Equal(t, int64(5000), cart.TotalAmount)
	assert.Equal(t, 2, cart.TotalItems)
}

func TestAddItem_MergesExistingLine(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.svc.AddItem(ctx, f.userID, f.product.ID, 1)
	require.NoError(t, err)

	cart, err := f.svc.AddItem(ctx, f.userID, f.product.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(7500), cart.TotalAmount)
}

func TestAddItem_RefreshesStalePrice(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.svc.AddItem(ctx, f.userID, f.product.ID, 1)
	require.NoError(t, err)

	f.product.Price = 3000
	require.NoError(t, f.products.Update(ctx, &f.product))

	cart, err := f.svc.AddItem(ctx, f.userID, f.product.ID, 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(3000), cart.Items[0].Price)
	assert.Equal(t, int64(6000), cart.TotalAmount)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.svc.AddItem(ctx, f.userID, primitive.NewObjectID(), 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdateItemQuantity(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.svc.AddItem(ctx, f.userID, f.product.ID, 2)
	require.NoError(t, err)

	cart, err := f.svc.UpdateItemQuantity(ctx, f.userID, f.product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, int64(12500), cart.TotalAmount)

	// zero removes the line
	cart, err = f.svc.UpdateItemQuantity(ctx, f.userID, f.product.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)
}

func TestUpdateItemQuantity_MissingLine(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.svc.AddItem(ctx, f.userID, f.product.ID, 1)
	require.NoError(t, err)

	_, err = f.svc.UpdateItemQuantity(ctx, f.userID, primitive.NewObjectID(), 2)
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.svc.AddItem(ctx, f.userID, f.product.ID, 1)
	require.NoError(t, err)

	cart, err := f.svc.RemoveItem(ctx, f.userID, f.product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = f.svc.RemoveItem(ctx, f.userID, f.product.ID)
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	other := domain.Product{
		SKU:      strings.ToUpper(gofakeit.LetterN(8)),
		Name:     gofakeit.ProductName(),
		Price:    1000,
		Category: domain.CategoryBottoms,
	}
	require.NoError(t, f.products.Insert(ctx, &other))

	_, err := f.svc.AddItem(ctx, f.userID, f.product.ID, 2)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.userID, other.ID, 1)
	require.NoError(t, err)

	cart, err := f.svc.ClearCart(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)
	assert.Zero(t, cart.TotalItems)
}
