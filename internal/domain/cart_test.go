package domain_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
)

// assertTotals checks the derived-field invariant: after any mutation,
// totalAmount and totalItems equal the sums over remaining items.
func assertTotals(t *testing.T, cart *domain.Cart) {
	t.Helper()

	var amount int64
	var count int
	for _, item := range cart.Items {
		amount += item.Price * int64(item.Quantity)
		count += item.Quantity
	}

	assert.Equal(t, amount, cart.TotalAmount)
	assert.Equal(t, count, cart.TotalItems)
}

func TestCart_AddItem(t *testing.T) {
	cart := domain.NewCart(primitive.NewObjectID())
	productID := primitive.NewObjectID()

	cart.AddItem(productID, 2, 100)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(200), cart.TotalAmount)
	assert.Equal(t, 2, cart.TotalItems)
}

func TestCart_AddItem_ExistingLineRefreshesPrice(t *testing.T) {
	cart := domain.NewCart(primitive.NewObjectID())
	productID := primitive.NewObjectID()

	cart.AddItem(productID, 1, 100)
	// catalog price changed between adds
	cart.AddItem(productID, 2, 150)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(150), cart.Items[0].Price)
	assert.Equal(t, int64(450), cart.TotalAmount)
	assertTotals(t, cart)
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	productID := primitive.NewObjectID()

	tests := []struct {
		name         string
		quantity     int
		wantItems    int
		wantQuantity int
	}{
		{name: "positive quantity updates line", quantity: 5, wantItems: 1, wantQuantity: 5},
		{name: "zero removes line", quantity: 0, wantItems: 0},
		{name: "negative removes line", quantity: -3, wantItems: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := domain.NewCart(primitive.NewObjectID())
			cart.AddItem(productID, 2, 100)

			found := cart.UpdateItemQuantity(productID, tt.quantity)

			require.True(t, found)
			assert.Len(t, cart.Items, tt.wantItems)
			if tt.wantItems > 0 {
				assert.Equal(t, tt.wantQuantity, cart.Items[0].Quantity)
			}
			assertTotals(t, cart)
		})
	}
}

func TestCart_UpdateItemQuantity_MissingLine(t *testing.T) {
	cart := domain.NewCart(primitive.NewObjectID())
	cart.AddItem(primitive.NewObjectID(), 1, 100)

	found := cart.UpdateItemQuantity(primitive.NewObjectID(), 3)

	assert.False(t, found)
	assertTotals(t, cart)
}

func TestCart_RemoveItem(t *testing.T) {
	cart := domain.NewCart(primitive.NewObjectID())
	keep := primitive.NewObjectID()
	remove := primitive.NewObjectID()

	cart.AddItem(keep, 1, 50)
	cart.AddItem(remove, 2, 100)

	require.True(t, cart.RemoveItem(remove))
	assert.False(t, cart.RemoveItem(remove))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, keep, cart.Items[0].ProductID)
	assertTotals(t, cart)
}

func TestCart_Clear(t *testing.T) {
	cart := domain.NewCart(primitive.NewObjectID())
	cart.AddItem(primitive.NewObjectID(), 3, 100)
	cart.AddItem(primitive.NewObjectID(), 1, 250)

	cart.Clear()

	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalAmount)
	assert.Zero(t, cart.TotalItems)
}

// TestCart_TotalsInvariant drives a random mutation sequence and checks the
// derived totals after every step.
func TestCart_TotalsInvariant(t *testing.T) {
	cart := domain.NewCart(primitive.NewObjectID())

	var productIDs []primitive.ObjectID
	for i := 0; i < 5; i++ {
		productIDs = append(productIDs, primitive.NewObjectID())
	}

	for i := 0; i < 200; i++ {
		productID := productIDs[gofakeit.Number(0, len(productIDs)-1)]

		switch gofakeit.Number(0, 3) {
		case 0:
			cart.AddItem(productID, gofakeit.Number(1, 5), int64(gofakeit.Number(100, 10000)))
		case 1:
			cart.UpdateItemQuantity(productID, gofakeit.Number(-1, 10))
		case 2:
			cart.RemoveItem(productID)
		case 3:
			if gofakeit.Number(0, 9) == 0 {
				cart.Clear()
			}
		}

		assertTotals(t, cart)
	}
}
