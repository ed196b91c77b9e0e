package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     int64              `bson:"price" json:"price"`
}

// Cart holds one user's pre-checkout line items. TotalAmount and TotalItems
// are derived from Items on every mutation and are never set directly.
type Cart struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user" json:"userId"`
	Items       []CartItem         `bson:"items" json:"items"`
	TotalAmount int64              `bson:"totalAmount" json:"totalAmount"`
	TotalItems  int                `bson:"totalItems" json:"totalItems"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func NewCart(userID primitive.ObjectID) *Cart {
	now := time.Now()
	return &Cart{
		UserID:    userID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) recalculate() {
	var amount int64
	var count int
	for _, item := range c.Items {
		amount += item.Price * int64(item.Quantity)
		count += item.Quantity
	}
	c.TotalAmount = amount
	c.TotalItems = count
	c.UpdatedAt = time.Now()
}

// AddItem appends a new line or, when the product is already present,
// increases its quantity and refreshes the stored price to the current
// catalog price so totals do not go stale after a price change.
func (c *Cart) AddItem(productID primitive.ObjectID, quantity int, price int64) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			c.Items[i].Price = price
			c.recalculate()
			return
		}
	}

	c.Items = append(c.Items, CartItem{
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
	})
	c.recalculate()
}

// UpdateItemQuantity sets a line's quantity. Zero or below removes the line.
// Returns false when the product is not in the cart.
func (c *Cart) UpdateItemQuantity(productID primitive.ObjectID, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if quantity <= 0 {
				return c.RemoveItem(productID)
			}
			c.Items[i].Quantity = quantity
			c.recalculate()
			return true
		}
	}
	return false
}

// RemoveItem deletes a line. Returns false when the product is not in the cart.
func (c *Cart) RemoveItem(productID primitive.ObjectID) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recalculate()
			return true
		}
	}
	return false
}

// Clear empties the cart but keeps the record.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.recalculate()
}
