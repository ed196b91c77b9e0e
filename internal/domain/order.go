package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a snapshot line: the price is the price at purchase time,
// never a live catalog lookup.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     int64              `bson:"price" json:"price"`
}

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber string             `bson:"orderNumber" json:"orderNumber"`
	UserID      primitive.ObjectID `bson:"user" json:"userId"`

	Items       []OrderItem `bson:"items" json:"items"`
	TotalAmount int64       `bson:"totalAmount" json:"totalAmount"`

	RecipientName   string `bson:"recipientName" json:"recipientName"`
	ShippingAddress string `bson:"shippingAddress" json:"shippingAddress"`
	Phone           string `bson:"phone" json:"phone"`
	Address         string `bson:"address" json:"address"`
	DetailAddress   string `bson:"detailAddress,omitempty" json:"detailAddress,omitempty"`
	ZipCode         string `bson:"zipCode" json:"zipCode"`
	DeliveryRequest string `bson:"deliveryRequest,omitempty" json:"deliveryRequest,omitempty"`

	PaymentMethod PaymentMethod `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	ImpUID        string        `bson:"imp_uid,omitempty" json:"imp_uid,omitempty"`
	MerchantUID   string        `bson:"merchant_uid,omitempty" json:"merchant_uid,omitempty"`

	OrderStatus OrderStatus `bson:"orderStatus" json:"orderStatus"`

	TrackingNumber        string     `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	EstimatedDeliveryDate *time.Time `bson:"estimatedDeliveryDate,omitempty" json:"estimatedDeliveryDate,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OrderItemsTotal sums price x quantity over a snapshot.
func OrderItemsTotal(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}
