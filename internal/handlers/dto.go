package handlers

import (
	"time"

	"github.com/peanutradio/shopmall-api/internal/domain"
)

type RegisterUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	UserType string `json:"userType"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
	UserType *string `json:"userType"`
	Address  *string `json:"address"`
}

type CreateProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Price       *int64 `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

type UpdateProductRequest struct {
	SKU         *string `json:"sku"`
	Name        *string `json:"name"`
	Price       *int64  `json:"price"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
	Description *string `json:"description"`
}

type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type CreateOrderRequest struct {
	UseCart bool               `json:"useCart"`
	Items   []OrderItemRequest `json:"items"`

	RecipientName   string `json:"recipientName"`
	ShippingAddress string `json:"shippingAddress"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	DetailAddress   string `json:"detailAddress"`
	ZipCode         string `json:"zipCode"`
	DeliveryRequest string `json:"deliveryRequest"`

	PaymentMethod string `json:"paymentMethod"`
	ImpUID        string `json:"imp_uid"`
	MerchantUID   string `json:"merchant_uid"`
}

type UpdateOrderRequest struct {
	OrderStatus   *string `json:"orderStatus"`
	PaymentStatus *string `json:"paymentStatus"`

	ShippingAddress *string `json:"shippingAddress"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	DetailAddress   *string `json:"detailAddress"`
	ZipCode         *string `json:"zipCode"`
	DeliveryRequest *string `json:"deliveryRequest"`

	TrackingNumber        *string    `json:"trackingNumber"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate"`
}

type ListResponse struct {
	Count       int         `json:"count"`
	TotalCount  int64       `json:"totalCount"`
	CurrentPage int         `json:"currentPage,omitempty"`
	TotalPages  int64       `json:"totalPages,omitempty"`
	Items       interface{} `json:"items"`
}
