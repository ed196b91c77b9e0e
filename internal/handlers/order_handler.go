package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/httpx"
	"github.com/peanutradio/shopmall-api/internal/middleware"
	"github.com/peanutradio/shopmall-api/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var request CreateOrderRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	if request.RecipientName == "" || request.ShippingAddress == "" || request.Phone == "" ||
		request.Address == "" || request.ZipCode == "" || request.PaymentMethod == "" {
		return httpx.BadRequestResponse(c, "Required fields are missing", map[string]interface{}{
			"required": []string{"recipientName", "shippingAddress", "phone", "address", "zipCode", "paymentMethod"},
		})
	}

	paymentMethod, err := domain.ToPaymentMethod(request.PaymentMethod)
	if err != nil {
		return httpx.BadRequestResponse(c, "Payment method must be card, bank, kakao or naver", nil)
	}

	input := service.CreateOrderInput{
		UseCart:         request.UseCart,
		RecipientName:   request.RecipientName,
		ShippingAddress: request.ShippingAddress,
		Phone:           request.Phone,
		Address:         request.Address,
		DetailAddress:   request.DetailAddress,
		ZipCode:         request.ZipCode,
		DeliveryRequest: request.DeliveryRequest,
		PaymentMethod:   paymentMethod,
		ImpUID:          request.ImpUID,
		MerchantUID:     request.MerchantUID,
	}

	if !request.UseCart {
		if len(request.Items) == 0 {
			return httpx.BadRequestResponse(c, "No items to order", nil)
		}
		for i, item := range request.Items {
			productID, err := primitive.ObjectIDFromHex(item.ProductID)
			if err != nil {
				return httpx.BadRequestResponse(c, "Invalid product ID", map[string]interface{}{
					"item_index": i,
				})
			}
			if item.Quantity <= 0 {
				return httpx.BadRequestResponse(c, "Invalid quantity", map[string]interface{}{
					"item_index": i,
					"quantity":   item.Quantity,
				})
			}
			if item.Price <= 0 {
				return httpx.BadRequestResponse(c, "Invalid price", map[string]interface{}{
					"item_index": i,
					"price":      item.Price,
				})
			}
			input.Items = append(input.Items, service.OrderItemInput{
				ProductID: productID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
	}

	view, err := h.orderService.CreateOrder(c.Context(), user.ID, input)
	if errors.Is(err, domain.ErrDuplicateOrder) {
		// Retried submission: surface the already-created order as success.
		return httpx.ConflictResponse(c, "Order already processed", map[string]interface{}{
			"order_id":     view.Order.ID,
			"order_number": view.Order.OrderNumber,
		})
	}
	if errors.Is(err, domain.ErrOrderNumberExhausted) {
		return httpx.InternalServerErrorResponse(c, "Order number generation failed, please retry", nil)
	}
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.CreatedResponse(c, "Order created successfully", view)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	input := service.ListOrdersInput{}

	if statusStr := c.Query("orderStatus"); statusStr != "" {
		status, err := domain.ToOrderStatus(statusStr)
		if err != nil {
			return httpx.BadRequestResponse(c, "Invalid order status", nil)
		}
		input.OrderStatus = &status
	}
	if statusStr := c.Query("paymentStatus"); statusStr != "" {
		status, err := domain.ToPaymentStatus(statusStr)
		if err != nil {
			return httpx.BadRequestResponse(c, "Invalid payment status", nil)
		}
		input.PaymentStatus = &status
	}

	input.Page, input.Limit = paginationParams(c)

	views, totalCount, err := h.orderService.ListOrders(c.Context(), user, input)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	response := ListResponse{
		Count:      len(views),
		TotalCount: totalCount,
		Items:      views,
	}
	if input.Limit > 0 {
		response.CurrentPage = input.Page
		response.TotalPages = (totalCount + int64(input.Limit) - 1) / int64(input.Limit)
	}

	return httpx.SuccessResponse(c, "Orders retrieved successfully", response)
}

func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	view, err := h.orderService.GetOrder(c.Context(), user, id)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Order retrieved successfully", view)
}

func (h *OrderHandler) GetByOrderNumber(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	view, err := h.orderService.GetOrderByNumber(c.Context(), user, c.Params("orderNumber"))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Order retrieved successfully", view)
}

func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	var request UpdateOrderRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", nil)
	}

	input := service.UpdateOrderInput{
		ShippingAddress:       request.ShippingAddress,
		Phone:                 request.Phone,
		Address:               request.Address,
		DetailAddress:         request.DetailAddress,
		ZipCode:               request.ZipCode,
		DeliveryRequest:       request.DeliveryRequest,
		TrackingNumber:        request.TrackingNumber,
		EstimatedDeliveryDate: request.EstimatedDeliveryDate,
	}

	if request.OrderStatus != nil {
		status, err := domain.ToOrderStatus(*request.OrderStatus)
		if err != nil {
			return httpx.BadRequestResponse(c, "Invalid order status", nil)
		}
		input.OrderStatus = &status
	}
	if request.PaymentStatus != nil {
		status, err := domain.ToPaymentStatus(*request.PaymentStatus)
		if err != nil {
			return httpx.BadRequestResponse(c, "Invalid payment status", nil)
		}
		input.PaymentStatus = &status
	}

	view, err := h.orderService.UpdateOrder(c.Context(), id, input)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Order updated successfully", view)
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid order ID", nil)
	}

	order, err := h.orderService.DeleteOrder(c.Context(), id)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Order deleted successfully", fiber.Map{
		"id":          order.ID,
		"orderNumber": order.OrderNumber,
		"totalAmount": order.TotalAmount,
	})
}
