package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/httpx"
	"github.com/peanutradio/shopmall-api/internal/middleware"
	"github.com/peanutradio/shopmall-api/internal/service"
)

type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	cart, err := h.cartService.GetCart(c.Context(), user.ID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Cart retrieved successfully", cart)
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var request AddCartItemRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", nil)
	}

	if request.ProductID == "" || request.Quantity == 0 {
		return httpx.BadRequestResponse(c, "Required fields are missing", map[string]interface{}{
			"required": []string{"productId", "quantity"},
		})
	}

	if request.Quantity < 1 {
		return httpx.BadRequestResponse(c, "Quantity must be 1 or greater", nil)
	}

	productID, err := primitive.ObjectIDFromHex(request.ProductID)
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	cart, err := h.cartService.AddItem(c.Context(), user.ID, productID, request.Quantity)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Item added to cart", cart)
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	productID, err := primitive.ObjectIDFromHex(c.Params("productId"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	var request UpdateCartItemRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", nil)
	}

	if request.Quantity == nil {
		return httpx.BadRequestResponse(c, "Quantity is required", nil)
	}

	// Zero or below removes the line.
	cart, err := h.cartService.UpdateItemQuantity(c.Context(), user.ID, productID, *request.Quantity)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Cart item updated", cart)
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	productID, err := primitive.ObjectIDFromHex(c.Params("productId"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	cart, err := h.cartService.RemoveItem(c.Context(), user.ID, productID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Item removed from cart", cart)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	cart, err := h.cartService.ClearCart(c.Context(), user.ID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Cart cleared", cart)
}
