package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/httpx"
	"github.com/peanutradio/shopmall-api/internal/port"
	"github.com/peanutradio/shopmall-api/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var request CreateProductRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	if request.SKU == "" || request.Name == "" || request.Price == nil || request.Category == "" || request.Image == "" {
		return httpx.BadRequestResponse(c, "Required fields are missing", map[string]interface{}{
			"required": []string{"sku", "name", "price", "category", "image"},
		})
	}

	if *request.Price < 0 {
		return httpx.BadRequestResponse(c, "Price must be zero or greater", nil)
	}

	category, err := domain.ToProductCategory(request.Category)
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product category", map[string]interface{}{
			"allowed": domain.ProductCategories(),
		})
	}

	product, err := h.productService.Create(c.Context(), request.SKU, request.Name, *request.Price, category, request.Image, request.Description)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.CreatedResponse(c, "Product created successfully", product)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	filter := port.ProductFilter{}

	if categoryStr := c.Query("category"); categoryStr != "" {
		category, err := domain.ToProductCategory(categoryStr)
		if err != nil {
			return httpx.BadRequestResponse(c, "Invalid product category", nil)
		}
		filter.Category = &category
	}

	filter.Page, filter.Limit = paginationParams(c)

	products, totalCount, err := h.productService.List(c.Context(), filter)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	response := ListResponse{
		Count:      len(products),
		TotalCount: totalCount,
		Items:      products,
	}
	if filter.Limit > 0 {
		response.CurrentPage = filter.Page
		response.TotalPages = (totalCount + int64(filter.Limit) - 1) / int64(filter.Limit)
	}

	return httpx.SuccessResponse(c, "Products retrieved successfully", response)
}

func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	product, err := h.productService.GetByID(c.Context(), id)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Product retrieved successfully", product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	var request UpdateProductRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", nil)
	}

	if request.Price != nil && *request.Price < 0 {
		return httpx.BadRequestResponse(c, "Price must be zero or greater", nil)
	}

	input := service.UpdateProductInput{
		SKU:         request.SKU,
		Name:        request.Name,
		Price:       request.Price,
		Image:       request.Image,
		Description: request.Description,
	}

	if request.Category != nil {
		category, err := domain.ToProductCategory(*request.Category)
		if err != nil {
			return httpx.BadRequestResponse(c, "Invalid product category", nil)
		}
		input.Category = &category
	}

	product, err := h.productService.Update(c.Context(), id, input)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid product ID", nil)
	}

	if err := h.productService.Delete(c.Context(), id); err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Product deleted successfully", fiber.Map{"id": id})
}

// paginationParams reads page/limit query params. Pagination applies only
// when limit is given.
func paginationParams(c *fiber.Ctx) (page, limit int) {
	page = 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	return page, limit
}
