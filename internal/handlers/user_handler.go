package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/httpx"
	"github.com/peanutradio/shopmall-api/internal/middleware"
	"github.com/peanutradio/shopmall-api/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var request RegisterUserRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", map[string]interface{}{
			"parse_error": err.Error(),
		})
	}

	if request.Email == "" || request.Name == "" || request.Password == "" || request.UserType == "" {
		return httpx.BadRequestResponse(c, "Required fields are missing", map[string]interface{}{
			"required": []string{"email", "name", "password", "userType"},
		})
	}

	userType, err := domain.ToUserType(request.UserType)
	if err != nil {
		return httpx.BadRequestResponse(c, "userType must be customer or admin", nil)
	}

	user, err := h.userService.Register(c.Context(), request.Email, request.Name, request.Password, userType, request.Address)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.CreatedResponse(c, "User created successfully", user)
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var request LoginRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", nil)
	}

	if request.Email == "" || request.Password == "" {
		return httpx.BadRequestResponse(c, "Email and password are required", nil)
	}

	user, token, err := h.userService.Login(c.Context(), request.Email, request.Password)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Login successful", LoginResponse{
		Token: token,
		User:  user,
	})
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	return httpx.SuccessResponse(c, "User retrieved successfully", middleware.CurrentUser(c))
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.Context())
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "Users retrieved successfully", ListResponse{
		Count:      len(users),
		TotalCount: int64(len(users)),
		Items:      users,
	})
}

func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid user ID", nil)
	}

	user, err := h.userService.GetByID(c.Context(), id)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "User retrieved successfully", user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid user ID", nil)
	}

	var request UpdateUserRequest
	if err := c.BodyParser(&request); err != nil {
		return httpx.BadRequestResponse(c, "Invalid request body", nil)
	}

	input := service.UpdateUserInput{
		Email:    request.Email,
		Name:     request.Name,
		Password: request.Password,
		Address:  request.Address,
	}

	if request.UserType != nil {
		userType, err := domain.ToUserType(*request.UserType)
		if err != nil {
			return httpx.BadRequestResponse(c, "userType must be customer or admin", nil)
		}
		input.UserType = &userType
	}

	user, err := h.userService.Update(c.Context(), id, input)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "User updated successfully", user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return httpx.BadRequestResponse(c, "Invalid user ID", nil)
	}

	if err := h.userService.Delete(c.Context(), id); err != nil {
		return serviceErrorResponse(c, err)
	}

	return httpx.SuccessResponse(c, "User deleted successfully", fiber.Map{"id": id})
}
