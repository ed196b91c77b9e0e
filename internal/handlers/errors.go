package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/httpx"
)

// serviceErrorResponse maps domain errors onto the HTTP taxonomy:
// client input and verification failures are 400, missing records 404,
// foreign access 403, everything unexpected 500.
func serviceErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrCartItemNotFound):
		return httpx.NotFoundResponse(c, err.Error())

	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrSKUTaken),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrNoOrderItems),
		errors.Is(err, domain.ErrInvalidOrderTotal),
		errors.Is(err, domain.ErrPaymentVerification),
		errors.Is(err, domain.ErrInvalidTransition):
		return httpx.BadRequestResponse(c, err.Error(), nil)

	case errors.Is(err, domain.ErrInvalidCredentials):
		return httpx.UnauthorizedResponse(c, err.Error())

	case errors.Is(err, domain.ErrOrderNotOwned):
		return httpx.ForbiddenResponse(c, err.Error())

	default:
		return httpx.InternalServerErrorResponse(c, "Unexpected error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
