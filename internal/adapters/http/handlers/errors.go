package handlers

import (
	"errors"
	"log"

	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// errorKinds maps domain errors to HTTP status and a stable machine readable kind
var errorKinds = []struct {
	err    error
	status int
	kind   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "invalid_input"},
	{domain.ErrSelfPurchase, fiber.StatusBadRequest, "self_purchase"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "invalid_credentials"},
	{domain.ErrTokenExpired, fiber.StatusUnauthorized, "token_expired"},
	{domain.ErrTokenRevoked, fiber.StatusUnauthorized, "token_revoked"},
	{domain.ErrTokenInvalid, fiber.StatusUnauthorized, "token_invalid"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "unauthorized"},
	{domain.ErrAccountNotVerified, fiber.StatusForbidden, "account_not_verified"},
	{domain.ErrForbidden, fiber.StatusForbidden, "forbidden"},
	{domain.ErrNotFound, fiber.StatusNotFound, "not_found"},
	{domain.ErrUserAlreadyExists, fiber.StatusConflict, "user_exists"},
	{domain.ErrListingUnavailable, fiber.StatusConflict, "listing_unavailable"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "invalid_transition"},
}

// fail writes err as a response. Unknown errors are logged and hidden behind fallback.
func fail(c *fiber.Ctx, err error, fallback string) error {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return response.Fail(c, k.status, k.kind, err.Error())
		}
	}

	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, fallback)
}

// paramID reads a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
