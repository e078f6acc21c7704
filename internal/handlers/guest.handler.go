package handlers

import (
	"innkeep/internal/app"
	"innkeep/internal/logger"
	"innkeep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// GuestHandler serves the token-scoped guest view. No admin session involved;
// the signed link itself is the credential.
type GuestHandler struct {
	Handler
	guestAccess *services.GuestAccessService
}

func NewGuestHandler(app app.App, router fiber.Router) *GuestHandler {
	log := logger.New("handlers").File("guest_handler")
	return &GuestHandler{
		guestAccess: app.Service.GuestAccess,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *GuestHandler) Register() {
	h.router.Get("/guest/:token", h.getStay)
}

func (h *GuestHandler) getStay(c *fiber.Ctx) error {
	log := h.log.Function("getStay")

	token := c.Params("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Token is required",
		})
	}

	stay, err := h.guestAccess.ResolveLink(c.UserContext(), token)
	if err != nil {
		log.Info("guest link rejected", "error", err.Error())
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"stay": fiber.Map{
			"checkIn":    stay.CheckIn,
			"checkOut":   stay.CheckOut,
			"status":     stay.Status,
			"guestNames": stay.GuestNames,
			"room": fiber.Map{
				"name":  stay.Room.Name,
				"floor": stay.Room.Floor,
			},
		},
	})
}
