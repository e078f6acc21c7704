package handlers

import (
	"context"
	"time"

	"innkeep/internal/app"
	"innkeep/internal/handlers/middleware"
	"innkeep/internal/logger"
	"innkeep/internal/models"
	"innkeep/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const stayDateLayout = "2006-01-02"

type StayHandler struct {
	Handler
	authService    *services.AuthService
	bookingService *services.BookingService
	transitions    *services.StayTransitionService
	guestAccess    *services.GuestAccessService
}

func NewStayHandler(app app.App, router fiber.Router) *StayHandler {
	log := logger.New("handlers").File("stay_handler")
	return &StayHandler{
		authService:    app.Service.Auth,
		bookingService: app.Service.Booking,
		transitions:    app.Service.StayTransition,
		guestAccess:    app.Service.GuestAccess,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *StayHandler) Register() {
	stays := h.router.Group(
		"/stays",
		h.middleware.RequireAuth(h.authService),
		h.middleware.RequireManager(),
	)

	stays.Post("/", h.createStay)
	stays.Post("/:id/checkin", h.checkIn)
	stays.Post("/:id/checkout", h.checkOut)
	stays.Post("/:id/cancel", h.cancel)
	stays.Post("/:id/guest-link", h.issueGuestLink)
}

type createStayRequest struct {
	RoomID      string          `json:"roomId"`
	CheckIn     string          `json:"checkIn"`
	CheckOut    string          `json:"checkOut"`
	GuestNames  []string        `json:"guestNames"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (h *StayHandler) createStay(c *fiber.Ctx) error {
	log := h.log.Function("createStay")
	admin := middleware.GetAdmin(c)

	var req createStayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid room id",
		})
	}

	checkIn, err := time.ParseInLocation(stayDateLayout, req.CheckIn, time.UTC)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "checkIn must be a YYYY-MM-DD date",
		})
	}
	checkOut, err := time.ParseInLocation(stayDateLayout, req.CheckOut, time.UTC)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "checkOut must be a YYYY-MM-DD date",
		})
	}
	if !checkIn.Before(checkOut) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "checkIn must be before checkOut",
		})
	}

	stay := &models.Stay{
		RoomID:      roomID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		GuestNames:  pq.StringArray(req.GuestNames),
		TotalAmount: req.TotalAmount,
	}

	created, err := h.bookingService.CreateStay(c.UserContext(), admin.ID, stay)
	if err != nil {
		log.Er("failed to create stay", err, "roomID", roomID, "adminID", admin.ID)
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"stay": created,
	})
}

func (h *StayHandler) checkIn(c *fiber.Ctx) error {
	return h.transitionStay(c, "checkIn", h.transitions.CheckIn)
}

func (h *StayHandler) checkOut(c *fiber.Ctx) error {
	return h.transitionStay(c, "checkOut", h.transitions.CheckOut)
}

func (h *StayHandler) cancel(c *fiber.Ctx) error {
	log := h.log.Function("cancel")
	admin := middleware.GetAdmin(c)

	stayID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid stay id",
		})
	}

	stay, err := h.transitions.Cancel(c.UserContext(), stayID, admin.ID)
	if err != nil {
		log.Info("cancel rejected", "stayID", stayID, "error", err.Error())
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"stay": stay,
	})
}

func (h *StayHandler) transitionStay(
	c *fiber.Ctx,
	name string,
	op func(ctx context.Context, stayID, adminID uuid.UUID, force bool) (*models.Stay, error),
) error {
	log := h.log.Function(name)
	admin := middleware.GetAdmin(c)

	stayID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid stay id",
		})
	}

	force := c.QueryBool("force", false)

	stay, err := op(c.UserContext(), stayID, admin.ID, force)
	if err != nil {
		log.Info("transition rejected", "stayID", stayID, "forced", force, "error", err.Error())
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"stay": stay,
	})
}

func (h *StayHandler) issueGuestLink(c *fiber.Ctx) error {
	log := h.log.Function("issueGuestLink")
	admin := middleware.GetAdmin(c)

	stayID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid stay id",
		})
	}

	token, link, err := h.guestAccess.IssueLink(c.UserContext(), stayID, admin.ID)
	if err != nil {
		log.Er("failed to issue guest link", err, "stayID", stayID)
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":     token,
		"expiresAt": link.ExpiresAt,
	})
}
