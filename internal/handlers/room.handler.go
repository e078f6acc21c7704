package handlers

import (
	"encoding/json"

	"innkeep/internal/app"
	"innkeep/internal/handlers/middleware"
	"innkeep/internal/logger"
	"innkeep/internal/models"
	"innkeep/internal/repositories"
	"innkeep/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomHandler struct {
	Handler
	authService    *services.AuthService
	bookingService *services.BookingService
	reconciliation *services.ReconciliationService
	roomRepo       repositories.RoomRepository
}

func NewRoomHandler(app app.App, router fiber.Router) *RoomHandler {
	log := logger.New("handlers").File("room_handler")
	return &RoomHandler{
		authService:    app.Service.Auth,
		bookingService: app.Service.Booking,
		reconciliation: app.Service.Reconciliation,
		roomRepo:       app.Repository.Room,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RoomHandler) Register() {
	rooms := h.router.Group("/rooms", h.middleware.RequireAuth(h.authService))

	rooms.Get("/board", h.getBoard)

	manage := rooms.Group("/", h.middleware.RequireManager())
	manage.Post("/", h.createRoom)
	manage.Post("/:id/reconcile", h.reconcileRoom)
}

type createRoomRequest struct {
	Name         string          `json:"name"`
	Floor        int             `json:"floor"`
	NightlyRate  decimal.Decimal `json:"nightlyRate"`
	Amenities    json.RawMessage `json:"amenities"`
	CheckInHour  *int            `json:"checkInHour"`
	CheckOutHour *int            `json:"checkOutHour"`
}

func (h *RoomHandler) createRoom(c *fiber.Ctx) error {
	log := h.log.Function("createRoom")
	admin := middleware.GetAdmin(c)

	var req createRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Room name is required",
		})
	}

	room := &models.Room{
		AdminID:      admin.ID,
		Name:         req.Name,
		Floor:        req.Floor,
		NightlyRate:  req.NightlyRate,
		CheckInHour:  req.CheckInHour,
		CheckOutHour: req.CheckOutHour,
	}
	if len(req.Amenities) > 0 {
		room.Amenities = datatypes.JSON(req.Amenities)
	}

	created, err := h.bookingService.CreateRoom(c.UserContext(), room)
	if err != nil {
		log.Er("failed to create room", err, "adminID", admin.ID)
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"room": created,
	})
}

// getBoard returns the caller's rooms with their live statuses and any booked
// or occupied stays, served from cache when fresh.
func (h *RoomHandler) getBoard(c *fiber.Ctx) error {
	log := h.log.Function("getBoard")
	admin := middleware.GetAdmin(c)

	rooms, err := h.roomRepo.GetBoardForOwner(c.UserContext(), h.DB(c), admin.ID)
	if err != nil {
		log.Er("failed to load room board", err, "adminID", admin.ID)
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"rooms": rooms,
	})
}

// reconcileRoom forces a synchronous status recompute for one room instead of
// waiting for the next tick.
func (h *RoomHandler) reconcileRoom(c *fiber.Ctx) error {
	log := h.log.Function("reconcileRoom")
	admin := middleware.GetAdmin(c)

	roomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid room id",
		})
	}

	room, err := h.roomRepo.GetByID(c.UserContext(), h.DB(c), roomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errorResponse(c, services.ErrRoomNotFound)
		}
		log.Er("failed to load room", err, "roomID", roomID)
		return errorResponse(c, err)
	}
	if room.AdminID != admin.ID {
		return errorResponse(c, services.ErrRoomNotFound)
	}

	if err := h.reconciliation.ReconcileRoom(c.UserContext(), roomID); err != nil {
		log.Er("failed to reconcile room", err, "roomID", roomID)
		return errorResponse(c, err)
	}

	refreshed, err := h.roomRepo.GetByID(c.UserContext(), h.DB(c), roomID)
	if err != nil {
		log.Er("failed to reload room", err, "roomID", roomID)
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"room": refreshed,
	})
}

func (h *RoomHandler) DB(c *fiber.Ctx) *gorm.DB {
	return h.middleware.DB.SQLWithContext(c.UserContext())
}
