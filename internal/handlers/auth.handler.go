package handlers

import (
	"innkeep/internal/app"
	"innkeep/internal/handlers/middleware"
	"innkeep/internal/logger"
	"innkeep/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authService *services.AuthService
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		authService: app.Service.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Post("/login", h.login)

	protected := auth.Group("/", h.middleware.RequireAuth(h.authService))
	protected.Get("/me", h.me)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	token, admin, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.Info("login failed", "email", req.Email)
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"admin": admin.ToProfile(),
	})
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	admin := middleware.GetAdmin(c)
	if admin == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	return c.JSON(fiber.Map{
		"admin": admin.ToProfile(),
	})
}
