package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"trendora/internal/models"
	"trendora/internal/services"
)

// AuthHandler handles HTTP requests for registration, login and verification.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the auth routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	auth := router.Group("/auth")
	auth.Post("/register", h.HandleRegister)
	auth.Post("/login", h.HandleLogin)
	auth.Post("/verify", h.HandleVerify)
}

// HandleRegister registers a new user account. The password is accepted here
// only; the User model never serializes it back out.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var in struct {
		Email     string          `json:"email" validate:"required,email"`
		FirstName string          `json:"first_name" validate:"required,min=2,max=100"`
		LastName  string          `json:"last_name" validate:"required,min=2,max=100"`
		Password  string          `json:"password" validate:"required,min=6"`
		Role      models.UserRole `json:"role" validate:"omitempty,oneof=buyer admin vendor"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(in); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validationErrors.Error(),
		})
	}

	user := models.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
		Role:      in.Role,
	}
	if err := h.authService.RegisterUser(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		return fail(c, err, "Could not register user")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully, verification code issued",
		"user":    user,
	})
}

// HandleLogin authenticates a user and returns a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(in); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validationErrors.Error(),
		})
	}

	token, err := h.authService.LoginUser(in.Email, in.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	}
	return c.JSON(fiber.Map{"token": token})
}

// HandleVerify confirms a registration with the issued one-time code.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	var in struct {
		Email string `json:"email" validate:"required,email"`
		OTP   int    `json:"otp" validate:"required"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(in); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validationErrors.Error(),
		})
	}

	if err := h.authService.VerifyAccount(in.Email, in.OTP); err != nil {
		log.Printf("Error verifying account %s: %v", in.Email, err)
		return fail(c, err, "Could not verify account")
	}
	return c.JSON(fiber.Map{"message": "Account verified"})
}
