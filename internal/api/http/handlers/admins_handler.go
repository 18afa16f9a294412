package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-desk/internal/api/dto"
	"github.com/spec-kit/query-desk/internal/service"
	apperrors "github.com/spec-kit/query-desk/pkg/util/errorutil"
)

// AdminsHandler exposes admin registration and OTP login endpoints.
type AdminsHandler struct {
	auth    *service.AuthService
	devMode bool
}

// NewAdminsHandler constructs handler. In dev mode the issued OTP is echoed
// in the response since no delivery channel is configured.
func NewAdminsHandler(authService *service.AuthService, devMode bool) *AdminsHandler {
	return &AdminsHandler{auth: authService, devMode: devMode}
}

// Register handles POST /api/admin/register.
func (h *AdminsHandler) Register(c *fiber.Ctx) error {
	var req dto.AdminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("name, email and password are required", nil)
	}

	admin, err := h.auth.RegisterAdmin(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
		},
	})
}

// RequestOTP handles POST /api/admin/otp.
func (h *AdminsHandler) RequestOTP(c *fiber.Ctx) error {
	var req dto.AdminOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	code, err := h.auth.RequestAdminOTP(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	resp := fiber.Map{"message": "verification code issued"}
	if h.devMode {
		resp["code"] = code
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Login handles POST /api/admin/login.
func (h *AdminsHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Code == "" {
		return apperrors.NewValidationError("email and verification code are required", nil)
	}

	admin, token, exp, err := h.auth.LoginAdmin(c.Context(), req.Email, req.Code)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"admin": fiber.Map{
				"id":    admin.ID,
				"name":  admin.Name,
				"email": admin.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}
