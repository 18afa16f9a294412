package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-desk/internal/api/dto"
	"github.com/spec-kit/query-desk/internal/auth"
	"github.com/spec-kit/query-desk/internal/domain"
	"github.com/spec-kit/query-desk/internal/service"
	apperrors "github.com/spec-kit/query-desk/pkg/util/errorutil"
)

// PaymentOperations is the service surface the payments handler needs.
type PaymentOperations interface {
	CreatePayment(ctx context.Context, callerID int64, input service.PaymentCreateInput) (*domain.Payment, error)
	ListPaymentsForUser(ctx context.Context, callerID int64) ([]domain.Payment, error)
	ListAllPayments(ctx context.Context) ([]domain.Payment, error)
}

// PaymentsHandler manages payment endpoints.
type PaymentsHandler struct {
	service PaymentOperations
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(paymentService PaymentOperations) *PaymentsHandler {
	return &PaymentsHandler{service: paymentService}
}

// CreatePayment POST /api/payments.
func (h *PaymentsHandler) CreatePayment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	payment, err := h.service.CreatePayment(c.Context(), principal.User.ID, service.PaymentCreateInput{
		QueryID: req.QueryID,
		Amount:  req.Amount,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": paymentResponse(payment)})
}

// ListMyPayments GET /api/payments.
func (h *PaymentsHandler) ListMyPayments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	payments, err := h.service.ListPaymentsForUser(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": paymentResponses(payments)})
}

// ListAllPayments GET /api/payments/admin.
func (h *PaymentsHandler) ListAllPayments(c *fiber.Ctx) error {
	payments, err := h.service.ListAllPayments(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": paymentResponses(payments)})
}

func paymentResponses(payments []domain.Payment) []dto.PaymentResponse {
	items := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, paymentResponse(&payments[i]))
	}
	return items
}

func paymentResponse(p *domain.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		QueryID:   p.QueryID,
		Reference: p.Reference,
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
	}
}
