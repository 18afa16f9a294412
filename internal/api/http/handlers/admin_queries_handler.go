package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-desk/internal/api/dto"
	"github.com/spec-kit/query-desk/internal/auth"
	"github.com/spec-kit/query-desk/internal/domain"
	"github.com/spec-kit/query-desk/internal/workflow"
	apperrors "github.com/spec-kit/query-desk/pkg/util/errorutil"
)

// AdminQueryOperations is the service surface the admin handler needs.
type AdminQueryOperations interface {
	ListAll(ctx context.Context) ([]domain.AdminQuery, error)
	ListAllByStatus(ctx context.Context, status string) ([]domain.AdminQuery, error)
	AdminTransition(ctx context.Context, adminID int64, input workflow.TransitionInput) (*workflow.TransitionResult, error)
	ListAudit(ctx context.Context, queryID int64) ([]domain.QueryAuditEntry, error)
}

// AdminQueriesHandler manages admin triage endpoints.
type AdminQueriesHandler struct {
	service AdminQueryOperations
}

// NewAdminQueriesHandler constructs handler.
func NewAdminQueriesHandler(queryService AdminQueryOperations) *AdminQueriesHandler {
	return &AdminQueriesHandler{service: queryService}
}

// ListQueries GET /api/admin/queries.
func (h *AdminQueriesHandler) ListQueries(c *fiber.Ctx) error {
	queries, err := h.service.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminQuerySummaries(queries)})
}

// ListQueriesByStatus GET /api/admin/queries/status/:status.
func (h *AdminQueriesHandler) ListQueriesByStatus(c *fiber.Ctx) error {
	queries, err := h.service.ListAllByStatus(c.Context(), c.Params("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminQuerySummaries(queries)})
}

// UpdateStatus PATCH /api/admin/queries/status.
func (h *AdminQueriesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.service.AdminTransition(c.Context(), principal.Admin.ID, workflow.TransitionInput{
		QueryID:     req.QueryID,
		Target:      req.Status,
		Amount:      req.Amount,
		PaymentLink: req.PaymentLink,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.TransitionResponse{
		Message:     "Query status updated successfully.",
		QueryID:     result.QueryID,
		Status:      result.Status,
		PaymentLink: result.PaymentLink,
	})
}

// ListAudit GET /api/admin/queries/:id/audit.
func (h *AdminQueriesHandler) ListAudit(c *fiber.Ctx) error {
	queryID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || queryID <= 0 {
		return apperrors.NewValidationError("invalid query id", nil)
	}
	entries, err := h.service.ListAudit(c.Context(), queryID)
	if err != nil {
		return err
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AuditEntryResponse{
			ID:        entry.ID,
			QueryID:   entry.QueryID,
			AdminID:   entry.AdminID,
			NewStatus: entry.NewStatus,
			Amount:    entry.Amount,
			CreatedAt: entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func adminQuerySummaries(queries []domain.AdminQuery) []dto.AdminQuerySummary {
	items := make([]dto.AdminQuerySummary, 0, len(queries))
	for i := range queries {
		items = append(items, dto.AdminQuerySummary{
			QuerySummary: querySummary(&queries[i].Query),
			OwnerName:    queries[i].OwnerName,
			OwnerEmail:   queries[i].OwnerEmail,
		})
	}
	return items
}
