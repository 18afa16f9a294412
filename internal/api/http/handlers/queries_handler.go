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

// QueryOperations is the service surface the end-user handler needs.
type QueryOperations interface {
	CreateQuery(ctx context.Context, callerID int64, input service.QueryCreateInput) (int64, error)
	ListMine(ctx context.Context, callerID int64) ([]domain.Query, error)
	ListMineByStatus(ctx context.Context, callerID int64, status string) ([]domain.Query, error)
}

// QueriesHandler manages end-user query endpoints.
type QueriesHandler struct {
	service QueryOperations
}

// NewQueriesHandler constructs handler.
func NewQueriesHandler(queryService QueryOperations) *QueriesHandler {
	return &QueriesHandler{service: queryService}
}

// CreateQuery POST /api/queries.
func (h *QueriesHandler) CreateQuery(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	id, err := h.service.CreateQuery(c.Context(), principal.User.ID, service.QueryCreateInput{
		Title:       req.Title,
		QueryType:   req.QueryType,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreateQueryResponse{
		Message: "Query created successfully.",
		QueryID: id,
	})
}

// ListQueries GET /api/queries.
func (h *QueriesHandler) ListQueries(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	queries, err := h.service.ListMine(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": querySummaries(queries)})
}

// ListQueriesByStatus GET /api/queries/status/:status.
func (h *QueriesHandler) ListQueriesByStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	queries, err := h.service.ListMineByStatus(c.Context(), principal.User.ID, c.Params("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": querySummaries(queries)})
}

func querySummaries(queries []domain.Query) []dto.QuerySummary {
	items := make([]dto.QuerySummary, 0, len(queries))
	for i := range queries {
		items = append(items, querySummary(&queries[i]))
	}
	return items
}

func querySummary(q *domain.Query) dto.QuerySummary {
	return dto.QuerySummary{
		ID:          q.ID,
		Title:       q.Title,
		QueryType:   q.QueryType,
		Description: q.Description,
		Status:      q.Status,
		Amount:      q.Amount,
		PaymentLink: q.PaymentLink,
		CreatedAt:   q.CreatedAt,
	}
}
