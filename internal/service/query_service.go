package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/query-desk/internal/domain"
	"github.com/spec-kit/query-desk/internal/events"
	"github.com/spec-kit/query-desk/internal/repository"
	"github.com/spec-kit/query-desk/internal/workflow"
	"github.com/spec-kit/query-desk/pkg/util/errorutil"
)

// QueryService coordinates query workflows behind role-aware operations.
// Role enforcement happens at the route guards; the service still checks
// caller identity on user-scoped operations.
type QueryService struct {
	queries    repository.QueryRepository
	audit      repository.QueryAuditRepository
	engine     *workflow.Engine
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// QueryDependencies bundles collaborators for the query service.
type QueryDependencies struct {
	QueryRepo  repository.QueryRepository
	AuditRepo  repository.QueryAuditRepository
	Engine     *workflow.Engine
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// QueryCreateInput describes query creation payload.
type QueryCreateInput struct {
	Title       string
	QueryType   string
	Description string
}

// NewQueryService constructs the service.
func NewQueryService(deps QueryDependencies) *QueryService {
	return &QueryService{
		queries:    deps.QueryRepo,
		audit:      deps.AuditRepo,
		engine:     deps.Engine,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateQuery creates a query for the calling user. New records always start
// in the "new" status with no payment data.
func (s *QueryService) CreateQuery(ctx context.Context, callerID int64, input QueryCreateInput) (int64, error) {
	if callerID <= 0 {
		return 0, errorutil.NewUnauthorized("caller identity required")
	}

	title := strings.TrimSpace(input.Title)
	queryType := strings.TrimSpace(input.QueryType)
	description := strings.TrimSpace(input.Description)

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if queryType == "" {
		missing = append(missing, "query_type")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return 0, errorutil.NewValidationError("title, query_type and description are required",
			map[string]any{"missing": missing})
	}

	id, err := s.queries.Create(ctx, callerID, title, queryType, description)
	if err != nil {
		return 0, errorutil.NewStoreError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventQueryCreated,
		QueryID: id,
		Actor:   userActor(callerID),
		Payload: events.QueryCreatedPayload{
			Title:     title,
			QueryType: queryType,
		},
	})
	return id, nil
}

// ListMine returns the caller's queries, newest first.
func (s *QueryService) ListMine(ctx context.Context, callerID int64) ([]domain.Query, error) {
	if callerID <= 0 {
		return nil, errorutil.NewUnauthorized("caller identity required")
	}
	queries, err := s.queries.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return projectQueries(queries), nil
}

// ListMineByStatus returns the caller's queries filtered by status. The status
// is validated before any persistence call.
func (s *QueryService) ListMineByStatus(ctx context.Context, callerID int64, rawStatus string) ([]domain.Query, error) {
	if callerID <= 0 {
		return nil, errorutil.NewUnauthorized("caller identity required")
	}
	status, ok := domain.ParseQueryStatus(rawStatus)
	if !ok {
		return nil, errorutil.NewInvalidStatus(rawStatus)
	}
	queries, err := s.queries.ListByOwnerAndStatus(ctx, callerID, status)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return projectQueries(queries), nil
}

// ListAll returns every query with owner contact details, newest first.
func (s *QueryService) ListAll(ctx context.Context) ([]domain.AdminQuery, error) {
	queries, err := s.queries.ListAll(ctx)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return projectAdminQueries(queries), nil
}

// ListAllByStatus returns queries in the given status with owner details.
func (s *QueryService) ListAllByStatus(ctx context.Context, rawStatus string) ([]domain.AdminQuery, error) {
	status, ok := domain.ParseQueryStatus(rawStatus)
	if !ok {
		return nil, errorutil.NewInvalidStatus(rawStatus)
	}
	queries, err := s.queries.ListAllByStatus(ctx, status)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return projectAdminQueries(queries), nil
}

// AdminTransition applies a status change on behalf of an admin.
func (s *QueryService) AdminTransition(ctx context.Context, adminID int64, input workflow.TransitionInput) (*workflow.TransitionResult, error) {
	if adminID <= 0 {
		return nil, errorutil.NewUnauthorized("admin identity required")
	}

	result, err := s.engine.Transition(ctx, input)
	if err != nil {
		return nil, err
	}

	s.recordTransition(ctx, adminID, result)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventQueryStatusChanged,
		QueryID: result.QueryID,
		Actor:   adminActor(adminID),
		Payload: events.QueryStatusChangedPayload{
			NewStatus:   result.Status,
			Amount:      result.Amount,
			PaymentLink: result.PaymentLink,
		},
	})
	return result, nil
}

// ListAudit returns the transition trail for a query, newest first.
func (s *QueryService) ListAudit(ctx context.Context, queryID int64) ([]domain.QueryAuditEntry, error) {
	if s.audit == nil {
		return []domain.QueryAuditEntry{}, nil
	}
	entries, err := s.audit.ListByQuery(ctx, queryID)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return entries, nil
}

func (s *QueryService) recordTransition(ctx context.Context, adminID int64, result *workflow.TransitionResult) {
	if s.audit == nil {
		return
	}
	entry := &domain.QueryAuditEntry{
		QueryID:   result.QueryID,
		AdminID:   adminID,
		NewStatus: result.Status,
		Amount:    result.Amount,
	}
	if err := s.audit.Create(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to record transition audit",
			zap.Int64("query_id", result.QueryID), zap.Error(err))
	}
}

func (s *QueryService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func projectQueries(queries []domain.Query) []domain.Query {
	result := make([]domain.Query, 0, len(queries))
	for _, q := range queries {
		result = append(result, workflow.Project(q))
	}
	return result
}

func projectAdminQueries(queries []domain.AdminQuery) []domain.AdminQuery {
	result := make([]domain.AdminQuery, 0, len(queries))
	for _, q := range queries {
		result = append(result, workflow.ProjectAdmin(q))
	}
	return result
}

func userActor(userID int64) events.Actor {
	return events.Actor{
		Role:   domain.RoleUser,
		UserID: &userID,
	}
}

func adminActor(adminID int64) events.Actor {
	return events.Actor{
		Role:    domain.RoleAdmin,
		AdminID: &adminID,
	}
}
