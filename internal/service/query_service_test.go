package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/query-desk/internal/domain"
	"github.com/spec-kit/query-desk/internal/events"
	"github.com/spec-kit/query-desk/internal/workflow"
	"github.com/spec-kit/query-desk/pkg/util/errorutil"
)

// fakeQueryStore mimics the repository's SQL semantics in memory: rows are
// returned newest first, payment fields are projected away unless exposed,
// and ApplyTransition writes payment data only for in_progress.
type fakeQueryStore struct {
	nextID int64
	rows   map[int64]*domain.Query
	listed bool
}

func newFakeQueryStore() *fakeQueryStore {
	return &fakeQueryStore{nextID: 1, rows: make(map[int64]*domain.Query)}
}

func (f *fakeQueryStore) Create(_ context.Context, ownerID int64, title, queryType, description string) (int64, error) {
	id := f.nextID
	f.nextID++
	f.rows[id] = &domain.Query{
		ID:          id,
		OwnerID:     ownerID,
		Title:       title,
		QueryType:   queryType,
		Description: description,
		Status:      domain.QueryStatusNew,
		CreatedAt:   time.Now(),
	}
	return id, nil
}

func (f *fakeQueryStore) ListByOwner(_ context.Context, ownerID int64) ([]domain.Query, error) {
	f.listed = true
	var result []domain.Query
	for id := f.nextID - 1; id >= 1; id-- {
		row, ok := f.rows[id]
		if !ok || row.OwnerID != ownerID {
			continue
		}
		result = append(result, f.project(*row))
	}
	return result, nil
}

func (f *fakeQueryStore) ListByOwnerAndStatus(ctx context.Context, ownerID int64, status domain.QueryStatus) ([]domain.Query, error) {
	all, err := f.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var result []domain.Query
	for _, q := range all {
		if q.Status == status {
			result = append(result, q)
		}
	}
	return result, nil
}

func (f *fakeQueryStore) ListAll(_ context.Context) ([]domain.AdminQuery, error) {
	f.listed = true
	var result []domain.AdminQuery
	for id := f.nextID - 1; id >= 1; id-- {
		row, ok := f.rows[id]
		if !ok {
			continue
		}
		result = append(result, domain.AdminQuery{
			Query:      f.project(*row),
			OwnerName:  "Owner",
			OwnerEmail: "owner@example.com",
		})
	}
	return result, nil
}

func (f *fakeQueryStore) ListAllByStatus(ctx context.Context, status domain.QueryStatus) ([]domain.AdminQuery, error) {
	all, err := f.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var result []domain.AdminQuery
	for _, q := range all {
		if q.Status == status {
			result = append(result, q)
		}
	}
	return result, nil
}

func (f *fakeQueryStore) ApplyTransition(_ context.Context, id int64, status domain.QueryStatus, amount *float64, paymentLink *string) (int64, error) {
	row, ok := f.rows[id]
	if !ok {
		return 0, nil
	}
	row.Status = status
	if status == domain.QueryStatusInProgress {
		row.Amount = amount
		row.PaymentLink = paymentLink
	}
	return 1, nil
}

func (f *fakeQueryStore) project(q domain.Query) domain.Query {
	if !q.Status.ExposesPayment() {
		q.Amount = nil
		q.PaymentLink = nil
	}
	return q
}

type fakeAuditStore struct {
	entries []domain.QueryAuditEntry
}

func (f *fakeAuditStore) Create(_ context.Context, entry *domain.QueryAuditEntry) error {
	entry.ID = int64(len(f.entries) + 1)
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditStore) ListByQuery(_ context.Context, queryID int64) ([]domain.QueryAuditEntry, error) {
	var result []domain.QueryAuditEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].QueryID == queryID {
			result = append(result, f.entries[i])
		}
	}
	return result, nil
}

type capturingDispatcher struct {
	published []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func newTestService() (*QueryService, *fakeQueryStore, *fakeAuditStore, *capturingDispatcher) {
	store := newFakeQueryStore()
	audit := &fakeAuditStore{}
	dispatcher := &capturingDispatcher{}
	svc := NewQueryService(QueryDependencies{
		QueryRepo:  store,
		AuditRepo:  audit,
		Engine:     workflow.NewEngine(store),
		Dispatcher: dispatcher,
	})
	return svc, store, audit, dispatcher
}

func TestCreateQuery_RequiresCallerIdentity(t *testing.T) {
	svc, store, _, _ := newTestService()

	_, err := svc.CreateQuery(context.Background(), 0, QueryCreateInput{
		Title: "Refund", QueryType: "billing", Description: "need refund",
	})
	if !errorutil.IsCode(err, "UNAUTHORIZED") {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestCreateQuery_ReportsMissingFields(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateQuery(context.Background(), 7, QueryCreateInput{
		Title: "  ", QueryType: "billing", Description: "",
	})
	if !errorutil.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	domainErr := errorutil.ToDomainError(err)
	missing, ok := domainErr.Details["missing"].([]string)
	if !ok {
		t.Fatalf("details missing field set, got %v", domainErr.Details)
	}
	if len(missing) != 2 || missing[0] != "title" || missing[1] != "description" {
		t.Fatalf("unexpected missing set: %v", missing)
	}
}

func TestCreateQuery_InitialStateIsNewWithoutPaymentData(t *testing.T) {
	svc, store, _, dispatcher := newTestService()

	id, err := svc.CreateQuery(context.Background(), 7, QueryCreateInput{
		Title: "Refund", QueryType: "billing", Description: "need refund",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := store.rows[id]
	if row == nil {
		t.Fatal("record not persisted")
	}
	if row.Status != domain.QueryStatusNew {
		t.Fatalf("initial status = %s", row.Status)
	}
	if row.Amount != nil || row.PaymentLink != nil {
		t.Fatal("new record must not carry payment data")
	}
	if len(dispatcher.published) != 1 || dispatcher.published[0].Type != events.EventQueryCreated {
		t.Fatalf("expected one query_created event, got %v", dispatcher.published)
	}

	second, err := svc.CreateQuery(context.Background(), 7, QueryCreateInput{
		Title: "Another", QueryType: "technical", Description: "details",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second == id {
		t.Fatal("ids must be unique")
	}
}

func TestListMineByStatus_InvalidStatusNeverReachesStore(t *testing.T) {
	svc, store, _, _ := newTestService()

	_, err := svc.ListMineByStatus(context.Background(), 7, "closed")
	if !errorutil.IsCode(err, "INVALID_STATUS") {
		t.Fatalf("expected INVALID_STATUS, got %v", err)
	}
	if store.listed {
		t.Fatal("store must not be queried for an invalid status")
	}
}

func TestListAllByStatus_InvalidStatusNeverReachesStore(t *testing.T) {
	svc, store, _, _ := newTestService()

	_, err := svc.ListAllByStatus(context.Background(), "pending")
	if !errorutil.IsCode(err, "INVALID_STATUS") {
		t.Fatalf("expected INVALID_STATUS, got %v", err)
	}
	if store.listed {
		t.Fatal("store must not be queried for an invalid status")
	}
}

func TestAdminTransition_FullLifecycle(t *testing.T) {
	svc, store, audit, dispatcher := newTestService()
	ctx := context.Background()

	id, err := svc.CreateQuery(ctx, 7, QueryCreateInput{
		Title: "Refund", QueryType: "billing", Description: "need refund",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amount := 49.99
	link := "https://pay/xyz"
	result, err := svc.AdminTransition(ctx, 1, workflow.TransitionInput{
		QueryID: id, Target: "in_progress", Amount: &amount, PaymentLink: &link,
	})
	if err != nil {
		t.Fatalf("in_progress transition: %v", err)
	}
	if result.PaymentLink == nil || *result.PaymentLink != link {
		t.Fatalf("payment link not echoed: %v", result.PaymentLink)
	}
	row := store.rows[id]
	if row.Status != domain.QueryStatusInProgress || row.Amount == nil || *row.Amount != amount {
		t.Fatalf("stored row after in_progress: %+v", row)
	}

	if _, err := svc.AdminTransition(ctx, 1, workflow.TransitionInput{QueryID: id, Target: "resolved"}); err != nil {
		t.Fatalf("resolved transition: %v", err)
	}
	if row.Status != domain.QueryStatusResolved {
		t.Fatalf("status after resolve = %s", row.Status)
	}
	if row.Amount == nil || *row.Amount != amount {
		t.Fatal("resolved must retain the amount captured at in_progress")
	}
	if row.PaymentLink == nil || *row.PaymentLink != link {
		t.Fatal("resolved must retain the payment link captured at in_progress")
	}

	_, err = svc.AdminTransition(ctx, 1, workflow.TransitionInput{QueryID: 999, Target: "in_progress", Amount: &amount, PaymentLink: &link})
	if !errorutil.IsCode(err, "NOT_FOUND") {
		t.Fatalf("expected NOT_FOUND for unknown id, got %v", err)
	}

	if len(audit.entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(audit.entries))
	}
	statusEvents := 0
	for _, event := range dispatcher.published {
		if event.Type == events.EventQueryStatusChanged {
			statusEvents++
		}
	}
	if statusEvents != 2 {
		t.Fatalf("expected 2 status events, got %d", statusEvents)
	}
}

func TestAdminTransition_RequiresAdminIdentity(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.AdminTransition(context.Background(), 0, workflow.TransitionInput{QueryID: 1, Target: "resolved"})
	if !errorutil.IsCode(err, "UNAUTHORIZED") {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestListReads_NeverExposePaymentDataForNewQueries(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.CreateQuery(ctx, 7, QueryCreateInput{
		Title: "Refund", QueryType: "billing", Description: "need refund",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Simulate stale payment columns on a record that moved back to new.
	amount := 20.0
	link := "https://pay/old"
	store.rows[id].Amount = &amount
	store.rows[id].PaymentLink = &link

	mine, err := svc.ListMine(ctx, 7)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].Amount != nil || mine[0].PaymentLink != nil {
		t.Fatalf("owner view leaked payment data: %+v", mine)
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 || all[0].Amount != nil || all[0].PaymentLink != nil {
		t.Fatalf("admin view leaked payment data: %+v", all)
	}
}
