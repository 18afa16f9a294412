package workflow

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/spec-kit/query-desk/internal/domain"
	"github.com/spec-kit/query-desk/pkg/util/errorutil"
)

type fakeStore struct {
	applied     bool
	id          int64
	status      domain.QueryStatus
	amount      *float64
	paymentLink *string

	affected int64
	err      error
}

func (f *fakeStore) ApplyTransition(_ context.Context, id int64, status domain.QueryStatus, amount *float64, paymentLink *string) (int64, error) {
	f.applied = true
	f.id = id
	f.status = status
	f.amount = amount
	f.paymentLink = paymentLink
	return f.affected, f.err
}

func float64Ptr(v float64) *float64 { return &v }
func strPtr(v string) *string       { return &v }

func TestTransition_InvalidStatusRejectedBeforeStore(t *testing.T) {
	store := &fakeStore{affected: 1}
	engine := NewEngine(store)

	for _, target := range []string{"", "closed", "NEW", "In_Progress", "done"} {
		_, err := engine.Transition(context.Background(), TransitionInput{QueryID: 1, Target: target})
		if !errorutil.IsCode(err, "INVALID_STATUS") {
			t.Errorf("target %q: expected INVALID_STATUS, got %v", target, err)
		}
	}
	if store.applied {
		t.Fatal("store must not be touched for invalid statuses")
	}
}

func TestTransition_NewIsNotAnAdminAction(t *testing.T) {
	store := &fakeStore{affected: 1}
	engine := NewEngine(store)

	_, err := engine.Transition(context.Background(), TransitionInput{QueryID: 1, Target: "new"})
	if !errorutil.IsCode(err, "UNSUPPORTED_TRANSITION") {
		t.Fatalf("expected UNSUPPORTED_TRANSITION, got %v", err)
	}
	if store.applied {
		t.Fatal("store must not be touched")
	}
}

func TestTransition_InProgressRequiresPaymentData(t *testing.T) {
	cases := []struct {
		name   string
		amount *float64
		link   *string
	}{
		{"both missing", nil, nil},
		{"amount missing", nil, strPtr("https://pay/xyz")},
		{"link missing", float64Ptr(49.99), nil},
		{"link blank", float64Ptr(49.99), strPtr("   ")},
		{"amount NaN", float64Ptr(math.NaN()), strPtr("https://pay/xyz")},
		{"amount Inf", float64Ptr(math.Inf(1)), strPtr("https://pay/xyz")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{affected: 1}
			engine := NewEngine(store)
			_, err := engine.Transition(context.Background(), TransitionInput{
				QueryID:     1,
				Target:      "in_progress",
				Amount:      tc.amount,
				PaymentLink: tc.link,
			})
			if !errorutil.IsCode(err, "MISSING_TRANSITION_DATA") {
				t.Fatalf("expected MISSING_TRANSITION_DATA, got %v", err)
			}
			if store.applied {
				t.Fatal("store must not be touched")
			}
		})
	}
}

func TestTransition_InProgressWritesPaymentData(t *testing.T) {
	store := &fakeStore{affected: 1}
	engine := NewEngine(store)

	result, err := engine.Transition(context.Background(), TransitionInput{
		QueryID:     7,
		Target:      "in_progress",
		Amount:      float64Ptr(49.99),
		PaymentLink: strPtr("https://pay/xyz"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.id != 7 || store.status != domain.QueryStatusInProgress {
		t.Fatalf("store received id=%d status=%s", store.id, store.status)
	}
	if store.amount == nil || *store.amount != 49.99 {
		t.Fatalf("store amount = %v", store.amount)
	}
	if store.paymentLink == nil || *store.paymentLink != "https://pay/xyz" {
		t.Fatalf("store payment link = %v", store.paymentLink)
	}
	if result.PaymentLink == nil || *result.PaymentLink != "https://pay/xyz" {
		t.Fatalf("result must echo the payment link, got %v", result.PaymentLink)
	}
}

func TestTransition_ResolvedIgnoresSuppliedPaymentFields(t *testing.T) {
	store := &fakeStore{affected: 1}
	engine := NewEngine(store)

	result, err := engine.Transition(context.Background(), TransitionInput{
		QueryID:     3,
		Target:      "resolved",
		Amount:      float64Ptr(10),
		PaymentLink: strPtr("https://pay/ignored"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.amount != nil || store.paymentLink != nil {
		t.Fatal("resolved must not forward payment fields to the store")
	}
	if result.Amount != nil || result.PaymentLink != nil {
		t.Fatal("resolved result must not echo payment fields")
	}
	if result.Status != domain.QueryStatusResolved {
		t.Fatalf("result status = %s", result.Status)
	}
}

func TestTransition_ZeroRowsIsNotFound(t *testing.T) {
	store := &fakeStore{affected: 0}
	engine := NewEngine(store)

	_, err := engine.Transition(context.Background(), TransitionInput{QueryID: 999, Target: "resolved"})
	if !errorutil.IsCode(err, "NOT_FOUND") {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestTransition_StoreFailureIsStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	engine := NewEngine(store)

	_, err := engine.Transition(context.Background(), TransitionInput{QueryID: 1, Target: "resolved"})
	if !errorutil.IsCode(err, "STORE_ERROR") {
		t.Fatalf("expected STORE_ERROR, got %v", err)
	}
}

func TestProject_StripsPaymentFieldsByStatus(t *testing.T) {
	amount := 12.5
	link := "https://pay/abc"

	q := domain.Query{Status: domain.QueryStatusNew, Amount: &amount, PaymentLink: &link}
	projected := Project(q)
	if projected.Amount != nil || projected.PaymentLink != nil {
		t.Fatal("new status must not expose payment fields")
	}

	for _, status := range []domain.QueryStatus{domain.QueryStatusInProgress, domain.QueryStatusResolved} {
		q.Status = status
		projected = Project(q)
		if projected.Amount == nil || projected.PaymentLink == nil {
			t.Fatalf("status %s must keep payment fields", status)
		}
	}
}
