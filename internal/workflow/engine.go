package workflow

import (
	"context"
	"strings"

	"github.com/spec-kit/query-desk/internal/domain"
	"github.com/spec-kit/query-desk/pkg/util/errorutil"
)

// TransitionStore is the narrow persistence surface the engine drives.
// ApplyTransition returns the number of rows the conditional update matched.
type TransitionStore interface {
	ApplyTransition(ctx context.Context, id int64, status domain.QueryStatus, amount *float64, paymentLink *string) (int64, error)
}

// Engine validates and applies status transitions on queries.
type Engine struct {
	store TransitionStore
}

// NewEngine constructs the engine.
func NewEngine(store TransitionStore) *Engine {
	return &Engine{store: store}
}

// TransitionInput carries an admin's requested status change.
type TransitionInput struct {
	QueryID     int64
	Target      string
	Amount      *float64
	PaymentLink *string
}

// TransitionResult reports an applied transition. PaymentLink is echoed only
// when the target status captured payment data.
type TransitionResult struct {
	QueryID     int64
	Status      domain.QueryStatus
	Amount      *float64
	PaymentLink *string
}

// Transition validates the requested target and its payload, then applies the
// update through the store. A zero-row update is reported as not found.
func (e *Engine) Transition(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	target, ok := domain.ParseQueryStatus(input.Target)
	if !ok {
		return nil, errorutil.NewInvalidStatus(input.Target)
	}

	r := transitionRules[target]
	if !r.adminInitiable {
		return nil, errorutil.NewUnsupportedTransition(input.Target)
	}

	amount := input.Amount
	paymentLink := input.PaymentLink
	if r.requiresPayment {
		var missing []string
		if amount == nil || !domain.FiniteAmount(*amount) {
			missing = append(missing, "amount")
		}
		if paymentLink == nil || strings.TrimSpace(*paymentLink) == "" {
			missing = append(missing, "payment_link")
		}
		if len(missing) > 0 {
			return nil, errorutil.NewMissingTransitionData(missing...)
		}
	} else {
		// Targets without a payment requirement ignore any supplied fields;
		// the stored values are left untouched by the status-only update.
		amount = nil
		paymentLink = nil
	}

	affected, err := e.store.ApplyTransition(ctx, input.QueryID, target, amount, paymentLink)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	if affected == 0 {
		return nil, errorutil.NewNotFound("query", map[string]any{"query_id": input.QueryID})
	}

	result := &TransitionResult{
		QueryID: input.QueryID,
		Status:  target,
	}
	if r.requiresPayment {
		result.Amount = amount
		result.PaymentLink = paymentLink
	}
	return result, nil
}

// Project strips payment fields from a query unless its status exposes them.
// Applied at every read path on top of the repository's SQL projection.
func Project(q domain.Query) domain.Query {
	if !q.Status.ExposesPayment() {
		q.Amount = nil
		q.PaymentLink = nil
	}
	return q
}

// ProjectAdmin applies the projection rule to an admin view row.
func ProjectAdmin(q domain.AdminQuery) domain.AdminQuery {
	q.Query = Project(q.Query)
	return q
}
