package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/query-desk/internal/domain"
	"github.com/spec-kit/query-desk/internal/events"
	"github.com/spec-kit/query-desk/internal/repository"
	"github.com/spec-kit/query-desk/pkg/util/errorutil"
)

// PaymentService records user payments against queries.
type PaymentService struct {
	payments   repository.PaymentRepository
	dispatcher events.Dispatcher
}

// NewPaymentService constructs the service.
func NewPaymentService(payments repository.PaymentRepository, dispatcher events.Dispatcher) *PaymentService {
	return &PaymentService{payments: payments, dispatcher: dispatcher}
}

// PaymentCreateInput describes a payment submission.
type PaymentCreateInput struct {
	QueryID int64
	Amount  float64
}

// CreatePayment records a payment made by the calling user.
func (s *PaymentService) CreatePayment(ctx context.Context, callerID int64, input PaymentCreateInput) (*domain.Payment, error) {
	if callerID <= 0 {
		return nil, errorutil.NewUnauthorized("caller identity required")
	}
	var missing []string
	if input.QueryID <= 0 {
		missing = append(missing, "query_id")
	}
	if !domain.FiniteAmount(input.Amount) || input.Amount <= 0 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return nil, errorutil.NewValidationError("query_id and a positive amount are required",
			map[string]any{"missing": missing})
	}

	payment := &domain.Payment{
		UserID:    callerID,
		QueryID:   input.QueryID,
		Reference: paymentReference(),
		Amount:    input.Amount,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, errorutil.NewStoreError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPaymentRecorded,
			QueryID:   payment.QueryID,
			Actor:     userActor(callerID),
			Timestamp: time.Now(),
			Payload: events.PaymentRecordedPayload{
				PaymentID: payment.ID,
				Reference: payment.Reference,
				Amount:    payment.Amount,
			},
		})
	}
	return payment, nil
}

// ListPaymentsForUser returns the caller's payments, newest first.
func (s *PaymentService) ListPaymentsForUser(ctx context.Context, callerID int64) ([]domain.Payment, error) {
	if callerID <= 0 {
		return nil, errorutil.NewUnauthorized("caller identity required")
	}
	payments, err := s.payments.ListByUser(ctx, callerID)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return payments, nil
}

// ListAllPayments returns every payment for admin review.
func (s *PaymentService) ListAllPayments(ctx context.Context) ([]domain.Payment, error) {
	payments, err := s.payments.ListAll(ctx)
	if err != nil {
		return nil, errorutil.NewStoreError(err)
	}
	return payments, nil
}

func paymentReference() string {
	return "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
