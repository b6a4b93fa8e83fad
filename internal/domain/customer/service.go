package customer

import (
	"context"
	"customer-registry/internal/event"
	"customer-registry/internal/infrastructure/monitoring"
	"customer-registry/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

type CustomerService interface {
	RegisterCustomer(ctx context.Context, in Input) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   Repository
	pub    event.EventPublisher
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*customerService)

// WithClock replaces time.Now as the source of created_at.
func WithClock(now func() time.Time) Option {
	return func(s *customerService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithEventPublisher(pub event.EventPublisher) Option {
	return func(s *customerService) {
		if pub != nil {
			s.pub = pub
		}
	}
}

func NewCustomerService(repo Repository, logger *slog.Logger, opts ...Option) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	s := &customerService{
		repo:   repo,
		pub:    event.NoopPublisher{},
		now:    time.Now,
		logger: logger.With(slog.String("component", "customerService")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		ID:          cust.ID,
		Name:        cust.Name,
		Address:     cust.Address,
		Aadhar:      cust.Aadhar,
		Phone:       cust.Phone,
		Months:      cust.Months,
		Amount:      cust.Amount,
		PaymentDate: cust.PaymentDate,
		CreatedAt:   cust.CreatedAt,
	}
}

func (s *customerService) RegisterCustomer(ctx context.Context, in Input) (*Customer, error) {
	logger := s.logger.With(slog.String("aadhar", in.Aadhar))
	logger.InfoContext(ctx, "Attempting to register customer")

	existing, err := s.repo.FindByAadhar(ctx, in.Aadhar)
	if err != nil {
		logger.ErrorContext(ctx, "Repository failed to look up aadhar", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check existing customer: %w", err)
	}
	if existing != nil {
		logger.WarnContext(ctx, "Customer with this aadhar already exists", slog.Int64("existingID", existing.ID))
		monitoring.RecordDuplicateAadhar()
		return nil, ErrDuplicateAadhar
	}

	cust := NewCustomer(in, s.now())

	logger.DebugContext(ctx, "Calling repository Insert", slog.String("createdAt", cust.CreatedAt))
	id, err := s.repo.Insert(ctx, cust)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			// Lost the race against a concurrent insert of the same aadhar.
			logger.WarnContext(ctx, "Insert rejected by unique constraint", slog.Any("error", err))
			monitoring.RecordDuplicateAadhar()
			return nil, ErrDuplicateAadhar
		}
		logger.ErrorContext(ctx, "Repository failed to insert customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}
	cust.ID = id

	logger = logger.With(slog.Int64("customerID", cust.ID))
	monitoring.RecordCustomerRegistered()

	createdEvent := event.CustomerCreatedEvent{
		Timestamp: s.now(),
		Payload:   NewCustomerEventPayload(cust),
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, createdEvent); pubErr != nil {
		logger.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	logger.InfoContext(ctx, "Successfully registered customer")
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.DebugContext(ctx, "Calling repository ListAll")

	customers, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to list customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Listed customers", slog.Int("count", len(customers)))
	return customers, nil
}
