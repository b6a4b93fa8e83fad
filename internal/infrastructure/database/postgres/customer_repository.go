package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"customer-registry/internal/domain/customer"
	"customer-registry/internal/infrastructure/monitoring"
	"customer-registry/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

const createCustomersTable = `
        CREATE TABLE IF NOT EXISTS customers (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            address TEXT NOT NULL,
            aadhar TEXT NOT NULL UNIQUE,
            phone TEXT NOT NULL,
            months INTEGER NOT NULL,
            amount DOUBLE PRECISION NOT NULL,
            payment_date TEXT NOT NULL,
            created_at TEXT NOT NULL
        )`

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "PostgresCustomerRepository"),
	}
}

func (r *CustomerRepository) Initialize(ctx context.Context) error {
	r.logger.InfoContext(ctx, "Ensuring customers table exists")

	if _, err := r.db.Exec(ctx, createCustomersTable); err != nil {
		r.logger.ErrorContext(ctx, "Failed to create customers table", slog.Any("error", err))
		return fmt.Errorf("failed to create customers table: %w", translateDBError(err, r.logger))
	}
	return nil
}

func (r *CustomerRepository) FindByAadhar(ctx context.Context, aadhar string) (cust *customer.Customer, err error) {
	defer func(start time.Time) { monitoring.RecordDBQuery("find_customer_by_aadhar", err, start) }(time.Now())

	r.logger.DebugContext(ctx, "Attempting to find customer by aadhar")

	query := `
        SELECT id, name, address, aadhar, phone, months, amount, payment_date, created_at
        FROM customers
        WHERE aadhar = $1`

	cust, err = scanCustomer(r.db.QueryRow(ctx, query, aadhar))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.DebugContext(ctx, "No customer with this aadhar")
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by aadhar", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer by aadhar: %w", translateDBError(err, r.logger))
	}

	r.logger.DebugContext(ctx, "Customer found by aadhar", slog.Int64("customerID", cust.ID))
	return cust, nil
}

func (r *CustomerRepository) Insert(ctx context.Context, cust *customer.Customer) (id int64, err error) {
	if cust == nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrInvalidArgument, customer.ErrNilCustomer)
	}
	defer func(start time.Time) { monitoring.RecordDBQuery("insert_customer", err, start) }(time.Now())

	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("name", cust.Name))

	query := `
        INSERT INTO customers (name, address, aadhar, phone, months, amount, payment_date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`

	err = r.db.QueryRow(ctx, query,
		cust.Name,
		cust.Address,
		cust.Aadhar,
		cust.Phone,
		cust.Months,
		cust.Amount,
		cust.PaymentDate,
		cust.CreatedAt,
	).Scan(&id)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation")
			return 0, translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return 0, fmt.Errorf("failed to insert customer: %w", translatedErr)
	}
	cust.ID = id

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", id))
	return id, nil
}

func (r *CustomerRepository) ListAll(ctx context.Context) (customers []*customer.Customer, err error) {
	defer func(start time.Time) { monitoring.RecordDBQuery("list_customers", err, start) }(time.Now())

	r.logger.DebugContext(ctx, "Attempting to list all customers")

	query := `
        SELECT id, name, address, aadhar, phone, months, amount, payment_date, created_at
        FROM customers
        ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to query customers: %w", translateDBError(err, r.logger))
	}
	defer rows.Close()

	customers = make([]*customer.Customer, 0)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, fmt.Errorf("error iterating customer rows: %w", translateDBError(err, r.logger))
	}

	r.logger.DebugContext(ctx, "Finished listing customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) Close() error {
	r.logger.Info("Closing database connection pool...")
	r.db.Close()
	return nil
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var cust customer.Customer
	err := row.Scan(
		&cust.ID,
		&cust.Name,
		&cust.Address,
		&cust.Aadhar,
		&cust.Phone,
		&cust.Months,
		&cust.Amount,
		&cust.PaymentDate,
		&cust.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cust, nil
}
