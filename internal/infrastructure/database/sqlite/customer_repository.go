package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"customer-registry/internal/domain/customer"
	"customer-registry/internal/infrastructure/monitoring"
	"customer-registry/internal/pkg/apperrors"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const createCustomersTable = `
CREATE TABLE IF NOT EXISTS customers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    address TEXT NOT NULL,
    aadhar TEXT NOT NULL UNIQUE,
    phone TEXT NOT NULL,
    months INTEGER NOT NULL,
    amount REAL NOT NULL,
    payment_date TEXT NOT NULL,
    created_at TEXT NOT NULL
)`

const selectCustomerColumns = `
SELECT id, name, address, aadhar, phone, months, amount, payment_date, created_at
FROM customers`

type CustomerRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerRepository)(nil)

func NewCustomerRepository(db *sql.DB, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("sql.DB cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "SQLiteCustomerRepository"),
	}
}

func (r *CustomerRepository) Initialize(ctx context.Context) error {
	r.logger.InfoContext(ctx, "Ensuring customers table exists")

	if _, err := r.db.ExecContext(ctx, createCustomersTable); err != nil {
		r.logger.ErrorContext(ctx, "Failed to create customers table", slog.Any("error", err))
		return fmt.Errorf("failed to create customers table: %w", translateDBError(err, r.logger))
	}
	return nil
}

func (r *CustomerRepository) FindByAadhar(ctx context.Context, aadhar string) (cust *customer.Customer, err error) {
	defer func(start time.Time) { monitoring.RecordDBQuery("find_customer_by_aadhar", err, start) }(time.Now())

	r.logger.DebugContext(ctx, "Attempting to find customer by aadhar")

	row := r.db.QueryRowContext(ctx, selectCustomerColumns+` WHERE aadhar = ?`, aadhar)
	cust, err = scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		cust.Name,
		cust.Address,
		cust.Aadhar,
		cust.Phone,
		cust.Months,
		cust.Amount,
		cust.PaymentDate,
		cust.CreatedAt,
	)
	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation")
			return 0, translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return 0, fmt.Errorf("failed to insert customer: %w", translatedErr)
	}

	id, err = res.LastInsertId()
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to read inserted customer id", slog.Any("error", err))
		return 0, fmt.Errorf("%w: failed to read inserted customer id: %w", apperrors.ErrDatabase, err)
	}
	cust.ID = id

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", id))
	return id, nil
}

func (r *CustomerRepository) ListAll(ctx context.Context) (customers []*customer.Customer, err error) {
	defer func(start time.Time) { monitoring.RecordDBQuery("list_customers", err, start) }(time.Now())

	r.logger.DebugContext(ctx, "Attempting to list all customers")

	rows, err := r.db.QueryContext(ctx, selectCustomerColumns+` ORDER BY created_at DESC, id DESC`)
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
	r.logger.Info("Closing SQLite database...")
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*customer.Customer, error) {
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

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		switch code {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			contextLogger.Warn("Database unique constraint violation", "code", code)
			return fmt.Errorf("%w: customers.aadhar", apperrors.ErrAlreadyExists)
		}
		switch code & 0xff {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED, sqlite3lib.SQLITE_CANTOPEN,
			sqlite3lib.SQLITE_IOERR, sqlite3lib.SQLITE_READONLY, sqlite3lib.SQLITE_FULL:
			contextLogger.Error("SQLite storage unavailable", "code", code, "error", err)
			return apperrors.WrapStorageUnavailable(err, "sqlite storage unavailable")
		}
		contextLogger.Error("SQLite specific error", "code", code, "error", err)
		return fmt.Errorf("%w: sqlite error code %d", apperrors.ErrDatabase, code)
	}

	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return apperrors.WrapStorageUnavailable(err, "sqlite handle closed")
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.WrapStorageUnavailable(err, "sqlite operation interrupted")
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf("%w: %w", apperrors.ErrDatabase, err)
}
