package handler_test

import (
	"bytes"
	"context"
	"customer-registry/internal/api/handler"
	"customer-registry/internal/api/handler/dto"
	"customer-registry/internal/domain/customer"
	"customer-registry/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerService struct {
	mock.Mock
}

func (_m *MockCustomerService) RegisterCustomer(ctx context.Context, in customer.Input) (*customer.Customer, error) {
	ret := _m.Called(ctx, in)

	var r0 *customer.Customer
	if rf, ok := ret.Get(0).(func(context.Context, customer.Input) *customer.Customer); ok {
		r0 = rf(ctx, in)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*customer.Customer)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, customer.Input) error); ok {
		r1 = rf(ctx, in)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockCustomerService) ListCustomers(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*customer.Customer
	if rf, ok := ret.Get(0).(func(context.Context) []*customer.Customer); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*customer.Customer)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

const validCreateBody = `{"name":"Asha Verma","address":"12 MG Road, Pune","aadhar":"1234-5678-9012",` +
	`"phone":"9876543210","months":12,"amount":50000.5,"payment_date":"2024-04-05"}`

var validInput = customer.Input{
	Name:        "Asha Verma",
	Address:     "12 MG Road, Pune",
	Aadhar:      "1234-5678-9012",
	Phone:       "9876543210",
	Months:      12,
	Amount:      50000.5,
	PaymentDate: "2024-04-05",
}

func newTestHandler() (*handler.CustomerHandler, *MockCustomerService) {
	mockService := new(MockCustomerService)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return handler.NewCustomerHandler(mockService, logger), mockService
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) dto.MessageResponse {
	t.Helper()
	var resp dto.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNewCustomerHandlerPanicsOnNil(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Panics(t, func() { handler.NewCustomerHandler(nil, logger) })
	assert.Panics(t, func() { handler.NewCustomerHandler(new(MockCustomerService), nil) })
}

func TestCreateCustomer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("RegisterCustomer", mock.Anything, validInput).
			Return(&customer.Customer{ID: 1, Name: validInput.Name}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(validCreateBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		h.CreateCustomer(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"success":true,"message":"Customer added successfully"}`, rec.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("RegisterCustomer", mock.Anything, validInput).
			Return(&customer.Customer{ID: 2}, nil).Once()

		body := strings.TrimSuffix(validCreateBody, "}") + `,"id":99,"created_at":"1999-01-01T00:00:00.000000","nickname":"A"}`
		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.CreateCustomer(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("missing field", func(t *testing.T) {
		h, mockService := newTestHandler()
		body := `{"name":"Asha","address":"Pune","aadhar":"1","phone":"2","months":0,"amount":5,"payment_date":"2024-04-05"}`
		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.CreateCustomer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.MessageResponse{Success: false, Message: "Missing required field: months"}, decodeMessage(t, rec))
		mockService.AssertNotCalled(t, "RegisterCustomer", mock.Anything, mock.Anything)
	})

	t.Run("fractional months", func(t *testing.T) {
		h, mockService := newTestHandler()
		body := `{"name":"Asha","address":"Pune","aadhar":"1","phone":"2","months":1.5,"amount":5,"payment_date":"2024-04-05"}`
		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.CreateCustomer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid value for field: months", decodeMessage(t, rec).Message)
		mockService.AssertNotCalled(t, "RegisterCustomer", mock.Anything, mock.Anything)
	})

	malformed := map[string]string{
		"not json":          `name=Asha`,
		"empty body":        ``,
		"array":             `[1,2,3]`,
		"non numeric month": `{"months":"twelve"}`,
		"truncated":         `{"name":"Asha"`,
		"trailing garbage":  validCreateBody + ` xyz`,
		"two objects":       validCreateBody + validCreateBody,
		"huge exponent":     `{"name":"n","address":"a","aadhar":"b","phone":"c","months":1,"amount":1e200000000,"payment_date":"d"}`,
	}
	for name, body := range malformed {
		t.Run("malformed body: "+name, func(t *testing.T) {
			h, mockService := newTestHandler()
			req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
			rec := httptest.NewRecorder()

			h.CreateCustomer(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, dto.MessageResponse{Success: false, Message: "Invalid request body"}, decodeMessage(t, rec))
			mockService.AssertNotCalled(t, "RegisterCustomer", mock.Anything, mock.Anything)
		})
	}

	t.Run("duplicate aadhar", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("RegisterCustomer", mock.Anything, validInput).
			Return(nil, customer.ErrDuplicateAadhar).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(validCreateBody))
		rec := httptest.NewRecorder()

		h.CreateCustomer(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.MessageResponse{Success: false, Message: "Customer with this Aadhar number already exists"}, decodeMessage(t, rec))
		mockService.AssertExpectations(t)
	})

	t.Run("storage unavailable", func(t *testing.T) {
		h, mockService := newTestHandler()
		storageErr := apperrors.WrapStorageUnavailable(errors.New("unable to open database file"), "failed to insert customer")
		mockService.On("RegisterCustomer", mock.Anything, validInput).
			Return(nil, fmt.Errorf("failed to save new customer: %w", storageErr)).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(validCreateBody))
		rec := httptest.NewRecorder()

		h.CreateCustomer(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Server error: storage unavailable", decodeMessage(t, rec).Message)
	})

	t.Run("internal error text is not leaked", func(t *testing.T) {
		h, mockService := newTestHandler()
		dbErr := apperrors.WrapDatabaseError(errors.New("no such column: secret_col"), "failed to insert customer")
		mockService.On("RegisterCustomer", mock.Anything, validInput).Return(nil, dbErr).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(validCreateBody))
		rec := httptest.NewRecorder()

		h.CreateCustomer(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeMessage(t, rec)
		assert.False(t, resp.Success)
		assert.Equal(t, "Server error: internal error", resp.Message)
		assert.NotContains(t, rec.Body.String(), "secret_col")
	})
}

func TestListCustomers(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, mockService := newTestHandler()
		customers := []*customer.Customer{
			{ID: 2, Name: "B", Address: "b", Aadhar: "2", Phone: "p2", Months: 6, Amount: 10, PaymentDate: "d2", CreatedAt: "2024-03-02T00:00:00.000000"},
			{ID: 1, Name: "A", Address: "a", Aadhar: "1", Phone: "p1", Months: 3, Amount: 5.25, PaymentDate: "d1", CreatedAt: "2024-03-01T00:00:00.000000"},
		}
		mockService.On("ListCustomers", mock.Anything).Return(customers, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
		rec := httptest.NewRecorder()

		h.ListCustomers(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.CustomerListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, resp.Customers, 2)
		assert.Equal(t, int64(2), resp.Customers[0].ID)
		assert.Equal(t, 5.25, resp.Customers[1].Amount)
		mockService.AssertExpectations(t)
	})

	t.Run("empty", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("ListCustomers", mock.Anything).Return([]*customer.Customer{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
		rec := httptest.NewRecorder()

		h.ListCustomers(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"customers":[]}`, rec.Body.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		h, mockService := newTestHandler()
		mockService.On("ListCustomers", mock.Anything).
			Return(nil, apperrors.WrapStorageUnavailable(errors.New("database is locked"), "failed to list customers")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
		rec := httptest.NewRecorder()

		h.ListCustomers(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, dto.MessageResponse{Success: false, Message: "Server error: storage unavailable"}, decodeMessage(t, rec))
	})
}

func TestStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()

	handler.Status(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Server is running"}`, rec.Body.String())
}
