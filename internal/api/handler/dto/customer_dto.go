package dto

import (
	"customer-registry/internal/domain/customer"
	"customer-registry/internal/pkg/apperrors"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	MsgServerRunning      = "Server is running"
	MsgCustomerAdded      = "Customer added successfully"
	MsgDuplicateAadhar    = "Customer with this Aadhar number already exists"
	MsgInvalidBody        = "Invalid request body"
	MsgMissingFieldPrefix = "Missing required field: "
	MsgInvalidFieldPrefix = "Invalid value for field: "
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("nonzero", func(fl validator.FieldLevel) bool {
		if n, ok := fl.Field().Interface().(Number); ok {
			return !n.IsZero()
		}
		return !fl.Field().IsZero()
	})
	return v
}

// CreateCustomerRequest fields are checked in declaration order; the first
// missing one is reported.
type CreateCustomerRequest struct {
	Name        Text   `json:"name" validate:"required"`
	Address     Text   `json:"address" validate:"required"`
	Aadhar      Text   `json:"aadhar" validate:"required"`
	Phone       Text   `json:"phone" validate:"required"`
	Months      Number `json:"months" validate:"required,nonzero"`
	Amount      Number `json:"amount" validate:"required,nonzero"`
	PaymentDate Text   `json:"payment_date" validate:"required"`
}

func (r *CreateCustomerRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := fieldErrs[0].Field()
		return apperrors.NewValidationError(field, MsgMissingFieldPrefix+field)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}

// ToInput converts a validated request into the domain input.
func (r *CreateCustomerRequest) ToInput() (customer.Input, error) {
	months, err := r.Months.Decimal()
	if err != nil || !months.IsInteger() || months.Abs().GreaterThan(maxMonths) {
		return customer.Input{}, apperrors.NewValidationError("months", MsgInvalidFieldPrefix+"months")
	}
	// ParseFloat reports overflow as ±Inf, which JSON cannot carry back out.
	amount, err := strconv.ParseFloat(string(r.Amount), 64)
	if err != nil || math.IsInf(amount, 0) || math.IsNaN(amount) || amount == 0 {
		return customer.Input{}, apperrors.NewValidationError("amount", MsgInvalidFieldPrefix+"amount")
	}

	return customer.Input{
		Name:        string(r.Name),
		Address:     string(r.Address),
		Aadhar:      string(r.Aadhar),
		Phone:       string(r.Phone),
		Months:      int(months.IntPart()),
		Amount:      amount,
		PaymentDate: string(r.PaymentDate),
	}, nil
}

var maxMonths = decimal.NewFromInt(math.MaxInt32)

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CustomerResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Aadhar      string  `json:"aadhar"`
	Phone       string  `json:"phone"`
	Months      int     `json:"months"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	CreatedAt   string  `json:"created_at"`
}

type CustomerListResponse struct {
	Success   bool               `json:"success"`
	Customers []CustomerResponse `json:"customers"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
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

func NewCustomerListResponse(customers []*customer.Customer) CustomerListResponse {
	resp := CustomerListResponse{
		Success:   true,
		Customers: make([]CustomerResponse, 0, len(customers)),
	}
	for _, cust := range customers {
		resp.Customers = append(resp.Customers, NewCustomerResponse(cust))
	}
	return resp
}
