package handler

import (
	"customer-registry/internal/api/handler/dto"
	"customer-registry/internal/domain/customer"
	"customer-registry/internal/pkg/apperrors"
	"log/slog"
	"net/http"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// CreateCustomer handles POST /api/customers
// @Summary Register a new customer
// @Description Stores a customer record. All seven fields are required and aadhar must be unique.
// @Description months and amount accept JSON numbers or numeric strings.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer registration request"
// @Success 200 {object} dto.MessageResponse "Customer added successfully"
// @Failure 400 {object} dto.MessageResponse "Malformed body, missing field or duplicate aadhar"
// @Failure 500 {object} dto.MessageResponse "Internal server error"
// @Failure 503 {object} dto.MessageResponse "Storage unavailable"
// @Router /api/customers [post]
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CreateCustomerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}
	h.logger.DebugContext(r.Context(), "Request validation passed")

	created, err := h.service.RegisterCustomer(r.Context(), in)
	if err != nil {
		level := slog.LevelError
		if apperrors.KindOf(err) == apperrors.KindConflict {
			level = slog.LevelWarn
		}
		h.logger.Log(r.Context(), level, "Service failed to register customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.Int64("customerID", created.ID))
	respondJSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: dto.MsgCustomerAdded})
}

// ListCustomers handles GET /api/customers
// @Summary List customers
// @Description Returns every stored customer, most recently created first.
// @Tags Customers
// @Produce json
// @Success 200 {object} dto.CustomerListResponse "List of customers"
// @Failure 500 {object} dto.MessageResponse "Internal server error"
// @Failure 503 {object} dto.MessageResponse "Storage unavailable"
// @Router /api/customers [get]
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received list customers request")

	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerListResponse(customers)
	h.logger.InfoContext(r.Context(), "Customers listed successfully", slog.Int("count", len(resp.Customers)))
	respondJSON(w, http.StatusOK, resp)
}
