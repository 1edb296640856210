package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"coworking-booking/internal/dto/request"
	"coworking-booking/internal/usecase"
	"coworking-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// identity extracts the caller's user ID and role placed in the context by
// the identity middleware.
func (h *BookingHandler) identity(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, "", false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return userID, role, true
}

// CreateBooking handles POST /api/booking (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		h.log.Warn("Booking request validation failed",
			zap.String("errors", utils.FormatValidationErrors(validationErrors)))
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.identity(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID, page)
	if err != nil {
		h.handleServiceError(w, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByRef handles GET /api/booking/{ref} (protected)
func (h *BookingHandler) GetBookingByRef(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.identity(w, r)
	if !ok {
		return
	}

	ref := chi.URLParam(r, "ref")
	if ref == "" {
		utils.ResponseBadRequest(w, "Booking reference is required", nil)
		return
	}

	booking, err := h.service.GetBookingByRef(r.Context(), userID, role, ref)
	if err != nil {
		h.handleServiceError(w, err, "get booking by ref")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetTimeStatus handles GET /api/booking/{ref}/time (protected)
func (h *BookingHandler) GetTimeStatus(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.identity(w, r)
	if !ok {
		return
	}

	ref := chi.URLParam(r, "ref")
	if ref == "" {
		utils.ResponseBadRequest(w, "Booking reference is required", nil)
		return
	}

	status, err := h.service.TimeStatus(r.Context(), userID, role, ref)
	if err != nil {
		h.handleServiceError(w, err, "get time status")
		return
	}

	utils.ResponseSuccess(w, "success", status)
}

// CheckIn handles POST /api/booking/{ref}/checkin (protected)
func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.identity(w, r)
	if !ok {
		return
	}

	ref := chi.URLParam(r, "ref")
	if ref == "" {
		utils.ResponseBadRequest(w, "Booking reference is required", nil)
		return
	}

	booking, err := h.service.CheckIn(r.Context(), userID, role, ref)
	if err != nil {
		h.handleServiceError(w, err, "check in booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CheckOut handles POST /api/booking/{ref}/checkout (protected)
func (h *BookingHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.identity(w, r)
	if !ok {
		return
	}

	ref := chi.URLParam(r, "ref")
	if ref == "" {
		utils.ResponseBadRequest(w, "Booking reference is required", nil)
		return
	}

	// The body is optional when no extra time is owed.
	var req request.CheckOutRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CheckOut(r.Context(), userID, role, ref, &req)
	if err != nil {
		h.handleServiceError(w, err, "check out booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/booking/{ref}/cancel (protected)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.identity(w, r)
	if !ok {
		return
	}

	ref := chi.URLParam(r, "ref")
	if ref == "" {
		utils.ResponseBadRequest(w, "Booking reference is required", nil)
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), userID, role, ref)
	if err != nil {
		h.handleServiceError(w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// handleServiceError maps service errors to HTTP responses.
func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrForbidden):
		h.log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidWindow):
		h.log.Warn(operation+" failed - invalid window", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInsufficientCapacity):
		h.log.Warn(operation+" failed - insufficient capacity", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidTransition):
		h.log.Warn(operation+" failed - invalid transition", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrExtraPaymentRequired):
		h.log.Warn(operation+" failed - extra payment required", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrStoreConflict):
		h.log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
