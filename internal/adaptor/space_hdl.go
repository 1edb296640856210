package adaptor

import (
	"net/http"
	"strings"
	"time"

	"coworking-booking/internal/usecase"
	"coworking-booking/pkg/utils"

	"go.uber.org/zap"
)

type SpaceHandler struct {
	service usecase.SpaceService
	log     *zap.Logger
}

func NewSpaceHandler(service usecase.SpaceService, log *zap.Logger) *SpaceHandler {
	return &SpaceHandler{
		service: service,
		log:     log.With(zap.String("handler", "space")),
	}
}

// parseWindow reads the optional start/end query parameters. Both absent
// means "today"; the service fills in the default window.
func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	var start, end time.Time

	query := r.URL.Query()
	if raw := query.Get("start"); raw != "" {
		parsed, err := utils.ParseInstant(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}
	if raw := query.Get("end"); raw != "" {
		parsed, err := utils.ParseInstant(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}

	return start, end, nil
}

// GetAvailability handles GET /api/spaces/availability (public)
func (h *SpaceHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	spaceType := r.URL.Query().Get("space_type")
	if spaceType == "" {
		utils.ResponseBadRequest(w, "space_type is required", nil)
		return
	}

	start, end, err := parseWindow(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid start or end instant", nil)
		return
	}

	availability, err := h.service.Availability(r.Context(), spaceType, start, end)
	if err != nil {
		if strings.Contains(err.Error(), "unknown space type") {
			utils.ResponseBadRequest(w, err.Error(), nil)
			return
		}
		h.log.Error("Failed to get availability",
			zap.Error(err),
			zap.String("space_type", spaceType),
		)
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// GetStats handles GET /api/spaces/stats (public)
func (h *SpaceHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid start or end instant", nil)
		return
	}

	stats, err := h.service.AllSpaceStats(r.Context(), start, end)
	if err != nil {
		h.log.Error("Failed to get space stats", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// GetCounters handles GET /api/spaces/counters (public)
func (h *SpaceHandler) GetCounters(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.CounterSnapshot(r.Context())
	if err != nil {
		h.log.Error("Failed to get counter snapshot", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "success", snapshot)
}
