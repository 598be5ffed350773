package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tempohr/tempo-backend-go/internal/domain/overtime"
	"github.com/tempohr/tempo-backend-go/internal/domain/shift"
	"github.com/tempohr/tempo-backend-go/internal/handler/http/middleware"
	"github.com/tempohr/tempo-backend-go/internal/handler/http/response"
	"github.com/tempohr/tempo-backend-go/internal/pkg/validator"
)

type ScheduleHandler interface {
	CreateShift(w http.ResponseWriter, r *http.Request)
	ListShifts(w http.ResponseWriter, r *http.Request)
	AssignShift(w http.ResponseWriter, r *http.Request)
	MyEffectiveShift(w http.ResponseWriter, r *http.Request)

	RequestAdjustment(w http.ResponseWriter, r *http.Request)
	ReviewAdjustment(w http.ResponseWriter, r *http.Request)

	RequestOvertime(w http.ResponseWriter, r *http.Request)
	ReviewOvertime(w http.ResponseWriter, r *http.Request)
	ListMyOvertime(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService shift.ScheduleService
	overtimeService overtime.OvertimeService
}

func NewScheduleHandler(scheduleService shift.ScheduleService, overtimeService overtime.OvertimeService) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
		overtimeService: overtimeService,
	}
}

// CreateShift implements ScheduleHandler.
func (h *scheduleHandlerImpl) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = middleware.CompanyID(r)

	created, err := h.scheduleService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created", shift.ToShiftResponse(created))
}

// ListShifts implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.scheduleService.ListShifts(r.Context(), middleware.CompanyID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]shift.ShiftResponse, 0, len(shifts))
	for _, def := range shifts {
		out = append(out, shift.ToShiftResponse(def))
	}

	response.Success(w, out)
}

// AssignShift implements ScheduleHandler.
func (h *scheduleHandlerImpl) AssignShift(w http.ResponseWriter, r *http.Request) {
	var req shift.AssignShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.scheduleService.AssignShift(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assigned", nil)
}

// MyEffectiveShift implements ScheduleHandler. Defaults to today.
func (h *scheduleHandlerImpl) MyEffectiveShift(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "date must be YYYY-MM-DD", nil)
			return
		}
		day = parsed
	}

	eff, err := h.scheduleService.EffectiveShift(r.Context(), middleware.EmployeeID(r), day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shift.ToEffectiveShiftResponse(eff))
}

// RequestAdjustment implements ScheduleHandler.
func (h *scheduleHandlerImpl) RequestAdjustment(w http.ResponseWriter, r *http.Request) {
	var req shift.AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = middleware.EmployeeID(r)

	adj, err := h.scheduleService.RequestAdjustment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Adjustment requested", adj)
}

// ReviewAdjustment implements ScheduleHandler.
func (h *scheduleHandlerImpl) ReviewAdjustment(w http.ResponseWriter, r *http.Request) {
	var req shift.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ReviewedBy = middleware.EmployeeID(r)

	adj, err := h.scheduleService.ReviewAdjustment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment reviewed", adj)
}

// RequestOvertime implements ScheduleHandler.
func (h *scheduleHandlerImpl) RequestOvertime(w http.ResponseWriter, r *http.Request) {
	var req overtime.WindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.EmployeeID == "" {
		req.EmployeeID = middleware.EmployeeID(r)
	}

	window, err := h.overtimeService.RequestWindow(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime requested", overtime.ToWindowResponse(window))
}

// ReviewOvertime implements ScheduleHandler.
func (h *scheduleHandlerImpl) ReviewOvertime(w http.ResponseWriter, r *http.Request) {
	var req shift.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ReviewedBy = middleware.EmployeeID(r)

	window, err := h.overtimeService.ReviewWindow(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime reviewed", overtime.ToWindowResponse(window))
}

// ListMyOvertime implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListMyOvertime(w http.ResponseWriter, r *http.Request) {
	from, okFrom := validator.IsValidDate(r.URL.Query().Get("from"))
	to, okTo := validator.IsValidDate(r.URL.Query().Get("to"))
	if !okFrom || !okTo {
		response.BadRequest(w, "from and to must be YYYY-MM-DD", nil)
		return
	}

	windows, err := h.overtimeService.ListWindows(r.Context(), middleware.EmployeeID(r), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]overtime.WindowResponse, 0, len(windows))
	for _, window := range windows {
		out = append(out, overtime.ToWindowResponse(window))
	}

	response.Success(w, out)
}
