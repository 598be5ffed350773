package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tempohr/tempo-backend-go/internal/domain/attendance"
	"github.com/tempohr/tempo-backend-go/internal/handler/http/middleware"
	"github.com/tempohr/tempo-backend-go/internal/handler/http/response"
	"github.com/tempohr/tempo-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	DaySummary(w http.ResponseWriter, r *http.Request)
	ListMyEvents(w http.ResponseWriter, r *http.Request)
	Correct(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	ledger attendance.Ledger
}

func NewAttendanceHandler(ledger attendance.Ledger) AttendanceHandler {
	return &attendanceHandlerImpl{ledger: ledger}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = middleware.EmployeeID(r)
	req.CompanyID = middleware.CompanyID(r)
	req.At = time.Now().UTC()

	event, err := h.ledger.RecordCheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check-in recorded", attendance.ToResponse(event))
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = middleware.EmployeeID(r)
	req.CompanyID = middleware.CompanyID(r)
	req.At = time.Now().UTC()

	event, err := h.ledger.RecordCheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check-out recorded", attendance.ToResponse(event))
}

// DaySummary implements AttendanceHandler. Defaults to today when the
// date query param is absent.
func (h *attendanceHandlerImpl) DaySummary(w http.ResponseWriter, r *http.Request) {
	employeeID := middleware.EmployeeID(r)

	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "date must be YYYY-MM-DD", nil)
			return
		}
		day = parsed
	}

	summary, err := h.ledger.DaySummary(r.Context(), employeeID, day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	events := make([]attendance.EventResponse, 0, len(summary.Events))
	for _, e := range summary.Events {
		events = append(events, attendance.ToResponse(e))
	}

	response.Success(w, map[string]interface{}{
		"employee_id":      summary.EmployeeID,
		"work_date":        summary.WorkDate.Format("2006-01-02"),
		"complete":         summary.Complete,
		"open_periods":     summary.OpenPeriods,
		"worked_minutes":   summary.WorkedMinutes,
		"overtime_minutes": summary.OvertimeMinutes,
		"periods":          summary.Periods,
		"events":           events,
	})
}

// ListMyEvents implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	employeeID := middleware.EmployeeID(r)

	from, okFrom := validator.IsValidDate(r.URL.Query().Get("from"))
	to, okTo := validator.IsValidDate(r.URL.Query().Get("to"))
	if !okFrom || !okTo {
		response.BadRequest(w, "from and to must be YYYY-MM-DD", nil)
		return
	}

	events, err := h.ledger.ListMyEvents(r.Context(), employeeID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]attendance.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, attendance.ToResponse(e))
	}

	response.Success(w, out)
}

// Correct implements AttendanceHandler. Admin only; records a new
// event superseding the referenced one.
func (h *attendanceHandlerImpl) Correct(w http.ResponseWriter, r *http.Request) {
	var req attendance.CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CorrectedBy = middleware.EmployeeID(r)

	event, err := h.ledger.RecordCorrection(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Correction recorded", attendance.ToResponse(event))
}
