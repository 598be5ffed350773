package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tempohr/tempo-backend-go/internal/domain/payroll"
	"github.com/tempohr/tempo-backend-go/internal/handler/http/middleware"
	"github.com/tempohr/tempo-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	GetPeriod(w http.ResponseWriter, r *http.Request)
	ListPeriods(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)

	GetRateSettings(w http.ResponseWriter, r *http.Request)
	UpsertRateSettings(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	rates          payroll.RateSettingsProvider
}

func NewPayrollHandler(payrollService payroll.PayrollService, rates payroll.RateSettingsProvider) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
		rates:          rates,
	}
}

// Generate implements PayrollHandler.
func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	period, err := h.payrollService.GeneratePayroll(r.Context(), middleware.CompanyID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated", period)
}

// GetPeriod implements PayrollHandler.
func (h *payrollHandlerImpl) GetPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.payrollService.GetPeriod(r.Context(), middleware.CompanyID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, period)
}

// ListPeriods implements PayrollHandler.
func (h *payrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.payrollService.ListPeriods(r.Context(), middleware.CompanyID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, periods)
}

// Approve implements PayrollHandler.
func (h *payrollHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	req := payroll.ApprovePeriodRequest{PeriodID: chi.URLParam(r, "id")}

	err := h.payrollService.ApprovePeriod(r.Context(), middleware.CompanyID(r), middleware.EmployeeID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period approved", nil)
}

// MarkPaid implements PayrollHandler.
func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	req := payroll.ApprovePeriodRequest{PeriodID: chi.URLParam(r, "id")}

	err := h.payrollService.MarkPeriodPaid(r.Context(), middleware.CompanyID(r), middleware.EmployeeID(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period marked paid", nil)
}

// GetRateSettings implements PayrollHandler.
func (h *payrollHandlerImpl) GetRateSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.rates.GetRateSettings(r.Context(), middleware.CompanyID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings)
}

// UpsertRateSettings implements PayrollHandler.
func (h *payrollHandlerImpl) UpsertRateSettings(w http.ResponseWriter, r *http.Request) {
	var req payroll.RateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CompanyID = middleware.CompanyID(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	settings, err := h.rates.UpsertRateSettings(r.Context(), req.ToSettings())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rate settings saved", settings)
}
