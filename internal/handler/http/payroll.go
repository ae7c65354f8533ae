package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/folhaplus/folha-backend-go/internal/handler/http/response"
	payrollService "github.com/folhaplus/folha-backend-go/internal/service/payroll"
)

type PayrollHandler interface {
	ListByPeriod(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payrollService.Service
}

func NewPayrollHandler(svc payrollService.Service) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: svc}
}

// ListByPeriod implements PayrollHandler.
func (h *PayrollHandlerImpl) ListByPeriod(w http.ResponseWriter, r *http.Request) {
	entries, err := h.payrollService.ListByPeriod(r.Context(), r.URL.Query().Get("periodo"))
	if err != nil {
		slog.Error("ListByPeriod service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// GetByID implements PayrollHandler.
func (h *PayrollHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	entry, err := h.payrollService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entry)
}
