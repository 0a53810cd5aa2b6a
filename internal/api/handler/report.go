package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/yukmats/visit-hearing/internal/api/response"
	"github.com/yukmats/visit-hearing/internal/service"
)

// ReportHandler exposes persisted hearing reports
type ReportHandler struct {
	svc *service.HearingService
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *service.HearingService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// List returns persisted reports, newest first
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	reports, err := h.svc.ListReports(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, "failed to list reports")
		return
	}

	response.OK(w, reports)
}

// Get returns one persisted report
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		response.BadRequest(w, "invalid report ID")
		return
	}

	report, err := h.svc.GetReport(r.Context(), reportID)
	if err != nil {
		response.NotFound(w, "report not found")
		return
	}

	response.OK(w, report)
}
