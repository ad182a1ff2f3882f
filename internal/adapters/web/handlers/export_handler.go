package handlers

import (
	"net/http"
	"time"

	"github.com/jcastellr/netwarden/internal/adapters/reporting"
	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
	"github.com/jcastellr/netwarden/internal/core/services/export"
)

// ExportHandler streams inventory and alert data out as JSON, CSV or a
// rendered PDF report.
type ExportHandler struct {
	Engine      ports.Engine
	PDFExporter *reporting.PDFExporter
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(engine ports.Engine, pdfExporter *reporting.PDFExporter) *ExportHandler {
	return &ExportHandler{
		Engine:      engine,
		PDFExporter: pdfExporter,
	}
}

// HandleExport exports data. ?format selects json (default), csv or pdf;
// ?type selects devices (default) or alerts. The PDF is always the full
// report and ignores type.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	dataType := r.URL.Query().Get("type")
	if dataType == "" {
		dataType = "devices"
	}

	if format == "pdf" {
		h.exportPDF(w, r)
		return
	}

	switch dataType {
	case "alerts":
		h.exportAlerts(w, r, format)
	case "devices":
		h.exportDevices(w, r, format)
	default:
		writeError(w, r, http.StatusBadRequest, "unknown type: use devices or alerts")
	}
}

func (h *ExportHandler) exportDevices(w http.ResponseWriter, r *http.Request, format string) {
	devices := h.Engine.Devices()
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=netwarden_devices.csv")
		if err := export.ExportCSV(w, devices); err != nil {
			writeError(w, r, http.StatusInternalServerError, "CSV export failed")
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=netwarden_devices.json")
		if err := export.ExportJSON(w, devices); err != nil {
			writeError(w, r, http.StatusInternalServerError, "JSON export failed")
		}
	default:
		writeError(w, r, http.StatusBadRequest, "unknown format: use json, csv or pdf")
	}
}

func (h *ExportHandler) exportAlerts(w http.ResponseWriter, r *http.Request, format string) {
	alerts := h.Engine.Alerts(domain.FilterAll, "")
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=netwarden_alerts.csv")
		if err := export.ExportAlertsCSV(w, alerts); err != nil {
			writeError(w, r, http.StatusInternalServerError, "CSV export failed")
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=netwarden_alerts.json")
		if err := export.ExportAlertsJSON(w, alerts); err != nil {
			writeError(w, r, http.StatusInternalServerError, "JSON export failed")
		}
	default:
		writeError(w, r, http.StatusBadRequest, "unknown format: use json, csv or pdf")
	}
}

func (h *ExportHandler) exportPDF(w http.ResponseWriter, r *http.Request) {
	if h.PDFExporter == nil {
		writeError(w, r, http.StatusServiceUnavailable, "PDF export not configured")
		return
	}

	report := &domain.ReportData{
		GeneratedAt: time.Now().UTC(),
		GeneratedBy: "operator",
		Stats:       h.Engine.Stats(),
		Devices:     h.Engine.Devices(),
		Alerts:      h.Engine.Alerts(domain.FilterAll, ""),
	}

	data, err := h.PDFExporter.Export(report)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "PDF export failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=netwarden_report.pdf")
	w.Write(data)
}
