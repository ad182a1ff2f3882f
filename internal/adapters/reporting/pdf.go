// Package reporting renders inventory snapshots into downloadable
// documents.
package reporting

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

// maxDeviceRows caps the device table so a large inventory stays a
// readable report rather than a dump.
const maxDeviceRows = 25

// PDFExporter renders a report into PDF format
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export generates an A4 portrait report from the snapshot
func (e *PDFExporter) Export(report *domain.ReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, report)
	e.addSummary(pdf, report)
	e.addVendors(pdf, report)
	e.addDeviceTable(pdf, report)
	e.addAlertTable(pdf, report)
	e.addFooter(pdf, report)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, report *domain.ReportData) {
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 15, "Network Inventory Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	if report.GeneratedBy != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Requested by: %s", report.GeneratedBy), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func (e *PDFExporter) addSummary(pdf *gofpdf.Fpdf, report *domain.ReportData) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Inventory Overview", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	high, medium, low := report.AlertCounts()
	stats := []struct {
		label string
		value string
		color []int
	}{
		{"Total Devices", fmt.Sprintf("%d", report.Stats.TotalDevices), []int{0, 102, 204}},
		{"Active Devices", fmt.Sprintf("%d", report.Stats.ActiveDevices), []int{0, 102, 204}},
		{"Devices With Open Ports", fmt.Sprintf("%d", report.Stats.DevicesWithPorts), []int{0, 102, 204}},
		{"Distinct Vendors", fmt.Sprintf("%d", report.Stats.DistinctVendors), []int{0, 102, 204}},
		{"Total Alerts", fmt.Sprintf("%d", len(report.Alerts)), []int{0, 102, 204}},
		{"Unacknowledged", fmt.Sprintf("%d", report.UnacknowledgedAlerts()), []int{150, 150, 150}},
		{"High Severity", fmt.Sprintf("%d", high), []int{220, 53, 69}},
		{"Medium Severity", fmt.Sprintf("%d", medium), []int{255, 149, 0}},
		{"Low Severity", fmt.Sprintf("%d", low), []int{52, 199, 89}},
	}

	colWidth := 85.0
	for i, stat := range stats {
		x := 20.0
		if i%2 == 1 {
			x = 105.0
		}
		pdf.SetXY(x, pdf.GetY())

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 7, stat.label+":", "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(stat.color[0], stat.color[1], stat.color[2])
		pdf.CellFormat(colWidth-50, 7, stat.value, "", 0, "R", false, 0, "")

		if i%2 == 1 {
			pdf.Ln(7)
		}
	}
	pdf.Ln(12)
}

func (e *PDFExporter) addVendors(pdf *gofpdf.Fpdf, report *domain.ReportData) {
	vendors := report.TopVendors(5)
	if len(vendors) == 0 {
		return
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Top Vendors", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(60, 60, 60)
	for _, v := range vendors {
		pdf.CellFormat(100, 6, v.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", v.Count), "", 1, "R", false, 0, "")
	}
	pdf.Ln(8)
}

func (e *PDFExporter) addDeviceTable(pdf *gofpdf.Fpdf, report *domain.ReportData) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Devices", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(report.Devices) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No devices in inventory", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(32, 8, "IP", "1", 0, "L", true, 0, "")
	pdf.CellFormat(38, 8, "Hostname", "1", 0, "L", true, 0, "")
	pdf.CellFormat(32, 8, "Vendor", "1", 0, "L", true, 0, "")
	pdf.CellFormat(18, 8, "Status", "1", 0, "C", true, 0, "")
	pdf.CellFormat(18, 8, "Open", "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 8, "Last Seen", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	shown := report.Devices
	if len(shown) > maxDeviceRows {
		shown = shown[:maxDeviceRows]
	}
	for _, d := range shown {
		if pdf.GetY() > 270 {
			pdf.AddPage()
		}

		open := 0
		for _, p := range d.Ports {
			if p.State == domain.PortOpen {
				open++
			}
		}

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(32, 7, d.IP, "1", 0, "L", false, 0, "")
		pdf.CellFormat(38, 7, truncate(d.Hostname, 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(32, 7, truncate(d.Vendor, 18), "1", 0, "L", false, 0, "")

		if d.Status == domain.StatusUp {
			pdf.SetTextColor(52, 199, 89)
		} else {
			pdf.SetTextColor(150, 150, 150)
		}
		pdf.CellFormat(18, 7, string(d.Status), "1", 0, "C", false, 0, "")

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(18, 7, fmt.Sprintf("%d", open), "1", 0, "C", false, 0, "")
		pdf.CellFormat(32, 7, d.LastSeen.Format("01-02 15:04"), "1", 1, "L", false, 0, "")
	}

	if len(report.Devices) > maxDeviceRows {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 6, fmt.Sprintf("... and %d more devices", len(report.Devices)-maxDeviceRows), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)
}

func (e *PDFExporter) addAlertTable(pdf *gofpdf.Fpdf, report *domain.ReportData) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Security Alerts", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(report.Alerts) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No active alerts", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(28, 8, "Time", "1", 0, "L", true, 0, "")
	pdf.CellFormat(32, 8, "Device", "1", 0, "L", true, 0, "")
	pdf.CellFormat(22, 8, "Severity", "1", 0, "C", true, 0, "")
	pdf.CellFormat(88, 8, "Findings", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, alert := range report.Alerts {
		if pdf.GetY() > 270 {
			pdf.AddPage()
		}

		summary := ""
		for i, f := range alert.Findings {
			if i > 0 {
				summary += "; "
			}
			summary += f.Description
		}

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(28, 7, alert.Timestamp.Format("01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(32, 7, alert.DeviceIP, "1", 0, "L", false, 0, "")

		r, g, b := e.severityColor(alert.Severity)
		pdf.SetTextColor(r, g, b)
		pdf.CellFormat(22, 7, string(alert.Severity), "1", 0, "C", false, 0, "")

		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(88, 7, truncate(summary, 55), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)
}

// severityColor returns RGB color based on severity
func (e *PDFExporter) severityColor(severity domain.Severity) (r, g, b int) {
	switch severity {
	case domain.SeverityHigh:
		return 220, 53, 69
	case domain.SeverityMedium:
		return 255, 149, 0
	case domain.SeverityLow:
		return 52, 199, 89
	default:
		return 120, 120, 120
	}
}

func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, report *domain.ReportData) {
	pdf.SetY(-20)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, "Generated by netwarden", "", 1, "C", false, 0, "")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
