package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jcastellr/netwarden/internal/core/domain"
)

// ExportJSON writes device records as an indented JSON array
func ExportJSON(w io.Writer, devices []domain.DeviceRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(devices)
}

// ExportCSV writes device records as CSV with headers
func ExportCSV(w io.Writer, devices []domain.DeviceRecord) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	headers := []string{
		"IP", "MAC", "Vendor", "Hostname", "Status",
		"OpenPorts", "Ports",
		"FirstSeen", "LastSeen", "DiscoveryMethod",
	}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, d := range devices {
		open := 0
		ports := make([]string, 0, len(d.Ports))
		for _, p := range d.Ports {
			if p.State == domain.PortOpen {
				open++
			}
			ports = append(ports, fmt.Sprintf("%d/%s(%s)", p.Port, p.Protocol, p.State))
		}

		row := []string{
			d.IP,
			d.MAC,
			d.Vendor,
			d.Hostname,
			string(d.Status),
			fmt.Sprintf("%d", open),
			strings.Join(ports, ";"),
			d.FirstSeen.Format(time.RFC3339),
			d.LastSeen.Format(time.RFC3339),
			string(d.DiscoveryMethod),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

// ExportAlertsJSON writes alerts as an indented JSON array
func ExportAlertsJSON(w io.Writer, alerts []domain.Alert) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(alerts)
}

// ExportAlertsCSV writes alerts as CSV
func ExportAlertsCSV(w io.Writer, alerts []domain.Alert) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	headers := []string{"ID", "DeviceIP", "Severity", "Timestamp", "Acknowledged", "Findings", "Details"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, a := range alerts {
		types := make([]string, 0, len(a.Findings))
		details := make([]string, 0, len(a.Findings))
		for _, f := range a.Findings {
			types = append(types, string(f.Type))
			details = append(details, f.Description)
		}

		row := []string{
			a.ID,
			a.DeviceIP,
			string(a.Severity),
			a.Timestamp.Format(time.RFC3339),
			fmt.Sprintf("%t", a.Acknowledged),
			strings.Join(types, ";"),
			strings.Join(details, "; "),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}
