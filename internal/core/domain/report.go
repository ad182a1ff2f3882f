package domain

import (
	"sort"
	"time"
)

// ReportData aggregates everything a report rendering needs. Builders
// snapshot live state once so every section describes the same instant.
type ReportData struct {
	GeneratedAt time.Time
	GeneratedBy string
	Stats       InventoryStats
	Devices     []DeviceRecord
	Alerts      []Alert
	AuditLogs   []AuditLog
}

// VendorStat is one row of the vendor distribution.
type VendorStat struct {
	Name  string
	Count int
}

// TopVendors returns the vendor distribution sorted by device count
// descending, ties broken by name, capped at limit (0 means all).
func (r ReportData) TopVendors(limit int) []VendorStat {
	stats := make([]VendorStat, 0, len(r.Stats.VendorCounts))
	for name, count := range r.Stats.VendorCounts {
		stats = append(stats, VendorStat{Name: name, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// AlertCounts tallies the report's alerts by severity.
func (r ReportData) AlertCounts() (high, medium, low int) {
	for _, a := range r.Alerts {
		switch a.Severity {
		case SeverityHigh:
			high++
		case SeverityMedium:
			medium++
		case SeverityLow:
			low++
		}
	}
	return high, medium, low
}

// UnacknowledgedAlerts counts alerts still awaiting operator review.
func (r ReportData) UnacknowledgedAlerts() int {
	n := 0
	for _, a := range r.Alerts {
		if !a.Acknowledged {
			n++
		}
	}
	return n
}
