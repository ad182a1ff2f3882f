// Package tsdb streams inventory statistics into InfluxDB so dashboards
// can graph device population and alert pressure over time.
package tsdb

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2api "github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/jcastellr/netwarden/internal/core/domain"
	"github.com/jcastellr/netwarden/internal/core/ports"
)

// Config carries the InfluxDB connection parameters.
type Config struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// InfluxSink writes snapshots through the async write API. Writes never
// block the caller; delivery failures surface on the error drain and are
// retried by the client's internal buffer.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI influxdb2api.WriteAPI
}

var _ ports.StatsSink = (*InfluxSink)(nil)

func NewInfluxSink(cfg Config) *InfluxSink {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)

	errCh := writeAPI.Errors()
	go func() {
		for err := range errCh {
			slog.Error("Influx write failed", "error", err)
		}
	}()

	return &InfluxSink{client: client, writeAPI: writeAPI}
}

// Ping checks server health once so startup can log a useful line. The
// sink buffers writes regardless of the outcome.
func (s *InfluxSink) Ping(ctx context.Context) error {
	_, err := s.client.Health(ctx)
	return err
}

// WriteStats records one snapshot: a summary point plus one point per
// vendor so the distribution can be graphed without unpacking a map.
func (s *InfluxSink) WriteStats(stats domain.InventoryStats, activeAlerts int) {
	at := stats.GeneratedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	s.writeAPI.WritePoint(influxdb2.NewPointWithMeasurement("inventory").
		AddField("total_devices", stats.TotalDevices).
		AddField("active_devices", stats.ActiveDevices).
		AddField("devices_with_ports", stats.DevicesWithPorts).
		AddField("distinct_vendors", stats.DistinctVendors).
		AddField("active_alerts", activeAlerts).
		SetTime(at))

	for vendor, count := range stats.VendorCounts {
		s.writeAPI.WritePoint(influxdb2.NewPointWithMeasurement("vendor_devices").
			AddTag("vendor", vendor).
			AddField("count", count).
			SetTime(at))
	}
}

// Close flushes buffered points and releases the connection.
func (s *InfluxSink) Close() {
	s.writeAPI.Flush()
	s.client.Close()
}
