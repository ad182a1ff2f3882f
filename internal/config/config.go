package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Addr      string
	Interface string
	Targets   []string

	ProbeBackend    string
	SweepEverySec   int
	ScanDelayMs     int
	ProbeTimeoutSec int

	WindowMs          int
	PortScanThreshold int
	OpenPortFlood     int

	SignatureDB string
	AuditDB     string

	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string

	MockMode bool
	Debug    bool
}

// Load parses command line flags and environment variables to populate Config.
// Flags take precedence over environment variables.
func Load() *Config {
	cfg := &Config{}

	// Defaults and Environment Variables
	targetStr := getEnv("NETWARDEN_TARGETS", "192.168.1.0/24")
	cfg.Addr = getEnv("NETWARDEN_ADDR", ":8080")
	cfg.Interface = getEnv("NETWARDEN_INTERFACE", "")
	cfg.ProbeBackend = getEnv("NETWARDEN_PROBE", "nmap")
	cfg.MockMode = getEnvBool("NETWARDEN_MOCK", false)
	cfg.SignatureDB = getEnv("NETWARDEN_SIGNATURE_DB", "")
	cfg.AuditDB = getEnv("NETWARDEN_AUDIT_DB", getDefaultDBPath())
	cfg.WindowMs = int(getEnvFloat("NETWARDEN_SCAN_WINDOW_MS", 60000))
	cfg.PortScanThreshold = int(getEnvFloat("NETWARDEN_PORT_SCAN_THRESHOLD", 10))
	cfg.OpenPortFlood = int(getEnvFloat("NETWARDEN_OPEN_PORT_FLOOD", 50))
	cfg.InfluxURL = getEnv("NETWARDEN_INFLUX_URL", "")
	cfg.InfluxToken = getEnv("NETWARDEN_INFLUX_TOKEN", "")
	cfg.InfluxOrg = getEnv("NETWARDEN_INFLUX_ORG", "netwarden")
	cfg.InfluxBucket = getEnv("NETWARDEN_INFLUX_BUCKET", "inventory")

	// Command Line Flags (Override Env)
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.Interface, "i", cfg.Interface, "Network interface used by the probe backend")
	flag.StringVar(&targetStr, "targets", targetStr, "Sweep targets: IPs and/or IPv4 CIDR blocks (comma separated)")
	flag.StringVar(&cfg.ProbeBackend, "probe", cfg.ProbeBackend, "Probe backend: nmap, nmap-discovery, arp-scan, arping or mock")
	flag.IntVar(&cfg.SweepEverySec, "sweep-every", 0, "Seconds between automatic sweeps (0 to sweep only on request)")
	flag.IntVar(&cfg.ScanDelayMs, "scan-delay", 1000, "Delay between sweep targets in milliseconds")
	flag.IntVar(&cfg.ProbeTimeoutSec, "probe-timeout", 30, "Per-target probe timeout in seconds")
	flag.IntVar(&cfg.WindowMs, "scan-window", cfg.WindowMs, "Scan activity tracking window in milliseconds")
	flag.IntVar(&cfg.PortScanThreshold, "scan-threshold", cfg.PortScanThreshold, "Scans per window that flag reconnaissance")
	flag.IntVar(&cfg.OpenPortFlood, "port-flood", cfg.OpenPortFlood, "Open ports that flag unusual activity")
	flag.StringVar(&cfg.SignatureDB, "signature-db", cfg.SignatureDB, "Path to signature SQLite database (empty for built-in defaults)")
	flag.StringVar(&cfg.AuditDB, "audit-db", cfg.AuditDB, "Path to audit trail SQLite database")
	flag.BoolVar(&cfg.MockMode, "mock", cfg.MockMode, "Run in mock mode (simulated LAN, no probing)")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")

	flag.Parse()

	// Parse sweep targets
	cfg.Targets = parseTargets(targetStr)

	if cfg.MockMode {
		cfg.ProbeBackend = "mock"
	}

	return cfg
}

func parseTargets(s string) []string {
	var targets []string
	if s == "" {
		return targets
	}
	parts := strings.Split(s, ",")
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			targets = append(targets, trimmed)
		}
	}
	return targets
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getDefaultDBPath returns the default database path in user's home directory.
// Creates the directory if it doesn't exist.
func getDefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return "netwarden.db"
	}

	// Use ~/.netwarden directory
	dir := filepath.Join(home, ".netwarden")

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create .netwarden directory, using current dir: %v", err)
		return "netwarden.db"
	}

	return filepath.Join(dir, "netwarden.db")
}
