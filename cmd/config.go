package cmd

import "time"

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	// Storage selects the persistence adapter: postgres (default) or memory.
	Storage string

	GatewayURL        string
	GatewayToken      string
	GatewayAttempts   int
	GatewayRatePerSec float64

	CascadeTimeout      time.Duration
	GatewayFailureDelay time.Duration
	CorrelationTTL      time.Duration
	CodeTTL             time.Duration
	// CascadeStartGrace is how long an open job may sit without a cascade
	// before the timer job starts one.
	CascadeStartGrace time.Duration

	SweepSchedule string
	TimerSchedule string
}
