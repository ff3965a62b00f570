package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Payment  PaymentConfig
	Scoring  ScoringConfig
	Dispatch DispatchConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type PaymentConfig struct {
	WebhookSecret string
	// InternalToken guards the pipeline endpoints (analysis results, report upload).
	InternalToken string
	// ReportPriceCents is the flat price of a case analysis report.
	ReportPriceCents int64
}

// ScoringConfig holds the candidate-ranking weights. Each signal is bounded
// before combination so no single signal can dominate.
type ScoringConfig struct {
	PriorityBonus     float64       // plan with priority leads
	StandardBonus     float64       // plan with plain leads
	PerformanceWeight float64       // multiplier over success score (0-100)
	FairnessCeiling   float64       // max rotation bonus
	FairnessWindow    time.Duration // waiting time at which the ceiling is reached
	CityBonus         float64
	StateBonus        float64
}

type DispatchConfig struct {
	// ExclusivityWindow is the base window granted to the assigned lawyer.
	ExclusivityWindow time.Duration
	// HighProbabilityWindow applies to cases the analysis rated high probability.
	HighProbabilityWindow time.Duration
	// MaxAssignRetries bounds transparent retries on persistence conflicts.
	MaxAssignRetries int
	// SweepInterval is how often the sweeper scans for expired referrals.
	SweepInterval time.Duration
}

type StorageConfig struct {
	Type         string // local | s3
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_URL", "host=localhost user=advoga password=advoga dbname=advoga port=5432 sslmode=disable TimeZone=UTC"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "advoga",
		},
		Payment: PaymentConfig{
			WebhookSecret:    getEnv("PAYMENT_WEBHOOK_SECRET", ""),
			InternalToken:    getEnv("INTERNAL_API_TOKEN", ""),
			ReportPriceCents: int64(getEnvInt("REPORT_PRICE_CENTS", 4990)),
		},
		Scoring: ScoringConfig{
			PriorityBonus:     getEnvFloat("SCORE_PRIORITY_BONUS", 40),
			StandardBonus:     getEnvFloat("SCORE_STANDARD_BONUS", 25),
			PerformanceWeight: getEnvFloat("SCORE_PERFORMANCE_WEIGHT", 0.25),
			FairnessCeiling:   getEnvFloat("SCORE_FAIRNESS_CEILING", 20),
			FairnessWindow:    getEnvDuration("SCORE_FAIRNESS_WINDOW", 24*time.Hour),
			CityBonus:         getEnvFloat("SCORE_CITY_BONUS", 10),
			StateBonus:        getEnvFloat("SCORE_STATE_BONUS", 5),
		},
		Dispatch: DispatchConfig{
			ExclusivityWindow:     getEnvDuration("LEAD_EXCLUSIVITY_WINDOW", 24*time.Hour),
			HighProbabilityWindow: getEnvDuration("LEAD_EXCLUSIVITY_WINDOW_HIGH", 48*time.Hour),
			MaxAssignRetries:      3,
			SweepInterval:         getEnvDuration("SWEEP_INTERVAL", 5*time.Minute),
		},
		Storage: StorageConfig{
			Type:         getEnv("STORAGE_TYPE", "local"),
			LocalPath:    getEnv("STORAGE_LOCAL_PATH", "./storage/reports"),
			S3Bucket:     getEnv("AWS_S3_BUCKET", ""),
			S3Region:     getEnv("AWS_REGION", "us-east-1"),
			AWSAccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			AWSSecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
