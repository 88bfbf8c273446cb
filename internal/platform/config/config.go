package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// EVDS source
	EVDSBaseURL     string
	EVDSAPIKey      string
	EVDSSeriesCodes []string
	EVDSTimeout     time.Duration

	// Reconciliation engine
	LookbackWindowDays int // detection window: today-N .. today
	CarryForwardDays   int // series-writer carry-forward bound
	LedgerLookbackDays int // ledger holiday-fill carry-forward bound
	LedgerBatchSize    int

	// Scheduler
	UpdateCronSpec    string
	PropagateCronSpec string
	SchedulerEnabled  bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("EVDS_BASE_URL", "https://evds2.tcmb.gov.tr/service/evds")
	viper.SetDefault("EVDS_API_KEY", "")
	viper.SetDefault("EVDS_SERIES_CODES", "TP.BISTTLREF.ORAN,TP.TLREF.AO,TP.BIST.TLREF")
	viper.SetDefault("EVDS_TIMEOUT", "30s")
	viper.SetDefault("LOOKBACK_WINDOW_DAYS", 10)
	viper.SetDefault("CARRY_FORWARD_DAYS", 7)
	viper.SetDefault("LEDGER_LOOKBACK_DAYS", 10)
	viper.SetDefault("LEDGER_BATCH_SIZE", 100)
	viper.SetDefault("UPDATE_CRON", "0 18 * * *")
	viper.SetDefault("PROPAGATE_CRON", "5 18 * * *")
	viper.SetDefault("SCHEDULER_ENABLED", true)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.EVDSBaseURL = viper.GetString("EVDS_BASE_URL")
	cfg.EVDSAPIKey = viper.GetString("EVDS_API_KEY")
	if cfg.EVDSAPIKey == "" {
		log.Println("Warning: EVDS_API_KEY not set. Source fetches will fail and every gap will carry forward.")
	}

	cfg.EVDSSeriesCodes = splitCodes(viper.GetString("EVDS_SERIES_CODES"))

	timeoutStr := viper.GetString("EVDS_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 30 * time.Second
		log.Printf("Warning: Invalid value for EVDS_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.EVDSTimeout = timeout

	cfg.LookbackWindowDays = viper.GetInt("LOOKBACK_WINDOW_DAYS")
	cfg.CarryForwardDays = viper.GetInt("CARRY_FORWARD_DAYS")
	cfg.LedgerLookbackDays = viper.GetInt("LEDGER_LOOKBACK_DAYS")
	cfg.LedgerBatchSize = viper.GetInt("LEDGER_BATCH_SIZE")

	cfg.UpdateCronSpec = viper.GetString("UPDATE_CRON")
	cfg.PropagateCronSpec = viper.GetString("PROPAGATE_CRON")
	cfg.SchedulerEnabled = viper.GetBool("SCHEDULER_ENABLED")

	return cfg, nil
}

func splitCodes(s string) []string {
	var codes []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}
