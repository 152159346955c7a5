package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Statement engine settings
	StatementFooterText      string
	TaxDeductibleAccounts    []string // Account numbers whose costs qualify for §35a EStG
	ProjectionPlannedCosts   string   // Decimal string; empty disables the budget projection section
	ProjectionMonthlyAdvance string   // Decimal string, suggested monthly advance for the next year
	ProjectionNote           string

	// Rate limiting
	RateLimitPeriod string
	RateLimitCount  int64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STATEMENT_FOOTER_TEXT", "")
	viper.SetDefault("TAX_DEDUCTIBLE_ACCOUNTS", "")
	viper.SetDefault("PROJECTION_PLANNED_COSTS", "")
	viper.SetDefault("PROJECTION_MONTHLY_ADVANCE", "")
	viper.SetDefault("PROJECTION_NOTE", "")
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")
	viper.SetDefault("RATE_LIMIT_COUNT", 120)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.StatementFooterText = viper.GetString("STATEMENT_FOOTER_TEXT")
	cfg.TaxDeductibleAccounts = splitAccountList(viper.GetString("TAX_DEDUCTIBLE_ACCOUNTS"))
	cfg.ProjectionPlannedCosts = viper.GetString("PROJECTION_PLANNED_COSTS")
	cfg.ProjectionMonthlyAdvance = viper.GetString("PROJECTION_MONTHLY_ADVANCE")
	cfg.ProjectionNote = viper.GetString("PROJECTION_NOTE")

	cfg.RateLimitPeriod = viper.GetString("RATE_LIMIT_PERIOD")
	cfg.RateLimitCount = viper.GetInt64("RATE_LIMIT_COUNT")

	return cfg, nil
}

// splitAccountList parses a comma separated account-number list, trimming
// whitespace and dropping empty entries.
func splitAccountList(raw string) []string {
	if raw == "" {
		return nil
	}
	var accounts []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			accounts = append(accounts, trimmed)
		}
	}
	return accounts
}
