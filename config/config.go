// Package config loads the console's runtime configuration from the
// environment.
package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Env      string `envconfig:"ENV" default:"dev"`
	DBPath   string `envconfig:"DB_PATH" default:"./payroll.db"`

	// Engine defaults; percentages are whole numbers (8 = 8%).
	RetentionPercent float64 `envconfig:"RETENTION_PERCENT" default:"8"`
	AllowedPoints    int     `envconfig:"ALLOWED_PENALTY_POINTS" default:"10"`
	PerPointPercent  float64 `envconfig:"PER_POINT_PERCENT" default:"2"`
	MaxPenaltyPct    float64 `envconfig:"MAX_PENALTY_PERCENT" default:"10"`
	CoverRate        float64 `envconfig:"COVER_BONUS_RATE" default:"30"`
	BrandingRate     float64 `envconfig:"BRANDING_BONUS_RATE" default:"50"`
	ThemeRideRate    float64 `envconfig:"THEME_RIDE_BONUS_RATE" default:"40"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
