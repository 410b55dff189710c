package config

import "time"

// ModerationConfig controls the content moderation endpoint.
type ModerationConfig struct {
	PerspectiveAPIKey string  `mapstructure:"perspective_api_key" yaml:"perspective_api_key"`
	ToxicityThreshold float64 `mapstructure:"toxicity_threshold" yaml:"toxicity_threshold"`
	RequestsPerMinute int     `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
}

// SMTPConfig controls outbound support emails. Empty host disables sending.
type SMTPConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	From     string `mapstructure:"from" yaml:"from"`
}

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`

	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`

	Moderation ModerationConfig `mapstructure:"moderation" yaml:"moderation"`
	SMTP       SMTPConfig       `mapstructure:"smtp" yaml:"smtp"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "studyhub.db",
		LogLevel:          "info",
		LogFormat:         "console",
		JWTSecret:         "change-me",
		JWTIssuer:         "studyhub",
		JWTAudience:       "studyhub-clients",
		Moderation: ModerationConfig{
			ToxicityThreshold: 0.6,
			RequestsPerMinute: 10,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
	}
}
