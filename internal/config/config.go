// Package config holds the process configuration, built once at startup and
// passed by value or pointer into every component that needs it.
package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultOpenAIModel = "gpt-3.5-turbo-0125"
	DefaultGeminiModel = "gemini-2.0-flash"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Model     ModelConfig     `koanf:"model"`
	Store     StoreConfig     `koanf:"store"`
	Mail      MailConfig      `koanf:"mail"`
	Auth      AuthConfig      `koanf:"auth"`
	Report    ReportConfig    `koanf:"report"`
	Intake    IntakeConfig    `koanf:"intake"`
	Dashboard DashboardConfig `koanf:"dashboard"`
}

type ServerConfig struct {
	Port           string   `koanf:"port"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type ModelConfig struct {
	// Provider selects the backend: "openai" or "gemini".
	Provider     string `koanf:"provider"`
	OpenAIAPIKey string `koanf:"openai_api_key"`
	GeminiAPIKey string `koanf:"gemini_api_key"`
	// BaseURL overrides the OpenAI endpoint (OpenAI-compatible gateways).
	BaseURL string `koanf:"base_url"`
	// Name is the model identifier; empty means the provider default.
	Name              string        `koanf:"name"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxAttempts       int           `koanf:"max_attempts"`
	RetryBaseDelay    time.Duration `koanf:"retry_base_delay"`
	Temperature       float32       `koanf:"temperature"`
	ReportTemperature float32       `koanf:"report_temperature"`
}

type StoreConfig struct {
	Driver      string `koanf:"driver"`
	MongoURI    string `koanf:"mongo_uri"`
	DBName      string `koanf:"db_name"`
	PostgresDSN string `koanf:"postgres_dsn"`
	SQLitePath  string `koanf:"sqlite_path"`
}

type MailConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	From         string `koanf:"from"`
	To           string `koanf:"to"`
}

type AuthConfig struct {
	// JWTSecret signs admin tokens. Admin routes are disabled when empty.
	JWTSecret string `koanf:"jwt_secret"`
}

type ReportConfig struct {
	Weekday      string        `koanf:"weekday"`
	Hour         int           `koanf:"hour"`
	Minute       int           `koanf:"minute"`
	PollInterval time.Duration `koanf:"poll_interval"`
	Window       time.Duration `koanf:"window"`
}

type IntakeConfig struct {
	MaxFeedbackLength int `koanf:"max_feedback_length"`
}

type DashboardConfig struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		Model: ModelConfig{
			Provider:          ProviderOpenAI,
			Timeout:           20 * time.Second,
			MaxAttempts:       1,
			RetryBaseDelay:    500 * time.Millisecond,
			Temperature:       0,
			ReportTemperature: 0.7,
		},
		Store: StoreConfig{
			Driver:     DriverMongo,
			DBName:     "alumind",
			SQLitePath: "alumind.db",
		},
		Report: ReportConfig{
			Weekday:      "monday",
			Hour:         9,
			Minute:       0,
			PollInterval: 60 * time.Second,
			Window:       7 * 24 * time.Hour,
		},
		Intake: IntakeConfig{
			MaxFeedbackLength: 5000,
		},
		Dashboard: DashboardConfig{
			CacheTTL: 30 * time.Second,
		},
	}
}

// ModelName returns the configured model or the provider default.
func (m ModelConfig) ModelName() string {
	if m.Name != "" {
		return m.Name
	}
	if m.Provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}

// ReportWeekday parses Report.Weekday ("monday", "mon", ...).
func (r ReportConfig) ReportWeekday() (time.Weekday, error) {
	return parseWeekday(r.Weekday)
}

// Validate checks the settings every deployment needs.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return &Error{Field: "PORT", Message: "required"}
	}

	switch c.Model.Provider {
	case ProviderOpenAI:
		if c.Model.OpenAIAPIKey == "" {
			return &Error{Field: "OPENAI_API_KEY", Message: "required for the openai provider"}
		}
	case ProviderGemini:
		if c.Model.GeminiAPIKey == "" {
			return &Error{Field: "GEMINI_API_KEY", Message: "required for the gemini provider"}
		}
	default:
		return &Error{Field: "LLM_PROVIDER", Message: fmt.Sprintf("unknown provider %q", c.Model.Provider)}
	}
	if c.Model.Timeout <= 0 {
		return &Error{Field: "LLM_TIMEOUT", Message: "must be positive"}
	}
	if c.Model.MaxAttempts < 1 {
		return &Error{Field: "LLM_MAX_ATTEMPTS", Message: "must be at least 1"}
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return &Error{Field: "MONGODB_URI", Message: "required for the mongo driver"}
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return &Error{Field: "DATABASE_URL", Message: "required for the postgres driver"}
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return &Error{Field: "SQLITE_PATH", Message: "required for the sqlite driver"}
		}
	default:
		return &Error{Field: "STORE_DRIVER", Message: fmt.Sprintf("unknown driver %q", c.Store.Driver)}
	}

	if _, err := c.Report.ReportWeekday(); err != nil {
		return &Error{Field: "REPORT_WEEKDAY", Message: err.Error()}
	}
	if c.Report.Hour < 0 || c.Report.Hour > 23 {
		return &Error{Field: "REPORT_HOUR", Message: "must be between 0 and 23"}
	}
	if c.Report.Minute < 0 || c.Report.Minute > 59 {
		return &Error{Field: "REPORT_MINUTE", Message: "must be between 0 and 59"}
	}
	if c.Report.PollInterval <= 0 {
		return &Error{Field: "REPORT_POLL_INTERVAL", Message: "must be positive"}
	}
	if c.Mail.ResendAPIKey != "" {
		if strings.TrimSpace(c.Mail.From) == "" {
			return &Error{Field: "FROM_EMAIL", Message: "required when RESEND_API_KEY is set"}
		}
		if strings.TrimSpace(c.Mail.To) == "" {
			return &Error{Field: "SUPPORT_EMAIL", Message: "required when RESEND_API_KEY is set"}
		}
	}
	if c.Intake.MaxFeedbackLength <= 0 {
		return &Error{Field: "MAX_FEEDBACK_LENGTH", Message: "must be positive"}
	}
	return nil
}

// Error reports an invalid or missing setting.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}
