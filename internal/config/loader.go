package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envKeys maps recognized environment variables to koanf keys.
var envKeys = map[string]string{
	"PORT":                 "server.port",
	"CORS_ALLOWED_ORIGINS": "server.allowed_origins",
	"LLM_PROVIDER":         "model.provider",
	"OPENAI_API_KEY":       "model.openai_api_key",
	"OPENAI_BASE_URL":      "model.base_url",
	"GEMINI_API_KEY":       "model.gemini_api_key",
	"LLM_MODEL":            "model.name",
	"LLM_TIMEOUT":          "model.timeout",
	"LLM_MAX_ATTEMPTS":     "model.max_attempts",
	"LLM_RETRY_BASE_DELAY": "model.retry_base_delay",
	"STORE_DRIVER":         "store.driver",
	"MONGODB_URI":          "store.mongo_uri",
	"DB_NAME":              "store.db_name",
	"DATABASE_URL":         "store.postgres_dsn",
	"SQLITE_PATH":          "store.sqlite_path",
	"RESEND_API_KEY":       "mail.resend_api_key",
	"FROM_EMAIL":           "mail.from",
	"SUPPORT_EMAIL":        "mail.to",
	"JWT_SECRET":           "auth.jwt_secret",
	"REPORT_WEEKDAY":       "report.weekday",
	"REPORT_HOUR":          "report.hour",
	"REPORT_MINUTE":        "report.minute",
	"REPORT_POLL_INTERVAL": "report.poll_interval",
	"MAX_FEEDBACK_LENGTH":  "intake.max_feedback_length",
	"DASHBOARD_CACHE_TTL":  "dashboard.cache_ttl",
}

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. YAML file named by CONFIG_FILE, if set
//  3. recognized environment variables (a .env file is loaded first when present)
func Load() (*Config, error) {
	// .env is optional; in production the variables are set directly.
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
		key, ok := envKeys[name]
		if !ok {
			// Skipped by koanf.
			return "", nil
		}
		if key == "server.allowed_origins" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
