package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"alumind-feedback/internal/config"

	"github.com/smartystreets/goconvey/convey"
)

var managedEnv = []string{
	"CONFIG_FILE", "PORT", "CORS_ALLOWED_ORIGINS", "LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_BASE_URL",
	"GEMINI_API_KEY", "LLM_MODEL", "LLM_TIMEOUT", "LLM_MAX_ATTEMPTS", "LLM_RETRY_BASE_DELAY",
	"STORE_DRIVER", "MONGODB_URI", "DB_NAME", "DATABASE_URL", "SQLITE_PATH", "RESEND_API_KEY",
	"FROM_EMAIL", "SUPPORT_EMAIL", "JWT_SECRET", "REPORT_WEEKDAY", "REPORT_HOUR", "REPORT_MINUTE",
	"REPORT_POLL_INTERVAL", "MAX_FEEDBACK_LENGTH", "DASHBOARD_CACHE_TTL",
}

func clearConfigEnv() {
	for _, name := range managedEnv {
		_ = os.Unsetenv(name)
	}
}

func TestLoad(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnv()
		defer clearConfigEnv()

		convey.Convey("When only defaults are present", func() {
			cfg, err := config.Load()

			convey.Convey("Then the defaults are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, "8080")
				convey.So(cfg.Model.Provider, convey.ShouldEqual, config.ProviderOpenAI)
				convey.So(cfg.Model.ModelName(), convey.ShouldEqual, config.DefaultOpenAIModel)
				convey.So(cfg.Model.Timeout, convey.ShouldEqual, 20*time.Second)
				convey.So(cfg.Model.MaxAttempts, convey.ShouldEqual, 1)
				convey.So(cfg.Store.Driver, convey.ShouldEqual, config.DriverMongo)
				convey.So(cfg.Report.PollInterval, convey.ShouldEqual, time.Minute)
				convey.So(cfg.Report.Window, convey.ShouldEqual, 7*24*time.Hour)
				convey.So(cfg.Intake.MaxFeedbackLength, convey.ShouldEqual, 5000)
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("PORT", "9090")
			_ = os.Setenv("OPENAI_API_KEY", "sk-test")
			_ = os.Setenv("LLM_MODEL", "gpt-4o-mini")
			_ = os.Setenv("LLM_TIMEOUT", "5s")
			_ = os.Setenv("LLM_MAX_ATTEMPTS", "3")
			_ = os.Setenv("STORE_DRIVER", "sqlite")
			_ = os.Setenv("SQLITE_PATH", "/tmp/feedback.db")
			_ = os.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
			_ = os.Setenv("REPORT_HOUR", "7")

			cfg, err := config.Load()

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, "9090")
				convey.So(cfg.Model.OpenAIAPIKey, convey.ShouldEqual, "sk-test")
				convey.So(cfg.Model.ModelName(), convey.ShouldEqual, "gpt-4o-mini")
				convey.So(cfg.Model.Timeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.Model.MaxAttempts, convey.ShouldEqual, 3)
				convey.So(cfg.Store.Driver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.Store.SQLitePath, convey.ShouldEqual, "/tmp/feedback.db")
				convey.So(cfg.Server.AllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
				convey.So(cfg.Report.Hour, convey.ShouldEqual, 7)
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When a YAML file and env both set a value", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			yamlContent := `
server:
  port: "7070"
model:
  provider: gemini
  gemini_api_key: g-key
report:
  weekday: friday
`
			convey.So(os.WriteFile(path, []byte(yamlContent), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("CONFIG_FILE", path)
			_ = os.Setenv("PORT", "6060")

			cfg, err := config.Load()

			convey.Convey("Then env wins over the file and the file over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Server.Port, convey.ShouldEqual, "6060")
				convey.So(cfg.Model.Provider, convey.ShouldEqual, config.ProviderGemini)
				convey.So(cfg.Model.ModelName(), convey.ShouldEqual, config.DefaultGeminiModel)
				day, err := cfg.Report.ReportWeekday()
				convey.So(err, convey.ShouldBeNil)
				convey.So(day, convey.ShouldEqual, time.Friday)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load()

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("Without an API key it is rejected", func() {
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "OPENAI_API_KEY")
		})

		convey.Convey("With an API key but no Mongo URI it is rejected", func() {
			cfg.Model.OpenAIAPIKey = "sk"
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "MONGODB_URI")
		})

		convey.Convey("With an unknown weekday it is rejected", func() {
			cfg.Model.OpenAIAPIKey = "sk"
			cfg.Store.MongoURI = "mongodb://localhost"
			cfg.Report.Weekday = "someday"
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("With credentials and storage it is accepted", func() {
			cfg.Model.OpenAIAPIKey = "sk"
			cfg.Store.MongoURI = "mongodb://localhost"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("With a Resend key but no recipient it is rejected", func() {
			cfg.Model.OpenAIAPIKey = "sk"
			cfg.Store.MongoURI = "mongodb://localhost"
			cfg.Mail.ResendAPIKey = "re_key"
			cfg.Mail.From = "relatorios@alumind.app"
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "SUPPORT_EMAIL")
		})

		convey.Convey("With a Resend key but no sender it is rejected", func() {
			cfg.Model.OpenAIAPIKey = "sk"
			cfg.Store.MongoURI = "mongodb://localhost"
			cfg.Mail.ResendAPIKey = "re_key"
			cfg.Mail.To = "support@alumind.app"
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "FROM_EMAIL")
		})

		convey.Convey("With a Resend key, sender and recipient it is accepted", func() {
			cfg.Model.OpenAIAPIKey = "sk"
			cfg.Store.MongoURI = "mongodb://localhost"
			cfg.Mail.ResendAPIKey = "re_key"
			cfg.Mail.From = "relatorios@alumind.app"
			cfg.Mail.To = "support@alumind.app"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("With an unknown provider it is rejected", func() {
			cfg.Model.Provider = "bard"
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})
	})
}
