package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		Build    string
		AppName  string

		SecretKey string

		// AdminEmails is the admin allow-list; any other authenticated
		// email is a student.
		AdminEmails []string

		GoogleClientID string

		Server   ServerConfig
		Database DatabaseConfig
		Export   ExportConfig

		RollbarToken string
	}

	ServerConfig struct {
		Host                   string
		DebugHost              string
		ShutdownTimeout        time.Duration
		SessionExpirationDelta time.Duration
		SessionCookieName      string
		CORSOrigins            []string
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	ExportConfig struct {
		URL     string
		Timeout time.Duration
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *Config) IsAdminEmail(email string) bool {
	email = CleanString(email, true /* lower */)
	for _, adm := range c.AdminEmails {
		if CleanString(adm, true /* lower */) == email {
			return true
		}
	}
	return false
}

func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Nightslip")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "n0t-s0-s3cret-ch@nge-me-in-pr0d")
	conf.SetDefault("adminEmails", "")
	conf.SetDefault("googleClientId", "")
	conf.SetDefault("serverHost", "0.0.0.0:8000")
	conf.SetDefault("serverDebugHost", "0.0.0.0:4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("sessionExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("sessionCookieName", "nightslip_session")
	conf.SetDefault("corsOrigins", "")
	conf.SetDefault("dbEngine", "postgres")
	conf.SetDefault("dbName", "nightslip")
	conf.SetDefault("dbUser", "nightslip")
	conf.SetDefault("dbPassword", "nightslip")
	conf.SetDefault("dbAdminUser", "")
	conf.SetDefault("dbAdminPassword", "")
	conf.SetDefault("dbHost", "localhost")
	conf.SetDefault("dbPort", "5432")
	conf.SetDefault("dbDisableTLS", true)
	conf.SetDefault("exportUrl", "")
	conf.SetDefault("exportTimeout", 10*time.Second)
	conf.SetDefault("rollbarToken", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:          conf.GetBool("debug"),
		TestMode:       env == "TEST",
		Env:            env,
		Build:          conf.GetString("build"),
		AppName:        conf.GetString("appName"),
		SecretKey:      conf.GetString("secretKey"),
		AdminEmails:    splitCSV(conf.GetString("adminEmails")),
		GoogleClientID: conf.GetString("googleClientId"),
		Server: ServerConfig{
			Host:                   conf.GetString("serverHost"),
			DebugHost:              conf.GetString("serverDebugHost"),
			ShutdownTimeout:        conf.GetDuration("serverShutdownTimeout"),
			SessionExpirationDelta: conf.GetDuration("sessionExpirationDelta"),
			SessionCookieName:      conf.GetString("sessionCookieName"),
			CORSOrigins:            splitCSV(conf.GetString("corsOrigins")),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("dbEngine"),
			Name:          conf.GetString("dbName"),
			User:          conf.GetString("dbUser"),
			Password:      conf.GetString("dbPassword"),
			AdminUser:     conf.GetString("dbAdminUser"),
			AdminPassword: conf.GetString("dbAdminPassword"),
			Host:          conf.GetString("dbHost"),
			Port:          conf.GetString("dbPort"),
			DisableTLS:    conf.GetBool("dbDisableTLS"),
		},
		Export: ExportConfig{
			URL:     conf.GetString("exportUrl"),
			Timeout: conf.GetDuration("exportTimeout"),
		},
		RollbarToken: conf.GetString("rollbarToken"),
	}
}

func splitCSV(s string) []string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
