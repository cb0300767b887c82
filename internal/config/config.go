package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
)

type Config struct {
	ServerPort string
	AppEnv     string
	LogLevel   string

	GatewayDriver string
	CRMAPIURL     string
	CRMAPIToken   string
	DatabaseURL   string

	ViaCEPURL       string
	RedisAddr       string
	RedisPassword   string
	AddressCacheTTL time.Duration

	RabbitMQURL string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	WhatsAppAccessToken string
	WhatsAppPhoneID     string
	WhatsAppTemplate    string

	FunnelRefreshInterval time.Duration
	CORSOrigins           []string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	mailPort, err := strconv.Atoi(getEnv("MAIL_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("MAIL_PORT inválida: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("ADDRESS_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("ADDRESS_CACHE_TTL inválido: %w", err)
	}
	refresh, err := time.ParseDuration(getEnv("FUNNEL_REFRESH_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("FUNNEL_REFRESH_INTERVAL inválido: %w", err)
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		AppEnv:     getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		GatewayDriver: strings.ToLower(getEnv("GATEWAY_DRIVER", DriverREST)),
		CRMAPIURL:     getEnv("CRM_API_URL", "http://localhost:3333"),
		CRMAPIToken:   os.Getenv("CRM_API_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		ViaCEPURL:       getEnv("VIACEP_URL", "https://viacep.com.br/ws"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		AddressCacheTTL: cacheTTL,

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: mailPort,
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: os.Getenv("MAIL_FROM"),

		WhatsAppAccessToken: os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneID:     os.Getenv("WHATSAPP_PHONE_ID"),
		WhatsAppTemplate:    os.Getenv("WHATSAPP_TEMPLATE"),

		FunnelRefreshInterval: refresh,
		CORSOrigins:           splitList(getEnv("CORS_ORIGINS", "*")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.GatewayDriver {
	case DriverREST:
		if c.CRMAPIURL == "" {
			return fmt.Errorf("CRM_API_URL é obrigatório com GATEWAY_DRIVER=rest")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL é obrigatório com GATEWAY_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("GATEWAY_DRIVER desconhecido: %q", c.GatewayDriver)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) MailEnabled() bool {
	return c.MailHost != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
