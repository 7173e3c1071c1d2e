package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // fusos embutidos para imagens sem zoneinfo

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Redis          Redis          `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
	DatasetRefresh DatasetRefresh `mapstructure:",squash"`
	Metrics        Metrics        `mapstructure:",squash"`
	SecretKey      string         `mapstructure:"secret_key"`
}

type App struct {
	LogLevel        string         `mapstructure:"log_level"`
	ReportTimezone  string         `mapstructure:"report_timezone"`
	DisplayTimezone string         `mapstructure:"display_timezone"`
	ReportLocation  *time.Location `mapstructure:"-"`
	DisplayLocation *time.Location `mapstructure:"-"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Database aponta para o warehouse (Redshift) acessado pelo protocolo do PostgreSQL.
type Database struct {
	DSN          string        `mapstructure:"-"`
	Driver       string        `mapstructure:"warehouse_driver"`
	Host         string        `mapstructure:"warehouse_host"`
	Port         int           `mapstructure:"warehouse_port"`
	Name         string        `mapstructure:"warehouse_name"`
	User         string        `mapstructure:"warehouse_user"`
	Password     string        `mapstructure:"warehouse_password"`
	SSLMode      string        `mapstructure:"warehouse_sslmode"`
	Schema       string        `mapstructure:"warehouse_schema"`
	QueryTimeout time.Duration `mapstructure:"warehouse_query_timeout"`
	SinceDate    string        `mapstructure:"warehouse_since_date"`
	IncludeSpend bool          `mapstructure:"warehouse_include_spend"`
	Precision    string        `mapstructure:"warehouse_precision"`
}

type Redis struct {
	Enabled  bool          `mapstructure:"redis_enabled"`
	Addr     string        `mapstructure:"redis_addr"`
	Password string        `mapstructure:"redis_password"`
	DB       int           `mapstructure:"redis_db"`
	TTL      time.Duration `mapstructure:"redis_snapshot_ttl"`
	Key      string        `mapstructure:"redis_snapshot_key"`
}

type Auth struct {
	TokenTTL time.Duration `mapstructure:"auth_token_ttl"`
	Issuer   string        `mapstructure:"auth_issuer"`
}

type DatasetRefresh struct {
	CronSchedule     string `mapstructure:"dataset_refresh_cron"`
	Enabled          bool   `mapstructure:"dataset_refresh_enabled"`
	RefreshOnStartup bool   `mapstructure:"dataset_refresh_on_startup"`
}

type Metrics struct {
	Namespace string `mapstructure:"metrics_namespace"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("WAREHOUSE_DRIVER", "postgres")
	viper.SetDefault("WAREHOUSE_HOST", "localhost")
	viper.SetDefault("WAREHOUSE_PORT", 5439) // porta padrão do Redshift
	viper.SetDefault("WAREHOUSE_NAME", "dev")
	viper.SetDefault("WAREHOUSE_USER", "postgres")
	viper.SetDefault("WAREHOUSE_PASSWORD", "root")
	viper.SetDefault("WAREHOUSE_SSLMODE", "require")
	viper.SetDefault("WAREHOUSE_SCHEMA", "zocket_global")
	viper.SetDefault("WAREHOUSE_QUERY_TIMEOUT", "2m")
	viper.SetDefault("WAREHOUSE_SINCE_DATE", "2025-01-01")
	viper.SetDefault("WAREHOUSE_INCLUDE_SPEND", false)
	viper.SetDefault("WAREHOUSE_PRECISION", "timestamp") // timestamp ou date

	// Cache compartilhado do último snapshot, 1 hora como no painel original
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_SNAPSHOT_TTL", "1h")
	viper.SetDefault("REDIS_SNAPSHOT_KEY", "ad-review:snapshot")

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")
	viper.SetDefault("AUTH_ISSUER", "ad-review-dashboard")

	viper.SetDefault("DATASET_REFRESH_CRON", "0 * * * *") // De hora em hora
	viper.SetDefault("DATASET_REFRESH_ENABLED", true)
	viper.SetDefault("DATASET_REFRESH_ON_STARTUP", true)

	viper.SetDefault("METRICS_NAMESPACE", "ad_review")

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("REPORT_TIMEZONE", "UTC")
	viper.SetDefault("DISPLAY_TIMEZONE", "Asia/Kolkata")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.resolve(); err != nil {
		return nil, err
	}

	return config, nil
}

// resolve calcula os campos derivados e valida o que não dá para decodificar direto.
func (c *Config) resolve() error {
	var err error

	c.App.ReportLocation, err = time.LoadLocation(c.App.ReportTimezone)
	if err != nil {
		return fmt.Errorf("REPORT_TIMEZONE inválido %q: %w", c.App.ReportTimezone, err)
	}

	c.App.DisplayLocation, err = time.LoadLocation(c.App.DisplayTimezone)
	if err != nil {
		return fmt.Errorf("DISPLAY_TIMEZONE inválido %q: %w", c.App.DisplayTimezone, err)
	}

	c.Database.Precision = strings.ToLower(strings.TrimSpace(c.Database.Precision))
	if c.Database.Precision != "timestamp" && c.Database.Precision != "date" {
		return fmt.Errorf("WAREHOUSE_PRECISION deve ser timestamp ou date, recebido %q", c.Database.Precision)
	}

	if _, err := time.Parse(time.DateOnly, c.Database.SinceDate); err != nil {
		return fmt.Errorf("WAREHOUSE_SINCE_DATE inválido %q: %w", c.Database.SinceDate, err)
	}

	c.Database.DSN = c.Database.BuildDSN()
	return nil
}

// BuildDSN monta a URL de conexão escapando usuário e senha.
func (d Database) BuildDSN() string {
	dsn := url.URL{
		Scheme: d.Driver,
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": []string{d.SSLMode}}.Encode()
	}
	return dsn.String()
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
