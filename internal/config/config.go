package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

// Mesmo formato YYYY-MM aceito pelas rotas de mês
var legacyMonthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Storage   Storage   `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	SQLite    SQLite    `mapstructure:",squash"`
	Ledger    Ledger    `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	Backup    Backup    `mapstructure:",squash"`
	RateLimit RateLimit `mapstructure:",squash"`
	Cors      Cors      `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Storage struct {
	Driver  string `mapstructure:"storage_driver"`
	DataDir string `mapstructure:"data_dir"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type SQLite struct {
	Path string `mapstructure:"sqlite_path"`
}

type Ledger struct {
	InitialDataPath string `mapstructure:"ledger_initial_data_path"`
	LegacyMonth     string `mapstructure:"ledger_legacy_month"`
}

type Auth struct {
	Secret        string        `mapstructure:"auth_secret"`
	TokenTTL      time.Duration `mapstructure:"auth_token_ttl"`
	AdminName     string        `mapstructure:"admin_name"`
	AdminEmail    string        `mapstructure:"admin_email"`
	AdminPassword string        `mapstructure:"admin_password"`
}

type Backup struct {
	CronSchedule string `mapstructure:"backup_cron"`
	Enabled      bool   `mapstructure:"backup_enabled"`
	Dir          string `mapstructure:"backup_dir"`
	Retention    int    `mapstructure:"backup_retention"`
}

type RateLimit struct {
	RequestsPerSecond float64 `mapstructure:"rate_limit_rps"`
	Burst             int     `mapstructure:"rate_limit_burst"`
	TrustProxy        bool    `mapstructure:"rate_limit_trust_proxy"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("STORAGE_DRIVER", StorageDriverFile)
	viper.SetDefault("DATA_DIR", "data")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/borracharia?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("SQLITE_PATH", "data/borracharia.db")

	viper.SetDefault("LEDGER_INITIAL_DATA_PATH", "data/initial-data.json")
	viper.SetDefault("LEDGER_LEGACY_MONTH", "2026-01") // Mês que recebe a lista plana de vendas do formato antigo

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")
	viper.SetDefault("ADMIN_NAME", "Administrador")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD", "")

	viper.SetDefault("BACKUP_CRON", "0 2 * * *") // Todos os dias às 2h da manhã
	viper.SetDefault("BACKUP_ENABLED", false)
	viper.SetDefault("BACKUP_DIR", "data/backups")
	viper.SetDefault("BACKUP_RETENTION", 14)

	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 30)
	viper.SetDefault("RATE_LIMIT_TRUST_PROXY", false) // Só habilitar atrás de proxy reverso

	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	viper.SetDefault("LOG_LEVEL", "debug")
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

	err := viper.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Validate verifica combinações de configuração que impedem a aplicação de subir
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverFile, StorageDriverPostgres, StorageDriverSQLite:
	default:
		return fmt.Errorf("STORAGE_DRIVER inválido: %q (use file, postgres ou sqlite)", c.Storage.Driver)
	}

	if !legacyMonthPattern.MatchString(c.Ledger.LegacyMonth) {
		return fmt.Errorf("LEDGER_LEGACY_MONTH inválido: %q (use YYYY-MM)", c.Ledger.LegacyMonth)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("AUTH_TOKEN_TTL deve ser positivo")
	}

	if c.Backup.Retention < 1 {
		return fmt.Errorf("BACKUP_RETENTION deve ser maior que zero")
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

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
