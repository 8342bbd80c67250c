package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/St1cky1/team-dashboard/internal/infrastructure/logger"
)

const (
	BackendMemory   = "memory"
	BackendXLSX     = "xlsx"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// DefaultTeamMembers и DefaultClients - состав команды и клиенты по умолчанию
var (
	DefaultTeamMembers = []string{"Sidd", "Harsh", "Faisal", "Piyush", "Danish", "Armaan", "Rishav", "Rishabh"}
	DefaultClients     = []string{"Swingsaga", "Inkup", "Craft Delights", "Anything Vegan", "Mimamsaa", "Banter Kitchen"}
)

type Database struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// URL - строка подключения для pgx и golang-migrate
func (d Database) URL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type Config struct {
	HTTPPort       string        `yaml:"http_port" validate:"required,numeric"`
	GRPCPort       string        `yaml:"grpc_port" validate:"omitempty,numeric"`
	StorageBackend string        `yaml:"storage_backend" validate:"oneof=memory xlsx postgres sqlite"`
	Database       Database      `yaml:"database"`
	MigrationsPath string        `yaml:"migrations_path"`
	RabbitMQURL    string        `yaml:"rabbitmq_url"`
	RedisAddr      string        `yaml:"redis_addr"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	XLSXPath       string        `yaml:"xlsx_path" validate:"required_if=StorageBackend xlsx"`
	SQLitePath     string        `yaml:"sqlite_path" validate:"required_if=StorageBackend sqlite"`
	SeedDemo       bool          `yaml:"seed_demo"`
	Location       string        `yaml:"tz_location"`
	Log            logger.Config `yaml:"log"`
	TeamMembers    []string      `yaml:"team_members" validate:"min=1,dive,required"`
	Clients        []string      `yaml:"clients" validate:"dive,required"`
}

func Default() *Config {
	return &Config{
		HTTPPort:       "8080",
		GRPCPort:       "9090",
		StorageBackend: BackendMemory,
		Database: Database{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "dashboard",
			SSLMode: "disable",
		},
		MigrationsPath: "file://migrations",
		CacheTTL:       30 * time.Second,
		XLSXPath:       "data/dashboard.xlsx",
		SQLitePath:     "data/dashboard.db",
		Location:       "Local",
		Log: logger.Config{
			Level:      "info",
			Format:     "console",
			Output:     "stdout",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		TeamMembers: append([]string(nil), DefaultTeamMembers...),
		Clients:     append([]string(nil), DefaultClients...),
	}
}

// Load читает YAML (если path не пустой), затем применяет переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = splitList(v)
		}
	}

	str("HTTP_PORT", &c.HTTPPort)
	str("GRPC_PORT", &c.GRPCPort)
	str("STORAGE_BACKEND", &c.StorageBackend)
	str("DB_HOST", &c.Database.Host)
	str("DB_PORT", &c.Database.Port)
	str("DB_USER", &c.Database.User)
	str("DB_PASSWORD", &c.Database.Password)
	str("DB_NAME", &c.Database.Name)
	str("DB_SSLMODE", &c.Database.SSLMode)
	str("MIGRATIONS_PATH", &c.MigrationsPath)
	str("RABBITMQ_URL", &c.RabbitMQURL)
	str("REDIS_ADDR", &c.RedisAddr)
	str("XLSX_PATH", &c.XLSXPath)
	str("SQLITE_PATH", &c.SQLitePath)
	str("TZ_LOCATION", &c.Location)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_OUTPUT", &c.Log.Output)
	list("TEAM_MEMBERS", &c.TeamMembers)
	list("CLIENTS", &c.Clients)

	if v, ok := lookup("CACHE_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
		c.CacheTTL = ttl
	}
	if v, ok := lookup("SEED_DEMO"); ok && v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEED_DEMO: %w", err)
		}
		c.SeedDemo = seed
	}
	if v, ok := lookup("LOG_MAX_SIZE_MB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOG_MAX_SIZE_MB: %w", err)
		}
		c.Log.MaxSizeMB = n
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config %s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.TimeLocation(); err != nil {
		return fmt.Errorf("config tz_location: %w", err)
	}
	return nil
}

// TimeLocation - часовой пояс, в котором считается "сегодня"
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Location)
}
