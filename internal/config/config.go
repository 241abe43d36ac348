package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Drivers supportés pour le document store
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver   string `yaml:"db_driver"`
	DBUrl      string `yaml:"db_url"`
	SQLitePath string `yaml:"sqlite_path"`
	DBLogLevel string `yaml:"db_log_level"`

	JWTSecret       string `yaml:"jwt_secret"`
	Supabase        string `yaml:"supabase_url"`
	SupabaseAnonKey string `yaml:"supabase_anon_key"`

	Port string `yaml:"port"`

	TxMaxAttempts    int `yaml:"tx_max_attempts"`
	FeedConcurrency  int `yaml:"feed_concurrency"`
	PostImageQuality int `yaml:"post_image_quality"`
	AvatarQuality    int `yaml:"avatar_quality"`
}

// Default retourne la configuration par défaut (SQLite local)
func Default() *Config {
	return &Config{
		DBDriver:         DriverSQLite,
		SQLitePath:       "./data/socialfeed.db",
		DBLogLevel:       "warn",
		Port:             "8080",
		TxMaxAttempts:    5,
		FeedConcurrency:  16,
		PostImageQuality: 70,
		AvatarQuality:    80,
	}
}

// LoadConfig charge .env, puis le fichier YAML optionnel, puis les variables d'environnement.
// L'environnement a toujours le dernier mot.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("lecture config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	overrideString(&cfg.DBUrl, "SUPABASE_DB_URL")
	overrideString(&cfg.DBDriver, "DB_DRIVER")
	overrideString(&cfg.SQLitePath, "SQLITE_PATH")
	overrideString(&cfg.DBLogLevel, "DB_LOG_LEVEL")
	overrideString(&cfg.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.Supabase, "NEXT_PUBLIC_SUPABASE_URL")
	overrideString(&cfg.SupabaseAnonKey, "SUPABASE_ANON_KEY")
	overrideString(&cfg.Port, "PORT")
	if err := overrideInt(&cfg.TxMaxAttempts, "TX_MAX_ATTEMPTS"); err != nil {
		return nil, err
	}
	if err := overrideInt(&cfg.FeedConcurrency, "FEED_CONCURRENCY"); err != nil {
		return nil, err
	}

	// SUPABASE_DB_URL sans DB_DRIVER explicite implique Postgres
	if os.Getenv("SUPABASE_DB_URL") != "" && os.Getenv("DB_DRIVER") == "" {
		cfg.DBDriver = DriverPostgres
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate vérifie la cohérence de la configuration
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBUrl == "" {
			return fmt.Errorf("SUPABASE_DB_URL manquant")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH manquant")
		}
	default:
		return fmt.Errorf("driver de base inconnu: %q", c.DBDriver)
	}
	if c.TxMaxAttempts < 1 {
		return fmt.Errorf("tx_max_attempts doit être >= 1")
	}
	if c.FeedConcurrency < 1 {
		return fmt.Errorf("feed_concurrency doit être >= 1")
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s invalide: %w", key, err)
	}
	*dst = n
	return nil
}
