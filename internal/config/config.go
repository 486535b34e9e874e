package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Env        string           `yaml:"env"`        // Env is the current environment: local, development, production.
	HTTP       HTTPConfig       `yaml:"http"`       // HTTP holds the API listener configuration.
	Monitoring MonitoringConfig `yaml:"monitoring"` // Monitoring holds the metrics and health listener configuration.
	Storage    StorageConfig    `yaml:"storage"`    // Storage selects where the employee collection lives.
	Postgres   PostgresConfig   `yaml:"postgres"`   // Postgres is used only with the postgres storage driver.
}

// HTTPConfig struct holds the API server settings.
type HTTPConfig struct {
	Port              int           `yaml:"port"                env-default:"3000"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env-default:"5s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env-default:"10s"`
}

// MonitoringConfig struct holds the settings of the /metrics and /healthz listener.
type MonitoringConfig struct {
	Port int `yaml:"port" env-default:"8080"`
}

// StorageConfig struct selects the repository backend.
type StorageConfig struct {
	Driver   string `yaml:"driver"    env-default:"file"`                  // Driver is either `file` or `postgres`.
	FilePath string `yaml:"file_path" env-default:"data/zaposlenici.json"` // FilePath is relative to the working directory.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Dbname   string `yaml:"db_name"`                     // Dbname is the name of the database.
}

// MustLoad loads the configuration and panics when it is invalid.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads the optional YAML file named by CONFIG_PATH and applies EMPLOYEES_* environment
// overrides on top of the defaults, e.g. EMPLOYEES_HTTP_PORT or EMPLOYEES_STORAGE_DRIVER.
func Load() (*Config, error) {
	vpr := viper.New()

	vpr.SetDefault("env", "local")
	vpr.SetDefault("http.port", 3000)
	vpr.SetDefault("http.read_header_timeout", "5s")
	vpr.SetDefault("http.shutdown_timeout", "10s")
	vpr.SetDefault("monitoring.port", 8080)
	vpr.SetDefault("storage.driver", DriverFile)
	vpr.SetDefault("storage.file_path", "data/zaposlenici.json")
	vpr.SetDefault("postgres.host", "localhost")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("postgres.user", "")
	vpr.SetDefault("postgres.password", "")
	vpr.SetDefault("postgres.db_name", "")

	vpr.SetEnvPrefix("EMPLOYEES")
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}

		vpr.SetConfigFile(configPath)
		if err := vpr.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	readHeaderTimeout, err := time.ParseDuration(vpr.GetString("http.read_header_timeout"))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse http.read_header_timeout: %w", ErrInvalidConfig, err)
	}

	shutdownTimeout, err := time.ParseDuration(vpr.GetString("http.shutdown_timeout"))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse http.shutdown_timeout: %w", ErrInvalidConfig, err)
	}

	cfg := &Config{
		Env: vpr.GetString("env"),
		HTTP: HTTPConfig{
			Port:              vpr.GetInt("http.port"),
			ReadHeaderTimeout: readHeaderTimeout,
			ShutdownTimeout:   shutdownTimeout,
		},
		Monitoring: MonitoringConfig{
			Port: vpr.GetInt("monitoring.port"),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(strings.TrimSpace(vpr.GetString("storage.driver"))),
			FilePath: vpr.GetString("storage.file_path"),
		},
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	const maxPort = 65535

	if c.HTTP.Port <= 0 || c.HTTP.Port > maxPort {
		return fmt.Errorf("%w: http.port must be between 1 and %d, got %d", ErrInvalidConfig, maxPort, c.HTTP.Port)
	}
	if c.Monitoring.Port <= 0 || c.Monitoring.Port > maxPort {
		return fmt.Errorf("%w: monitoring.port must be between 1 and %d, got %d",
			ErrInvalidConfig, maxPort, c.Monitoring.Port)
	}

	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.FilePath == "" {
			return fmt.Errorf("%w: storage.file_path is empty", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.Postgres.Dbname == "" {
			return fmt.Errorf("%w: postgres.db_name is required for the postgres driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	return nil
}
