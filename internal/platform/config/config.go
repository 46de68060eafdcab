package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "KENNEL"
	DefaultTimeout = 10 * time.Second
)

// Config del cliente administrativo.
type Config struct {
	APIServer   string        `mapstructure:"api_server"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// PageSize 0 => cada pantalla usa su propio default.
	PageSize    int           `mapstructure:"page_size"`
	SessionFile string        `mapstructure:"session_file"`
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"`
}

// LoadEnvFiles carga .env / .env.local si existen (no pisa variables ya seteadas).
func LoadEnvFiles() {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load(".env.local")
	}
}

// New arma un viper con defaults, env KENNEL_* y archivo opcional.
// cfgFile vacío => busca kennelctl.yaml en el cwd y en el home.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("api_server", "http://localhost:3030")
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("page_size", 0)
	v.SetDefault("session_file", defaultSessionFile())
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("kennelctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "kennelctl"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load deserializa v y aplica validaciones mínimas.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.APIServer = strings.TrimRight(strings.TrimSpace(cfg.APIServer), "/")
	if cfg.APIServer == "" {
		return Config{}, errors.New("api_server is required")
	}
	if cfg.PageSize < 0 {
		cfg.PageSize = 0
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(cfg.SessionFile) == "" {
		cfg.SessionFile = defaultSessionFile()
	}
	return cfg, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "kennelctl-session.db"
	}
	return filepath.Join(dir, "kennelctl", "session.db")
}
