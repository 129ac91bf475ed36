package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Model  ModelConfig  `yaml:"model" mapstructure:"model"`
	Form   FormConfig   `yaml:"form" mapstructure:"form"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the reference data backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ModelConfig configures the prediction service endpoint.
type ModelConfig struct {
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// FormConfig configures the user-adjustable input domains. The income
// scale converts the display unit (thousands of dollars) to the unit
// the model was trained on; it is fixed at training time and is not a
// per-deployment knob.
type FormConfig struct {
	AgeMin        int     `yaml:"age_min" mapstructure:"age_min"`
	AgeMax        int     `yaml:"age_max" mapstructure:"age_max"`
	AgeDefault    int     `yaml:"age_default" mapstructure:"age_default"`
	IncomeMin     float64 `yaml:"income_min" mapstructure:"income_min"`
	IncomeMax     float64 `yaml:"income_max" mapstructure:"income_max"`
	IncomeDefault float64 `yaml:"income_default" mapstructure:"income_default"`
	IncomeStep    float64 `yaml:"income_step" mapstructure:"income_step"`
	IncomeScale   float64 `yaml:"income_scale" mapstructure:"income_scale"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HOUSING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "housing.db")
	v.SetDefault("model.endpoint", "http://localhost:9000/predict")
	v.SetDefault("model.timeout_secs", 10)
	v.SetDefault("form.age_min", 1)
	v.SetDefault("form.age_max", 50)
	v.SetDefault("form.age_default", 10)
	v.SetDefault("form.income_min", 5.0)
	v.SetDefault("form.income_max", 100.0)
	v.SetDefault("form.income_default", 45.0)
	v.SetDefault("form.income_step", 5.0)
	v.SetDefault("form.income_scale", 10.0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
