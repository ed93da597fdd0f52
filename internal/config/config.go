package config

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"breakout_bot/internal/exchange"
	"breakout_bot/internal/executor"
	"breakout_bot/internal/notify"
	"breakout_bot/internal/position"
	"breakout_bot/internal/retry"
	"breakout_bot/internal/risk"
	"breakout_bot/internal/scheduler"
	"breakout_bot/pkg/db"
	"breakout_bot/pkg/logger"
	"breakout_bot/pkg/tracing"
)

const (
	configFilePathENV = "CONFIG_FILE"
	defaultConfigFile = "configs/values_local.yaml"
)

// ErrMissingCredentials — без ключей API бот не стартует.
var ErrMissingCredentials = errors.New("BINANCE_TESTNET_API_KEY and BINANCE_TESTNET_SECRET_KEY must be set")

// envBindings — какие переменные окружения перекрывают ключи файла.
var envBindings = map[string]string{
	"binance.api_key":    "BINANCE_TESTNET_API_KEY",
	"binance.api_secret": "BINANCE_TESTNET_SECRET_KEY",
	"trading.symbol":     "BOT_SYMBOL",
	"telegram.token":     "TELEGRAM_TOKEN",
	"telegram.chat_id":   "TELEGRAM_CHAT_ID",
	"db.dsn":             "DATABASE_DSN",
	"trade_log.file":     "TRADE_LOG_FILE",
	"log.level":          "LOG_LEVEL",
}

type Config struct {
	Binance  exchange.BinanceConfig `mapstructure:"binance" yaml:"binance"`
	Trading  executor.Config        `mapstructure:"trading" yaml:"trading"`
	Position position.Config        `mapstructure:"position" yaml:"position"`
	Sizer    risk.SizerConfig       `mapstructure:"sizer" yaml:"sizer"`
	Retry    retry.Policy           `mapstructure:"retry" yaml:"retry"`
	Schedule scheduler.Config       `mapstructure:"schedule" yaml:"schedule"`
	TradeLog struct {
		File string `mapstructure:"file" yaml:"file" default:"trade_log.csv" validate:"required"`
	} `mapstructure:"trade_log" yaml:"trade_log"`
	DB       db.PoolConfig         `mapstructure:"db" yaml:"db"`
	Telegram notify.TelegramConfig `mapstructure:"telegram" yaml:"telegram"`
	Service  struct {
		Name       string `mapstructure:"name" yaml:"name" default:"breakout_bot"`
		HealthAddr string `mapstructure:"health_addr" yaml:"health_addr" default:":8080"`
	} `mapstructure:"service" yaml:"service"`
	Tracing tracing.Config `mapstructure:"tracing" yaml:"tracing"`
	Log     logger.Config  `mapstructure:"log" yaml:"log"`
}

// Load собирает конфиг: дефолты из тегов, потом yaml (если есть), потом env.
// Пустой path — берём CONFIG_FILE или configs/values_local.yaml.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "config defaults")
	}

	if path == "" {
		path = getenvDefault(configFilePathENV, defaultConfigFile)
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", env)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Binance.APIKey == "" || c.Binance.APISecret == "" {
		return ErrMissingCredentials
	}
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// Dump — итоговый конфиг в yaml, секреты замаскированы.
func (c *Config) Dump() string {
	masked := *c
	masked.Binance.APIKey = mask(c.Binance.APIKey)
	masked.Binance.APISecret = mask(c.Binance.APISecret)
	masked.Telegram.Token = mask(c.Telegram.Token)
	masked.DB.DSN = mask(c.DB.DSN)

	out, err := yaml.Marshal(masked)
	if err != nil {
		return fmt.Sprintf("<config dump failed: %v>", err)
	}
	return string(out)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
