package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"auction-shop/internal/repository/postgres"
)

type Config struct {
	Env        string         `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel   string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTPServer HTTPConfig     `yaml:"http_server"`
	Telegram   TelegramConfig `yaml:"telegram"`
	Defaults   DefaultsConfig `yaml:"defaults"`
	Sweep      SweepConfig    `yaml:"sweep"`
	Storage    StorageConfig  `yaml:"storage"`
}

type HTTPConfig struct {
	Port string `yaml:"port" env:"PORT" env-default:"8080"`
}

type TelegramConfig struct {
	BotToken string  `yaml:"bot_token" env:"BOT_TOKEN"`
	AdminIDs []int64 `yaml:"admin_ids" env:"ADMIN_IDS" env-separator:","`
}

type DefaultsConfig struct {
	Lang  string `yaml:"lang" env:"DEFAULT_LANG" env-default:"uz"`
	Theme string `yaml:"theme" env:"DEFAULT_THEME" env-default:"dark"`
}

type SweepConfig struct {
	Interval time.Duration `yaml:"interval" env:"SWEEP_INTERVAL" env-default:"30s"`
}

type StorageConfig struct {
	Driver   string          `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory"` // memory | postgres
	Postgres postgres.Config `yaml:"postgres"`
}

// MustLoad loads the configuration from the file named by the -config flag or
// CONFIG_PATH, falling back to environment variables only.
func MustLoad() *Config {
	configPath := fetchConfigPath()

	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			panic("cannot read config from environment: " + err.Error())
		}
		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}
	return &cfg
}

// fetchConfigPath resolves the config file path from flag or environment
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
