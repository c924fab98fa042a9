package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Stripe   StripeConfig
	Log      LogConfig
	Paging   PagingConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URI            string
	Name           string
	ConnectTimeout time.Duration
}

type StripeConfig struct {
	SecretKey string
	Currency  string
}

type LogConfig struct {
	Level string
	File  string
}

type PagingConfig struct {
	DefaultLimit int
	MaxLimit     int
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "30s")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "gandalf")
	viper.SetDefault("MONGO_CONNECT_TIMEOUT", "30s")
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("STRIPE_CURRENCY", "inr")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FILE", "logs/gandalf.log")
	viper.SetDefault("PAGE_DEFAULT_LIMIT", 10)
	viper.SetDefault("PAGE_MAX_LIMIT", 100)

	connectTimeout, err := time.ParseDuration(viper.GetString("MONGO_CONNECT_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	readTimeout, err := time.ParseDuration(viper.GetString("SERVER_READ_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	writeTimeout, err := time.ParseDuration(viper.GetString("SERVER_WRITE_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	idleTimeout, err := time.ParseDuration(viper.GetString("SERVER_IDLE_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("SERVER_PORT"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		Database: DatabaseConfig{
			URI:            viper.GetString("MONGO_URI"),
			Name:           viper.GetString("MONGO_DB"),
			ConnectTimeout: connectTimeout,
		},
		Stripe: StripeConfig{
			SecretKey: viper.GetString("STRIPE_SECRET_KEY"),
			Currency:  viper.GetString("STRIPE_CURRENCY"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
			File:  viper.GetString("LOG_FILE"),
		},
		Paging: PagingConfig{
			DefaultLimit: viper.GetInt("PAGE_DEFAULT_LIMIT"),
			MaxLimit:     viper.GetInt("PAGE_MAX_LIMIT"),
		},
	}

	return cfg, nil
}
