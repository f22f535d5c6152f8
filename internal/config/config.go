package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Log       LogConfig
	Inventory InventoryConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type InventoryConfig struct {
	TxTimeout          time.Duration
	MaxRetryAttempts   int
	ForecastWindowDays int
	ExpiryWarningDays  int
}

func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "stockledger")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "stockledger")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("INVENTORY_TX_TIMEOUT", "5s")
	viper.SetDefault("INVENTORY_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("INVENTORY_FORECAST_WINDOW_DAYS", 30)
	viper.SetDefault("INVENTORY_EXPIRY_WARNING_DAYS", 30)

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, err
	}

	txTimeout, err := time.ParseDuration(viper.GetString("INVENTORY_TX_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Inventory: InventoryConfig{
			TxTimeout:          txTimeout,
			MaxRetryAttempts:   viper.GetInt("INVENTORY_MAX_RETRY_ATTEMPTS"),
			ForecastWindowDays: viper.GetInt("INVENTORY_FORECAST_WINDOW_DAYS"),
			ExpiryWarningDays:  viper.GetInt("INVENTORY_EXPIRY_WARNING_DAYS"),
		},
	}

	return cfg, nil
}
