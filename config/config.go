package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Client  ClientConfig  `mapstructure:"client"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Store   StoreConfig   `mapstructure:"store"`
}

type ServerConfig struct {
	// Base URLs of the game server, e.g. http://localhost:8080 and
	// ws://localhost:8080. The realtime endpoint and the lobby REST routes
	// are derived from these.
	HTTPBaseURL string `mapstructure:"http_base_url"`
	WSBaseURL   string `mapstructure:"ws_base_url"`
}

type ClientConfig struct {
	ReconnectIntervalMS int `mapstructure:"reconnect_interval_ms"`
	ChatLimit           int `mapstructure:"chat_limit"`
}

type MonitorConfig struct {
	Address string `mapstructure:"address"`
}

type StoreConfig struct {
	// Path of the sqlite database holding join credentials.
	CredentialsPath string `mapstructure:"credentials_path"`
}

func (c ClientConfig) ReconnectInterval() time.Duration {
	return time.Duration(c.ReconnectIntervalMS) * time.Millisecond
}

func LoadConfig(path string) (config *Config, err error) {
	// A missing .env is fine; the file only seeds the environment for
	// viper.AutomaticEnv below.
	_ = godotenv.Load()

	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_base_url", "http://localhost:8080")
	viper.SetDefault("server.ws_base_url", "ws://localhost:8080")
	viper.SetDefault("client.reconnect_interval_ms", 2000)
	viper.SetDefault("client.chat_limit", 500)
	viper.SetDefault("monitor.address", "")
	viper.SetDefault("store.credentials_path", "shclient.db")

	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		// Defaults cover every key; only a broken config file is fatal.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
