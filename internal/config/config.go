package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB      DBConfig     `mapstructure:"db"`
	JWT     JWTConfig    `mapstructure:"jwt"`
	Google  GoogleConfig `mapstructure:"google"`
	Reaper  ReaperConfig `mapstructure:"reaper"`
	AppHost string       `mapstructure:"host"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type JWTConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
}

type GoogleConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	TokeninfoURL string        `mapstructure:"tokeninfo_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type ReaperConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

func Load() (*Config, error) {
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/configs")
	viper.SetConfigName("settings")
	viper.SetConfigType("yml")

	viper.SetDefault("jwt.access_ttl", "168h")
	viper.SetDefault("jwt.refresh_ttl", "1440h")
	viper.SetDefault("google.tokeninfo_url", "https://oauth2.googleapis.com/tokeninfo")
	viper.SetDefault("google.timeout", "10s")
	viper.SetDefault("reaper.interval", "24h")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
