package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port int
	}
	News struct {
		APIKey string
	}
	OpenAI struct {
		APIKey string
	}
	Store struct {
		StatusFile string
	}
	Events struct {
		PollInterval string
	}
	DeploymentMode string
	DebugMode      bool
}

// LoadConfig reads configuration from the environment, optionally merged
// with a config.yaml. BIGKINDS_API_KEY is the only required setting; the
// OpenAI key is optional and its absence disables the generation endpoints.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Default values
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("store.statusfile", "news_status.json")
	viper.SetDefault("events.pollinterval", "1s")
	viper.SetDefault("deploymentmode", "development")
	viper.SetDefault("debugmode", false)

	viper.BindEnv("news.apikey", "BIGKINDS_API_KEY")
	viper.BindEnv("openai.apikey", "OPENAI_API_KEY")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("store.statusfile", "STATUS_FILE")
	viper.BindEnv("events.pollinterval", "EVENT_POLL_INTERVAL")
	viper.BindEnv("deploymentmode", "DEPLOYMENT_MODE")
	viper.BindEnv("debugmode", "DEBUG_MODE")

	// config.yaml is optional; the environment alone is enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.News.APIKey == "" {
		return nil, fmt.Errorf("BIGKINDS_API_KEY is not set")
	}

	return &config, nil
}

// IsProduction reports whether the deployment-mode flag selects production
// behavior (release-mode HTTP framework, debug endpoints hidden).
func (c *Config) IsProduction() bool {
	return c.DeploymentMode == "production"
}

// GetPollInterval parses the event stream poll interval, falling back to
// one second on a bad value.
func (c *Config) GetPollInterval() time.Duration {
	duration, err := time.ParseDuration(c.Events.PollInterval)
	if err != nil || duration <= 0 {
		return time.Second
	}
	return duration
}
