package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr            string `mapstructure:"LISTEN_ADDR"`
	WebhookURL            string `mapstructure:"WEBHOOK_URL"`
	WebhookTimeoutSeconds int    `mapstructure:"WEBHOOK_TIMEOUT_SECONDS"`
	StrictDelivery        bool   `mapstructure:"STRICT_DELIVERY"`
	SourceTag             string `mapstructure:"SOURCE_TAG"`
	WorkflowVersion       string `mapstructure:"WORKFLOW_VERSION"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
	LogFormat             string `mapstructure:"LOG_FORMAT"`
	Debug                 bool   `mapstructure:"DEBUG"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("LISTEN_ADDR", ":8080")
	// Placeholder receiver: delivery is skipped while this is unchanged.
	viper.SetDefault("WEBHOOK_URL", "https://your-n8n-instance.com/webhook/onboarding")
	viper.SetDefault("WEBHOOK_TIMEOUT_SECONDS", 5)
	viper.SetDefault("STRICT_DELIVERY", false)
	viper.SetDefault("SOURCE_TAG", "vivassit-onboarding")
	viper.SetDefault("WORKFLOW_VERSION", "4.0")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("DEBUG", false)

	viper.SetEnvPrefix("VIVASSIT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Ignore err if .env doesn't exist
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
