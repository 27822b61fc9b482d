package config

import "github.com/spf13/viper"

// Config holds everything loaded from config.env / the environment.
type Config struct {
	Addr                string `mapstructure:"ADDR"`
	DSN                 string `mapstructure:"DSN"`
	RTCSigningKey       string `mapstructure:"RTC_SIGNING_KEY"`
	MidtransServerKey   string `mapstructure:"MIDTRANS_SERVER_KEY"`
	SessionTTLHours     int    `mapstructure:"SESSION_TTL_HOURS"`
	AllowedOrigins      string `mapstructure:"ALLOWED_ORIGINS"`
	MidtransProduction  bool   `mapstructure:"MIDTRANS_PRODUCTION"`
}

// Load reads config.env from the working directory, with environment
// variables taking precedence.
func Load() (config Config, err error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("ADDR", ":8080")
	viper.SetDefault("SESSION_TTL_HOURS", 24*7)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
