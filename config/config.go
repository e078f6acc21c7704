package config

import (
	"time"

	"innkeep/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion   string `mapstructure:"GENERAL_VERSION"`
	Environment      string `mapstructure:"ENVIRONMENT"`
	ServerPort       int    `mapstructure:"SERVER_PORT"`
	DatabaseHost     string `mapstructure:"DB_HOST"`
	DatabasePort     int    `mapstructure:"DB_PORT"`
	DatabaseName     string `mapstructure:"DB_NAME"`
	DatabaseUser     string `mapstructure:"DB_USER"`
	DatabasePassword string `mapstructure:"DB_PASSWORD"`
	CacheAddress     string `mapstructure:"CACHE_ADDRESS"`
	CachePort        int    `mapstructure:"CACHE_PORT"`
	CorsAllowOrigins string `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret        string `mapstructure:"JWT_SECRET"`

	// Hotel policy settings consumed by the reconciliation engine.
	HotelTimezone        string `mapstructure:"HOTEL_TIMEZONE"`
	DefaultCheckInHour   int    `mapstructure:"DEFAULT_CHECKIN_HOUR"`
	DefaultCheckOutHour  int    `mapstructure:"DEFAULT_CHECKOUT_HOUR"`
	TickToleranceSeconds int    `mapstructure:"TICK_TOLERANCE_SECONDS"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	GuestLinkTTLHours    int    `mapstructure:"GUEST_LINK_TTL_HOURS"`
}

var ConfigInstance Config

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"CACHE_ADDRESS", "CACHE_PORT",
		"CORS_ALLOW_ORIGINS", "JWT_SECRET",
		"HOTEL_TIMEZONE", "DEFAULT_CHECKIN_HOUR", "DEFAULT_CHECKOUT_HOUR",
		"TICK_TOLERANCE_SECONDS", "SCHEDULER_ENABLED", "GUEST_LINK_TTL_HOURS",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	setDefaults()

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	log.Info("Successfully initialized config",
		"environment", config.Environment,
		"timezone", config.HotelTimezone,
		"defaultCheckInHour", config.DefaultCheckInHour,
		"defaultCheckOutHour", config.DefaultCheckOutHour,
	)
	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func setDefaults() {
	viper.SetDefault("HOTEL_TIMEZONE", "Europe/Prague")
	viper.SetDefault("DEFAULT_CHECKIN_HOUR", 14)
	viper.SetDefault("DEFAULT_CHECKOUT_HOUR", 10)
	viper.SetDefault("TICK_TOLERANCE_SECONDS", 59)
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("GUEST_LINK_TTL_HOURS", 72)
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.JWTSecret == "" {
		return log.Error("Fatal error: JWT_SECRET is required")
	}

	if _, err := time.LoadLocation(config.HotelTimezone); err != nil {
		return log.Err("Fatal error: invalid hotel timezone", err, "timezone", config.HotelTimezone)
	}

	if config.DefaultCheckInHour < 0 || config.DefaultCheckInHour > 23 {
		return log.Error("Fatal error: invalid default check-in hour", "hour", config.DefaultCheckInHour)
	}
	if config.DefaultCheckOutHour < 0 || config.DefaultCheckOutHour > 23 {
		return log.Error("Fatal error: invalid default check-out hour", "hour", config.DefaultCheckOutHour)
	}

	ConfigInstance = config
	return nil
}
