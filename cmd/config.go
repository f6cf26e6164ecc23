package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings of the dispatch engine. Values come
// from the environment; a .env file in the working directory is loaded
// first when present.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string

	DispatchStandardRadiusKm   float64
	DispatchEscalationRadiusKm float64
	DispatchMaxCandidates      int
	CourierLocationMaxAge      time.Duration
	DispatchRetrySchedule      string

	DeliveryCodeTTL time.Duration
	// DeliveryMasterCode is the support-desk bypass for the completion
	// handshake. Empty disables the bypass entirely.
	DeliveryMasterCode string
}

// LoadConfig reads configuration from the environment with sane defaults
// for local development.
func LoadConfig() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "dispatch")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")

	v.SetDefault("DISPATCH_STANDARD_RADIUS_KM", 5.0)
	v.SetDefault("DISPATCH_ESCALATION_RADIUS_KM", 3.0)
	v.SetDefault("DISPATCH_MAX_CANDIDATES", 10)
	v.SetDefault("COURIER_LOCATION_MAX_AGE", "3m")
	v.SetDefault("DISPATCH_RETRY_SCHEDULE", "0 * * * * *")

	v.SetDefault("DELIVERY_CODE_TTL", "5m")
	v.SetDefault("DELIVERY_MASTER_CODE", "")

	return Config{
		HTTPPort: v.GetString("HTTP_PORT"),

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSslMode:  v.GetString("DB_SSLMODE"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		DispatchStandardRadiusKm:   v.GetFloat64("DISPATCH_STANDARD_RADIUS_KM"),
		DispatchEscalationRadiusKm: v.GetFloat64("DISPATCH_ESCALATION_RADIUS_KM"),
		DispatchMaxCandidates:      v.GetInt("DISPATCH_MAX_CANDIDATES"),
		CourierLocationMaxAge:      v.GetDuration("COURIER_LOCATION_MAX_AGE"),
		DispatchRetrySchedule:      v.GetString("DISPATCH_RETRY_SCHEDULE"),

		DeliveryCodeTTL:    v.GetDuration("DELIVERY_CODE_TTL"),
		DeliveryMasterCode: v.GetString("DELIVERY_MASTER_CODE"),
	}
}

// PostgresDSN builds the connection string for the gorm postgres driver.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
