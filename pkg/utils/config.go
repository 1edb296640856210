package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Booking  BookingConfig
	Spaces   SpacesConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// BookingConfig holds the operational rules applied to every booking window.
type BookingConfig struct {
	OpenHour     int // business day opens, local hour
	CloseHour    int // business day closes, local hour
	GraceMinutes int // overtime allowed before extra hours are billed
}

// SpaceConfig describes one bookable space type: fixed seat capacity and
// its pricing rules.
type SpaceConfig struct {
	TotalSpace         int
	PricePerSeatHour   float64
	WholeSpaceDiscount float64
}

type SpacesConfig struct {
	Coworking  SpaceConfig
	Conference SpaceConfig
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("OPEN_HOUR", 10)
	viper.SetDefault("CLOSE_HOUR", 17)
	viper.SetDefault("GRACE_MINUTES", 10)
	viper.SetDefault("COWORKING_TOTAL_SPACE", 20)
	viper.SetDefault("COWORKING_PRICE_PER_SEAT_HOUR", 300)
	viper.SetDefault("COWORKING_WHOLE_SPACE_DISCOUNT", 1000)
	viper.SetDefault("CONFERENCE_TOTAL_SPACE", 10)
	viper.SetDefault("CONFERENCE_PRICE_PER_SEAT_HOUR", 500)
	viper.SetDefault("CONFERENCE_WHOLE_SPACE_DISCOUNT", 1000)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Booking: BookingConfig{
			OpenHour:     viper.GetInt("OPEN_HOUR"),
			CloseHour:    viper.GetInt("CLOSE_HOUR"),
			GraceMinutes: viper.GetInt("GRACE_MINUTES"),
		},
		Spaces: SpacesConfig{
			Coworking: SpaceConfig{
				TotalSpace:         viper.GetInt("COWORKING_TOTAL_SPACE"),
				PricePerSeatHour:   viper.GetFloat64("COWORKING_PRICE_PER_SEAT_HOUR"),
				WholeSpaceDiscount: viper.GetFloat64("COWORKING_WHOLE_SPACE_DISCOUNT"),
			},
			Conference: SpaceConfig{
				TotalSpace:         viper.GetInt("CONFERENCE_TOTAL_SPACE"),
				PricePerSeatHour:   viper.GetFloat64("CONFERENCE_PRICE_PER_SEAT_HOUR"),
				WholeSpaceDiscount: viper.GetFloat64("CONFERENCE_WHOLE_SPACE_DISCOUNT"),
			},
		},
	}

	return config, nil
}
