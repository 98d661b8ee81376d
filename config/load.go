package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads App from the environment. A local .env is picked up when present.
func Load() (App, error) {
	_ = godotenv.Load()

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return App{}, err
	}
	return cfg, nil
}
