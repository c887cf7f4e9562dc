package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var loadDotEnv sync.Once

// Load populates the struct from environment variables using `env` tags,
// after loading a local .env file once per process (a missing .env is fine).
//
//	type StoreConfig struct {
//		APIKey string `env:"STORE_API_KEY,required"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	loadDotEnv.Do(func() {
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}
