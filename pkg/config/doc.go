// Package config loads configuration structs from environment variables
// using `env` struct tags, with optional .env file support for local
// development.
//
//	type Config struct {
//		Addr   string `env:"HTTP_ADDR" envDefault:":8080"`
//		APIKey string `env:"FLAGGLY_API_KEY,required"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
