// Package config loads typed configuration structs from environment
// variables (and an optional .env file) using caarlos0/env tags. Every
// package that needs settings declares its own Config struct; this package
// only does the parsing.
package config
