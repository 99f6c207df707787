// Package config loads environment-backed configuration structs.
//
// Each package that needs settings declares its own struct with
// caarlos0/env tags (pg.Config, redis.Config, auth.Config, ...). Load fills
// it, reading a .env file once per process through godotenv, and caches the
// result per type so repeated calls are cheap:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
package config
