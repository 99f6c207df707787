package logger

// Config is loaded from the environment with config.Load.
type Config struct {
	Service string `env:"APP_NAME" envDefault:"tenantkit"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	Level   string `env:"LOG_LEVEL"`
	Format  string `env:"LOG_FORMAT"`
}
