package queue

import "time"

// Config holds worker and scheduler settings.
type Config struct {
	PollInterval       time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"5s"`
	LockTimeout        time.Duration `env:"QUEUE_LOCK_TIMEOUT" envDefault:"5m"`
	CheckInterval      time.Duration `env:"QUEUE_CHECK_INTERVAL" envDefault:"30s"`
	MaxConcurrentTasks int           `env:"QUEUE_MAX_CONCURRENT_TASKS" envDefault:"10"`
	MaxRetries         int           `env:"QUEUE_MAX_RETRIES" envDefault:"3"`
}
