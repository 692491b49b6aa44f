package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Database DatabaseConfig `yaml:"database"`
	Quiz     QuizConfig     `yaml:"quiz"`
	Log      LogConfig      `yaml:"log"`
}

// TelegramConfig holds bot transport settings.
type TelegramConfig struct {
	Token       string `yaml:"token"        env:"TELEGRAM_TOKEN" env-required:"true"`
	PollTimeout int    `yaml:"poll_timeout" env:"TELEGRAM_POLL_TIMEOUT" env-default:"30"`
	Debug       bool   `yaml:"debug"        env:"TELEGRAM_DEBUG" env-default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// QuizConfig holds card-generation settings.
type QuizConfig struct {
	// Direction selects which side of a pair is the prompt:
	// "source_to_target" or "target_to_source". Deployment-wide.
	Direction   string `yaml:"direction"   env:"QUIZ_DIRECTION"   env-default:"source_to_target"`
	Distractors int    `yaml:"distractors" env:"QUIZ_DISTRACTORS" env-default:"4"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Quiz direction values.
const (
	DirectionSourceToTarget = "source_to_target"
	DirectionTargetToSource = "target_to_source"
)
