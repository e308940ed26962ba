package main

import "time"

type Config struct {
	SinkCapacity              int           `env:"SINK_CAPACITY,required=true"`
	ModerationCharReplacement rune          `env:"MODERATION_CHARACTER_REPLACEMENT,required=true"`
	LimitMessages             *int          `env:"LIMIT_MESSAGES"`
	SinkTimeout               time.Duration `env:"SINK_TIMEOUT,required=true"`
	RestartInterval           time.Duration `env:"RESTART_INTERVAL,required=true"`
	StatsInterval             time.Duration `env:"STATS_INTERVAL,default=30s"`
	GCInterval                time.Duration `env:"GC_INTERVAL,default=5m"`
	ShutdownTimeout           time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	BadgerFilepath            string        `env:"BADGER_FILEPATH,required=true"`
	TokenSecret               string        `env:"TOKEN_SECRET,required=true"`
	TokenDuration             time.Duration `env:"TOKEN_DURATION,default=24h"`
	AllowedOrigins            string        `env:"ALLOWED_ORIGINS"`
	LogLevel                  string        `env:"LOG_LEVEL,required=true"`
	Host                      string        `env:"HOST,default=localhost"`
	Port                      int           `env:"PORT,default=8080"`
}
