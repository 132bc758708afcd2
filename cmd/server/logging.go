package main

import (
	"os"
	"time"

	"github.com/jrsteele09/go-decap-oauth/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogging configures the global zerolog logger. A nil config gives the
// console logger used until the environment has been read.
func setupLogging(c *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	if c == nil || c.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	level := zerolog.InfoLevel
	if c != nil {
		level = c.LogLevel
	}
	zerolog.SetGlobalLevel(level)
}
