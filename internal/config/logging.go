package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// SetupLogging configures the process-wide logrus logger.
func SetupLogging(cfg LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	log.SetOutput(os.Stdout)
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	return nil
}
