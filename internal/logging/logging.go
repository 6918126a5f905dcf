package logging

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// Setup configures the process-wide logrus logger. Call once from main
// before anything logs.
func Setup() {
	log.SetFormatter(&log.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	log.SetOutput(os.Stdout)

	level := log.InfoLevel
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if parsed, err := log.ParseLevel(s); err == nil {
			level = parsed
		}
	}
	log.SetLevel(level)
}
