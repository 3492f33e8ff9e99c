package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Level       string
	Format      string
	ServiceName string
}

// New builds the process logger. Unknown levels fall back to info; any format other
// than "json" is text.
func New(cfg Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		})
	}
	log.SetOutput(os.Stdout)

	return log
}

// Service returns an entry tagged with the service name, used as the root logger
// handed to services.
func Service(log *logrus.Logger, serviceName string) *logrus.Entry {
	return log.WithField("service", serviceName)
}
