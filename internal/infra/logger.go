package infra

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/umalmyha/bankadmin/internal/config"
)

const logFormatText = "text"

// Logger builds application logger, JSON formatter is used unless text format is requested
func Logger(cfg config.LogCfg) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(cfg.Level)

	if cfg.Format == logFormatText {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
