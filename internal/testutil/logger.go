package testutil

import (
	"io"

	"github.com/labstack/gommon/log"
)

func MakeNoopLogger() *log.Logger {
	logger := log.New("test")
	logger.SetOutput(io.Discard)
	logger.SetLevel(log.OFF)
	return logger
}
