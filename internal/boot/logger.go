package boot

import (
	"strings"

	"github.com/labstack/gommon/log"
)

// NewLogger builds the named logger a server hands to echo and to its services.
func NewLogger(name string, level string) *log.Logger {
	logger := log.New(name)
	logger.SetHeader(`{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}","file":"${short_file}","line":"${line}"}`)
	logger.SetLevel(ParseLevel(level))
	return logger
}

func ParseLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
