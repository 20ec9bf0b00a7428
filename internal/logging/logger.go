package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/workspace-task-api/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global zerolog logger. The returned closer flushes the
// rotating log file, if one was configured.
func Setup(cfg config.LoggingConfig) io.Closer {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stderr
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	log.Logger = zerolog.New(out).With().Timestamp().Str("service", "workspace-task-api").Logger()
	zerolog.DefaultContextLogger = &log.Logger
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
