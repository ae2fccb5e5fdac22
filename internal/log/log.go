package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields is a set of structured log fields
type Fields = logrus.Fields

// Options configures the logger
type Options struct {
	// Level is the minimum level logged, eg: "debug", "info"
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	// File is an optional log file written in addition to stderr and
	// rotated by size
	File string `yaml:"file"`
	// NoColors disables colored output
	NoColors bool `yaml:"noColors"`
	// Caller adds the calling file, line and function to each entry
	Caller bool `yaml:"caller"`
}

// DefaultOptions returns info level colored logging to stderr
func DefaultOptions() Options {
	return Options{
		Level: "info",
	}
}

// New returns a logger configured with the given options
func New(opts Options) (*logrus.Logger, error) {

	logger := logrus.New()

	level := logrus.InfoLevel

	if opts.Level != "" {
		var err error
		level, err = logrus.ParseLevel(opts.Level)

		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	logger.SetLevel(level)

	logger.SetFormatter(&formatter.Formatter{
		NoColors:        opts.NoColors,
		TimestampFormat: "2006-01-02 15:04:05.000",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})

	writers := []io.Writer{os.Stderr}

	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetReportCaller(opts.Caller)

	return logger, nil
}

// Discard returns a logger that drops all output, for use in tests
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
