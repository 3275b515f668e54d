package common

import (
	"fmt"
	"github.com/lni/dragonboat/v4/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"strings"
	"sync"
	"sync/atomic"
)

// LoggerNames lists all loggers used by rpClip
var LoggerNames = []string{"rpc", "transport/rpc", "clipboard", "cli"}

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// rpClipLogger implements the ILogger interface on top of a zap logger.
// The level may change while other goroutines log.
type rpClipLogger struct {
	name   string
	level  atomic.Int32
	logger *zap.SugaredLogger
}

func (l *rpClipLogger) SetLevel(level logger.LogLevel) {
	l.level.Store(int32(level))
}

func (l *rpClipLogger) enabled(level logger.LogLevel) bool {
	return logger.LogLevel(l.level.Load()) >= level
}

func (l *rpClipLogger) Debugf(format string, args ...interface{}) {
	if l.enabled(logger.DEBUG) {
		l.logger.Debugf(format, args...)
	}
}

func (l *rpClipLogger) Infof(format string, args ...interface{}) {
	if l.enabled(logger.INFO) {
		l.logger.Infof(format, args...)
	}
}

func (l *rpClipLogger) Warningf(format string, args ...interface{}) {
	if l.enabled(logger.WARNING) {
		l.logger.Warnf(format, args...)
	}
}

func (l *rpClipLogger) Errorf(format string, args ...interface{}) {
	if l.enabled(logger.ERROR) {
		l.logger.Errorf(format, args...)
	}
}

func (l *rpClipLogger) Panicf(format string, args ...interface{}) {
	if l.enabled(logger.CRITICAL) {
		panic(fmt.Sprintf(format, args...))
	}
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

var (
	baseLogger     *zap.Logger
	baseLoggerOnce sync.Once

	// dragonboat panics if the factory is set twice
	factoryOnce sync.Once
)

// newBaseLogger builds the zap logger shared by all package loggers.
// Everything is written to stderr, stdout belongs to the command output.
func newBaseLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel) // filtering happens in rpClipLogger
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	config.EncoderConfig.ConsoleSeparator = " | "

	l, err := config.Build()
	if err != nil {
		// stderr is always available, this only fails on a broken config
		return zap.NewNop()
	}
	return l
}

// CreateLogger implements dragonboats logger.Factory
func CreateLogger(pkgName string) logger.ILogger {
	baseLoggerOnce.Do(func() {
		baseLogger = newBaseLogger()
	})

	l := &rpClipLogger{
		name:   pkgName,
		logger: baseLogger.Named(pkgName).Sugar(),
	}
	l.SetLevel(logger.INFO)
	return l
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, NewRPCError(ErrKConfig,
			fmt.Sprintf("invalid log level: %s. must be one of debug, info, warn, error", level))
	}
}

// PrintfLogger adapts a logger.ILogger to the Printf interface expected by
// github.com/rcrowley/go-metrics. Lines are logged at debug level.
type PrintfLogger struct {
	Logger logger.ILogger
}

// Printf logs a formatted line at debug level
func (p PrintfLogger) Printf(format string, args ...interface{}) {
	p.Logger.Debugf(strings.TrimRight(format, "\n"), args...)
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the rpClip logger factory on the first call and sets
// the level of all rpClip loggers. It may be called any number of times.
func InitLoggers(level string) error {
	logLevel, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	factoryOnce.Do(func() {
		logger.SetLoggerFactory(CreateLogger)
	})

	for _, name := range LoggerNames {
		logger.GetLogger(name).SetLevel(logLevel)
	}
	return nil
}
