package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base *zap.Logger

func levelFromString(l string) zapcore.Level {
	switch l {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init builds the process logger. LOG_DEV=1 switches to the console
// encoder; LOG_LEVEL controls verbosity (info by default).
func Init() {
	dev := os.Getenv("LOG_DEV") == "1"
	lvl := levelFromString(os.Getenv("LOG_LEVEL"))

	if dev {
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(lvl)
		base, _ = c.Build()
		return
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(os.Stdout),
		lvl,
	)
	base = zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}

func fieldsOf(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func logger() *zap.Logger {
	if base == nil {
		Init()
	}
	return base
}

func Info(msg string, fields map[string]any) {
	logger().Info(msg, fieldsOf(fields)...)
}

func Warn(msg string, fields map[string]any) {
	logger().Warn(msg, fieldsOf(fields)...)
}

func Error(msg string, fields map[string]any) {
	logger().Error(msg, fieldsOf(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	logger().Fatal(msg, fieldsOf(fields)...)
}
