package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config mirrors config.LoggerConfig to avoid importing the config package
// here.
type Config struct {
	Level    string
	Encoding string
	Path     string
}

// New builds a zap.Logger using the provided configuration. When Path is
// set the log is appended to that file, which keeps output away from the
// terminal UI; otherwise it goes to stderr.
func New(cfg Config) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		// fall back to info level if parsing fails
		level = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	sink := zapcore.Lock(os.Stderr)
	if cfg.Path != "" {
		f, err := os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		sink = zapcore.Lock(f)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(sink), level)
	return zap.New(core, zap.AddCaller()), nil
}
