package logger

import (
	"errors"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/AldairAG/PayGlobal/config"
)

// New builds the process logger: JSON to stdout plus a rotated, buffered file.
// An empty Filename logs to stdout only. The returned close func flushes the
// file buffer and stops its flush goroutine; call it once on shutdown.
func New(cfg *config.LogConfig) (*zap.Logger, func(), error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, err
	}

	ws, file := writer(cfg)
	l := zap.New(zapcore.NewCore(encoder(), ws, level), zap.AddCaller())
	zap.ReplaceGlobals(l)

	closeFn := func() {
		_ = l.Sync()
		if file != nil {
			_ = file.Stop()
		}
	}
	return l, closeFn, nil
}

func encoder() zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(ec)
}

func writer(cfg *config.LogConfig) (zapcore.WriteSyncer, *zapcore.BufferedWriteSyncer) {
	console := consoleSyncer{zapcore.AddSync(os.Stdout)}
	if cfg.Filename == "" {
		return console, nil
	}
	file := &zapcore.BufferedWriteSyncer{
		WS: zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}),
		Size:          256 * 1024,
		FlushInterval: 5 * time.Second,
	}
	return zapcore.NewMultiWriteSyncer(console, file), file
}

// consoleSyncer drops the fsync errors a pipe or terminal stdout returns.
type consoleSyncer struct {
	zapcore.WriteSyncer
}

func (c consoleSyncer) Sync() error {
	err := c.WriteSyncer.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
