// Package logger is the leveled logger shared by the netspo packages. It is
// silent until Configure or UseConfigFile is called, so programs embedding the
// client decide whether portal traffic is reported at all.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"netspo/errors"
)

var errInvalidInterfaceType = errors.NewError("logger", errors.ErrInvalidInterfaceType.Error(), nil)

var (
	mu    sync.RWMutex
	base  = zap.NewNop()
	sugar = base.Sugar()
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Configure replaces the package logger with a console logger writing to the
// given output paths ("stderr" when none are given) at the named level.
func Configure(lvl string, paths ...string) error {
	if err := SetLevel(lvl); err != nil {
		return err
	}
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = paths
	cfg.ErrorOutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return errors.NewError("logger", "cannot build logger", err)
	}
	Use(l)
	return nil
}

// UseConfigFile sets up logging to a timestamped file inside logPath as well
// as the console.
func UseConfigFile(logPath string) error {
	err := os.MkdirAll(logPath, os.ModePerm)
	if err != nil {
		return errors.NewError("logger", "cannot create log directory", err)
	}
	name := filepath.Join(logPath, time.Now().Format("2006-01-02_150405")+".log")
	return Configure(level.String(), "stderr", name)
}

// Use installs l as the package logger.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	base = l
	sugar = l.Sugar()
}

// SetLevel changes the minimum level of loggers built by Configure.
func SetLevel(lvl string) error {
	if lvl == "" {
		return nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(lvl)); err != nil {
		return errors.NewError("logger", "invalid level "+lvl, err)
	}
	level.SetLevel(l)
	return nil
}

// L returns the structured logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered entries.
func Sync() error {
	return L().Sync()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// format accepts either a format string or an error, as the callers in this
// module report both.
func format(f any, v ...any) (string, bool) {
	switch a := f.(type) {
	case string:
		return fmt.Sprintf(a, v...), true
	case error:
		if len(v) == 0 {
			return a.Error(), true
		}
		return fmt.Sprintf(a.Error(), v...), true
	default:
		return "", false
	}
}

func Debug(f any, v ...any) {
	msg, ok := format(f, v...)
	if !ok {
		Fatal(errInvalidInterfaceType)
	}
	current().Debug(msg)
}

func Info(f any, v ...any) {
	msg, ok := format(f, v...)
	if !ok {
		Fatal(errInvalidInterfaceType)
	}
	current().Info(msg)
}

func Warn(f any, v ...any) {
	msg, ok := format(f, v...)
	if !ok {
		Fatal(errInvalidInterfaceType)
	}
	current().Warn(msg)
}

func Error(f any, v ...any) {
	msg, ok := format(f, v...)
	if !ok {
		Fatal(errInvalidInterfaceType)
	}
	current().Error(msg)
}

// This will log the error, then call os.Exit(1)
func Fatal(f any, v ...any) {
	msg, ok := format(f, v...)
	if !ok {
		msg = errInvalidInterfaceType.Error()
	}
	current().Fatal(msg)
}
