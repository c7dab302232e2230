package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFileName = "p2p-chat.log"

var (
	Log   *zap.Logger
	Sugar *zap.SugaredLogger
)

func init() {
	// Nothing is written until Setup is called, so tests and library users
	// don't create log files.
	Log = zap.NewNop()
	Sugar = Log.Sugar()
}

// Setup points the global logger at <dir>/p2p-chat.log.
// An empty levelStr falls back to P2P_LOG_LEVEL, then LOG_LEVEL, then info.
func Setup(dir string, levelStr string) error {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006/01/02 15:04:05"))
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	level, err := ParseLevel(levelStr)
	if err != nil {
		file.Close()
		return err
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(file),
		level,
	)

	Log = zap.New(core, zap.AddCaller())
	Sugar = Log.Sugar()
	return nil
}

// ParseLevel resolves the log level from levelStr or the environment.
func ParseLevel(levelStr string) (zapcore.Level, error) {
	level := zapcore.InfoLevel
	levelStr = strings.TrimSpace(levelStr)
	if levelStr == "" {
		levelStr = strings.TrimSpace(os.Getenv("P2P_LOG_LEVEL"))
	}
	if levelStr == "" {
		levelStr = strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	}
	if levelStr == "" {
		return level, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(levelStr))); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", levelStr, err)
	}
	return level, nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
