package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// NewLogger пишет одновременно в stdout и в файл. Если каталог для файла
// создать не удалось, остаётся только stdout.
func NewLogger(logFile string, debug bool) *zap.Logger {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	outputs := []string{"stdout"}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
			outputs = append(outputs, logFile)
		}
	}

	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger
}
