// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package log

import (
	"io"
	stdlog "log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SimpleLogger writes structured JSON log lines to a single writer.
type SimpleLogger struct {
	logger *zap.Logger
}

func NewSimpleLogger(w io.Writer) *SimpleLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapcore.InfoLevel,
	)
	return &SimpleLogger{
		logger: zap.New(core),
	}
}

// Log writes one message with the given fields.
func (l *SimpleLogger) Log(msg string, fields map[string]interface{}) error {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	l.logger.Info(msg, zapFields...)
	return nil
}

// Flush writes out any buffered log lines.
func (l *SimpleLogger) Flush() error {
	return l.logger.Sync()
}

// WrapStandardLogger adapts the logger for APIs that require a
// standard library *log.Logger.
func WrapStandardLogger(l *SimpleLogger) *stdlog.Logger {
	return zap.NewStdLog(l.logger)
}
