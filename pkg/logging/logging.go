// Package logging provides request-scoped zap loggers keyed on the
// gateway's client order id and, once the core has assigned one, the
// matching engine's own orderbook.OrderID — so a single log line can be
// traced from a FIX ClOrdID through to the core fill it produced.
package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

// Logger wraps zap.Logger with context support
type Logger struct {
	logger *zap.Logger
}

// LogLevel defines the logging level
type LogLevel zapcore.Level

const (
	DEBUG LogLevel = LogLevel(zapcore.DebugLevel)
	INFO  LogLevel = LogLevel(zapcore.InfoLevel)
	WARN  LogLevel = LogLevel(zapcore.WarnLevel)
	ERROR LogLevel = LogLevel(zapcore.ErrorLevel)
	FATAL LogLevel = LogLevel(zapcore.FatalLevel)
)

// contextKey defines a type for context keys
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	orderIDKey   contextKey = "order_id"
	loggerKey    contextKey = "logger"
)

// NewLogger creates a new Logger instance
func NewLogger(level LogLevel) *Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.Level(level))
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return &Logger{logger: logger}
}

// WithRequestID tags ctx with the gateway-facing client order id
// (ClOrdID-equivalent), the identifier a caller knows before the core
// has ever seen the order.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithOrderID tags ctx with the core's own orderbook.OrderID, once
// AddOrder has minted one. A context can carry both: the request id
// traces the call from the caller's side, the order id from the
// core's.
func WithOrderID(ctx context.Context, id orderbook.OrderID) context.Context {
	return context.WithValue(ctx, orderIDKey, id)
}

// getRequestID retrieves request_id from context
func getRequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return "no-request-id"
}

// GetLogger retrieves or creates a logger for the given context
func GetLogger(ctx context.Context) (*Logger, context.Context) {
	// Check if logger exists in context
	if logger, ok := ctx.Value(loggerKey).(*Logger); ok {
		// Verify if request_id exists (basic key)
		if _, ok := ctx.Value(requestIDKey).(string); ok {
			return logger, ctx
		}
	}

	// Create new logger with request_id (and order_id, once the core
	// has assigned one)
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel) // Default level: INFO
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapLogger, _ := config.Build()
	fields := []zap.Field{zap.String("request_id", getRequestID(ctx))}
	if id, ok := ctx.Value(orderIDKey).(orderbook.OrderID); ok {
		fields = append(fields, zap.String("order_id", id.String()))
	}
	logger := &Logger{logger: zapLogger.With(fields...)}

	// Store logger in context
	ctx = context.WithValue(ctx, loggerKey, logger)
	return logger, ctx
}

// logMessage logs a message with the specified level and context
func (l *Logger) logMessage(ctx context.Context, level LogLevel, msg string, fields ...zap.Field) {
	logger := l.logger
	switch level {
	case DEBUG:
		logger.Debug(msg, fields...)
	case INFO:
		logger.Info(msg, fields...)
	case WARN:
		logger.Warn(msg, fields...)
	case ERROR:
		logger.Error(msg, fields...)
	case FATAL:
		logger.Fatal(msg, fields...)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.logMessage(ctx, DEBUG, msg, fields...)
}

// Info logs an info message
func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.logMessage(ctx, INFO, msg, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.logMessage(ctx, WARN, msg, fields...)
}

// Error logs an error message
func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.logMessage(ctx, ERROR, msg, fields...)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.logMessage(ctx, FATAL, msg, fields...)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.logger.Sync()
}
