package tracing

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	ExecutionTime = "exe_time"
	OutsiderKind  = "outsider_kind"
	ProxyUrl      = "proxy_url"
	AiModel       = "ai_model"
	AiAttempt     = "ai_attempt"
	AiBackoff     = "ai_backoff"
	AiTokens      = "ai_tokens"
	AiCost        = "ai_cost"
	AiTotalCost   = "ai_total_cost"
	InnerError    = "inner_error"
	RequestId     = "request_id"
	BatchId       = "batch_id"
	BatchSize     = "batch_size"
	BatchWidth    = "batch_width"
	SlotIndex     = "slot_index"
	SlotAttempt   = "slot_attempt"
	TemplateKind  = "template_kind"
	SubjectType   = "subject_type"
	Theme         = "theme"
)

type Logger struct {
	log *slog.Logger
	ctx context.Context
}

// NewConsoleLogger logs JSON to stderr; stdout belongs to command output.
func NewConsoleLogger() *Logger {
	return NewLogger(os.Stderr, parseLevel(os.Getenv("LOG_LEVEL")))
}

func NewLogger(w io.Writer, level slog.Level) *Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	logger.DebugContext(ctx, "Initializing logger", "level", level.String())
	return &Logger{log: logger, ctx: context.Background()}
}

// NewNopLogger discards everything. Tests use it.
func NewNopLogger() *Logger {
	return &Logger{log: slog.New(slog.NewJSONHandler(io.Discard, nil)), ctx: context.Background()}
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...), ctx: l.ctx}
}

func (l *Logger) D(msg string, args ...any) {
	l.log.DebugContext(l.ctx, msg, args...)
}

func (l *Logger) I(msg string, args ...any) {
	l.log.InfoContext(l.ctx, msg, args...)
}

func (l *Logger) W(msg string, args ...any) {
	l.log.WarnContext(l.ctx, msg, args...)
}

func (l *Logger) E(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
}

func (l *Logger) F(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
	panic(msg)
}
