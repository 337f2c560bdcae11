package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/grinscan/grinscan/internal/model"
)

// commitmentPattern matches a hex encoded commitment embedded anywhere in a
// string, not as part of a longer hex run.
var commitmentPattern = regexp.MustCompile(fmt.Sprintf(`\b[0-9a-fA-F]{%d}\b`, model.CommitmentHexLen))

// Keys whose values are dropped entirely. A whole received-tx line lists
// every input, output and kernel of a transaction.
var dropKeys = map[string]bool{
	"raw_line": true,
	"record":   true,
}

// MaskValue replaces the values of dropped keys.
const MaskValue = "***REDACTED***"

// RedactingHandler wraps an slog.Handler and abbreviates commitments.
// Commitment values, and commitments embedded in strings or the message,
// are shortened to their first eight characters before the record reaches
// the underlying handler.
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler creates a new RedactingHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's message and attributes and passes it on.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, redactString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes redacted and added.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			redacted[i] = redactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	if dropKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, redactString(a.Value.String()))
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case model.Commitment:
			return slog.String(a.Key, v.Short())
		case []model.Commitment:
			short := make([]string, len(v))
			for i, c := range v {
				short[i] = c.Short()
			}
			return slog.Any(a.Key, short)
		case error:
			return slog.String(a.Key, redactString(v.Error()))
		}
	}
	return a
}

func redactString(s string) string {
	if len(s) < model.CommitmentHexLen {
		return s
	}
	return commitmentPattern.ReplaceAllStringFunc(s, func(hex string) string {
		return model.Commitment(hex).Short()
	})
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a text slog.Logger that redacts commitments.
// verbose sets the level to Debug, otherwise Warn.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewRedactingHandler(textHandler))
}

// NewJSONLogger is NewLogger with JSON output.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewRedactingHandler(jsonHandler))
}
