package logger

import (
	"context"
	"log/slog"
	"runtime"
	"strings"

	"github.com/orris-inc/paygate/internal/shared/utils"
)

// sensitiveKeys are attribute keys whose values never reach the log output.
// Matching is case-insensitive.
var sensitiveKeys = map[string]func(string) string{
	"secret":                utils.MaskSecret,
	"shared_secret":         utils.MaskSecret,
	"checksum":              utils.MaskSecret,
	"consumeraccountnumber": utils.MaskSecret,
	"consumeremail":         utils.MaskEmail,
	"consumerphonenumber":   utils.MaskSecret,
}

// paygateHandler adds the call site for selected levels and masks sensitive
// attributes before delegating to the wrapped handler.
type paygateHandler struct {
	next        slog.Handler
	sourceLevel map[slog.Level]bool
}

// NewHandler wraps next. Source location is attached only for the listed levels,
// so next should be configured with AddSource: false.
func NewHandler(next slog.Handler, sourceLevels ...slog.Level) slog.Handler {
	levels := make(map[slog.Level]bool, len(sourceLevels))
	for _, l := range sourceLevels {
		levels[l] = true
	}
	return &paygateHandler{next: next, sourceLevel: levels}
}

func (h *paygateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *paygateHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})

	if h.sourceLevel[r.Level] && r.PC != 0 {
		f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		out.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
		}))
	}

	return h.next.Handle(ctx, out)
}

func (h *paygateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = redact(a)
	}
	return &paygateHandler{next: h.next.WithAttrs(masked), sourceLevel: h.sourceLevel}
}

func (h *paygateHandler) WithGroup(name string) slog.Handler {
	return &paygateHandler{next: h.next.WithGroup(name), sourceLevel: h.sourceLevel}
}

func redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]any, len(group))
		for i, ga := range group {
			masked[i] = redact(ga)
		}
		return slog.Group(a.Key, masked...)
	}
	mask, ok := sensitiveKeys[strings.ToLower(a.Key)]
	if !ok {
		return a
	}
	return slog.String(a.Key, mask(a.Value.String()))
}
