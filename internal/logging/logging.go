// Package logging builds the process logger and lets code written against
// log/slog write through it.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// New creates a zerolog logger writing to w at the named level.
// A console logger writes human readable lines instead of JSON.
func New(w io.Writer, level string, console bool) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), errors.Wrapf(err, "log level %q", level)
		}
	}

	if console {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Slog returns a slog logger backed by l.
func Slog(l zerolog.Logger) *slog.Logger { return slog.New(NewHandler(l)) }

// Handler is a [slog.Handler] that forwards records to a zerolog logger.
type Handler struct {
	logger zerolog.Logger
	attrs  []slog.Attr
	prefix string
}

var _ slog.Handler = (*Handler)(nil)

func NewHandler(l zerolog.Logger) *Handler { return &Handler{logger: l} }

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	lvl := zerologLevel(level)
	return lvl >= h.logger.GetLevel() && lvl >= zerolog.GlobalLevel()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	e := h.logger.WithLevel(zerologLevel(r.Level))
	if e == nil {
		return nil
	}

	for _, a := range h.attrs {
		appendAttr(e, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(e, h.prefix, a)
		return true
	})

	e.Msg(r.Message)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func appendAttr(e *zerolog.Event, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := prefix + a.Key
	switch a.Value.Kind() {
	case slog.KindGroup:
		p := prefix
		if a.Key != "" {
			p = key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(e, p, ga)
		}
	case slog.KindString:
		e.Str(key, a.Value.String())
	case slog.KindInt64:
		e.Int64(key, a.Value.Int64())
	case slog.KindUint64:
		e.Uint64(key, a.Value.Uint64())
	case slog.KindFloat64:
		e.Float64(key, a.Value.Float64())
	case slog.KindBool:
		e.Bool(key, a.Value.Bool())
	case slog.KindDuration:
		e.Dur(key, a.Value.Duration())
	case slog.KindTime:
		e.Time(key, a.Value.Time())
	default:
		if err, ok := a.Value.Any().(error); ok {
			e.AnErr(key, err)
			return
		}
		e.Interface(key, a.Value.Any())
	}
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	case level >= slog.LevelDebug:
		return zerolog.DebugLevel
	}
	return zerolog.TraceLevel
}
