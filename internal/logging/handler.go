// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tempor Contributors

// Package logging configures log/slog for the tempor CLI: JSON or text
// output, a minimum level, and service, version and trace attributes on
// every record.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/tempor/tempor/pkg/errutil"
)

// Formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// contextHandler adds process and trace attributes to records.
type contextHandler struct {
	next    slog.Handler
	service string
	version string
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(
		slog.String("service", h.service),
		slog.String("version", h.version),
	)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.next.Handle(ctx, r)
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), service: h.service, version: h.version}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), service: h.service, version: h.version}
}

// ParseLevel maps "debug", "info", "warn" or "error" to a level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, errutil.Configuration().With("level", s).Errorf("invalid log level %q", s)
	}
	return level, nil
}

// Setup builds a logger writing to w, or os.Stderr when w is nil. An empty
// format means JSON.
func Setup(service, version, format string, level slog.Level, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	var base slog.Handler
	switch format {
	case "", FormatJSON:
		base = slog.NewJSONHandler(w, opts)
	case FormatText:
		base = slog.NewTextHandler(w, opts)
	default:
		return nil, errutil.Configuration().With("format", format).Errorf("invalid log format %q", format)
	}
	return slog.New(&contextHandler{next: base, service: service, version: version}), nil
}

// SetDefault installs a logger built by Setup as the slog default.
func SetDefault(service, version, format string, level slog.Level, w io.Writer) error {
	logger, err := Setup(service, version, format, level, w)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
