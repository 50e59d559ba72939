package instrument

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const maskedValue = "***"

type loggingOptions struct {
	serviceName string
	level       slog.Level
	output      io.Writer
	provider    *sdklog.LoggerProvider
	maskFields  []string
}

func newLogHandler(opts loggingOptions) slog.Handler {
	var handler slog.Handler = slog.NewJSONHandler(opts.output, &slog.HandlerOptions{
		Level:       opts.level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})

	if opts.provider != nil {
		handler = &fanoutHandler{handlers: []slog.Handler{
			handler,
			otelslog.NewHandler(opts.serviceName, otelslog.WithLoggerProvider(opts.provider)),
		}}
	}

	return &contextHandler{
		Handler:     &maskHandler{handler: handler, maskKeys: buildMaskKeys(opts.maskFields)},
		serviceName: opts.serviceName,
	}
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		if !strings.Contains(src.File, "/internal/") {
			return slog.Attr{}
		}
		relPath := filepath.Join("internal", strings.SplitAfter(src.File, "/internal/")[1])
		return slog.String("file", fmt.Sprintf("%s:%d", relPath, src.Line))
	}
	return a
}

// ParseLevel maps a config value such as "debug" or "WARN" to a slog level.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// contextHandler stamps every record with the service name and the request
// correlation id.
type contextHandler struct {
	slog.Handler
	serviceName string
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if cID := GetCorrelationID(ctx); cID != "" {
		r.AddAttrs(slog.String("correlation_id", cID))
	}
	r.AddAttrs(slog.String("service", h.serviceName))

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), serviceName: h.serviceName}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), serviceName: h.serviceName}
}

// fanoutHandler writes each record to stdout JSON and to the OTLP log bridge.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (m *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range m.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range m.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, 0, len(m.handlers))
	for _, handler := range m.handlers {
		handlers = append(handlers, handler.WithAttrs(attrs))
	}
	return &fanoutHandler{handlers: handlers}
}

func (m *fanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, 0, len(m.handlers))
	for _, handler := range m.handlers {
		handlers = append(handlers, handler.WithGroup(name))
	}
	return &fanoutHandler{handlers: handlers}
}

// maskHandler replaces the values of sensitive keys (OTP codes, secrets,
// tokens) before they reach any sink, including keys nested in JSON payloads.
type maskHandler struct {
	handler  slog.Handler
	maskKeys map[string]struct{}
}

func (h *maskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *maskHandler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.maskKeys) == 0 {
		return h.handler.Handle(ctx, record)
	}

	masked := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		masked.AddAttrs(maskAttr(attr, h.maskKeys))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		masked = append(masked, maskAttr(attr, h.maskKeys))
	}

	return &maskHandler{handler: h.handler.WithAttrs(masked), maskKeys: h.maskKeys}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{handler: h.handler.WithGroup(name), maskKeys: h.maskKeys}
}

func buildMaskKeys(fields []string) map[string]struct{} {
	maskKeys := make(map[string]struct{})
	for _, field := range fields {
		field = strings.TrimSpace(strings.ToLower(field))
		if field == "" {
			continue
		}
		maskKeys[field] = struct{}{}
	}
	return maskKeys
}

func isMasked(key string, maskKeys map[string]struct{}) bool {
	_, found := maskKeys[strings.ToLower(key)]
	return found
}

func maskAttr(attr slog.Attr, maskKeys map[string]struct{}) slog.Attr {
	if len(maskKeys) == 0 {
		return attr
	}
	if isMasked(attr.Key, maskKeys) {
		return slog.String(attr.Key, maskedValue)
	}

	switch attr.Value.Kind() {
	case slog.KindGroup:
		group := attr.Value.Group()
		masked := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			masked = append(masked, maskAttr(ga, maskKeys))
		}
		attr.Value = slog.GroupValue(masked...)
	case slog.KindString:
		if masked, ok := maskJSON([]byte(attr.Value.String()), maskKeys); ok {
			attr.Value = slog.StringValue(masked)
		}
	case slog.KindAny:
		switch v := attr.Value.Any().(type) {
		case nil:
		case map[string]any, []any:
			attr.Value = slog.AnyValue(maskData(v, maskKeys))
		case map[string]string:
			converted := make(map[string]any, len(v))
			for k, v2 := range v {
				converted[k] = v2
			}
			attr.Value = slog.AnyValue(maskData(converted, maskKeys))
		case json.RawMessage:
			if masked, ok := maskJSON(v, maskKeys); ok {
				attr.Value = slog.AnyValue(json.RawMessage(masked))
			}
		case []byte:
			if masked, ok := maskJSON(v, maskKeys); ok {
				attr.Value = slog.StringValue(masked)
			}
		}
	}

	return attr
}

// maskJSON masks a JSON object or array payload. Anything else is reported
// as not handled.
func maskJSON(payload []byte, maskKeys map[string]struct{}) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}

	out, err := json.Marshal(maskData(body, maskKeys))
	if err != nil {
		return "", false
	}
	return string(out), true
}

func maskData(v any, maskKeys map[string]struct{}) any {
	switch val := v.(type) {
	case map[string]any:
		masked := make(map[string]any, len(val))
		for k, v2 := range val {
			if isMasked(k, maskKeys) {
				masked[k] = maskedValue
			} else {
				masked[k] = maskData(v2, maskKeys)
			}
		}
		return masked
	case []any:
		res := make([]any, len(val))
		for i, v2 := range val {
			res[i] = maskData(v2, maskKeys)
		}
		return res
	default:
		return v
	}
}
