package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const maxLoggedBodyBytes = 32 * 1024

// statusRecorder captures the status, size and (capped) body of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	body   bytes.Buffer
	capped bool
	err    error
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if remaining := maxLoggedBodyBytes - w.body.Len(); remaining < len(p) {
		w.body.Write(p[:max(remaining, 0)])
		w.capped = true
	} else {
		w.body.Write(p)
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// SetError lets the endpoint wrapper attach the handler error to the span.
func (w *statusRecorder) SetError(err error) {
	w.err = err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *statusRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// loggableBody turns a payload into a log value. JSON stays JSON so the log
// handler can mask sensitive keys inside it.
func loggableBody(body []byte, capped bool) any {
	if len(body) == 0 {
		return nil
	}
	if !capped && json.Valid(body) {
		return json.RawMessage(body)
	}
	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	if capped {
		return string(body) + "...(truncated)"
	}
	return string(body)
}

func loggableHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func peekRequestBody(r *http.Request) ([]byte, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}

	//nolint:errcheck // best effort for logging only
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(head), r.Body))

	if len(head) > maxLoggedBodyBytes {
		return head[:maxLoggedBodyBytes], true
	}
	return head, false
}

type httpMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newHTTPMetrics(meter metric.Meter) httpMetrics {
	var m httpMetrics
	var err error

	m.requests, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests received"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}

	m.duration, err = meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"), metric.WithUnit("ms"))
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return m
}

func (m httpMetrics) record(r *http.Request, elapsed time.Duration, attrs []attribute.KeyValue) {
	ctx := r.Context()
	if m.requests != nil {
		m.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if m.duration != nil {
		m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, metric.WithAttributes(attrs...))
	}
}

// middlewareObservability traces each request, records request metrics and
// logs the request and response. Sensitive fields are masked by the default
// slog handler installed by the instrument package.
func middlewareObservability(ins instrument.Instrumentation) Middleware {
	tracer := ins.Tracer("http.server")
	metrics := newHTTPMetrics(ins.Meter("http.server"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			start := time.Now()

			ctx, span := tracer.Start(r.Context(), r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
					semconv.ClientAddress(r.RemoteAddr),
				),
			)
			defer span.End()
			r = r.WithContext(ctx)

			reqBody, reqCapped := peekRequestBody(r)
			slog.InfoContext(ctx, "request received",
				"method", r.Method,
				"path", route,
				"uri", r.RequestURI,
				"client_ip", r.RemoteAddr,
				"headers", loggableHeaders(r.Header),
				"body", loggableBody(reqBody, reqCapped),
			)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.statusCode()
			elapsed := time.Since(start)
			attrs := []attribute.KeyValue{
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			}

			if rec.err != nil {
				span.RecordError(rec.err)
			}
			switch {
			case status >= http.StatusInternalServerError && rec.err != nil:
				span.SetStatus(codes.Error, rec.err.Error())
			case status >= http.StatusInternalServerError:
				span.SetStatus(codes.Error, http.StatusText(status))
			default:
				span.SetStatus(codes.Ok, "")
			}
			span.SetAttributes(append(attrs,
				semconv.NetworkProtocolVersionKey.String(r.Proto),
				semconv.ServerAddressKey.String(r.Host),
				semconv.UserAgentOriginal(r.UserAgent()),
				attribute.Int("http.response_content_length", rec.bytes),
			)...)

			metrics.record(r, elapsed, attrs)

			slog.InfoContext(ctx, "response sent",
				"method", r.Method,
				"path", route,
				"status", status,
				"bytes", rec.bytes,
				"latency_ms", elapsed.Milliseconds(),
				"body", loggableBody(rec.body.Bytes(), rec.capped),
			)
		})
	}
}
