package router

import (
	"net"
	"net/http"
	"strings"

	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/pkg/uid"
)

const (
	// HeaderCorrelationID is the canonical header used to track requests end-to-end.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is an accepted alternative header name used by some proxies.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// middlewareRequestIdentity resolves the client address behind proxies and
// attaches a correlation id to the request context and the response headers.
func middlewareRequestIdentity(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ip := clientIP(r); ip != "" {
				r.RemoteAddr = ip
			}

			cid := firstNonEmpty(
				normalizeCID(r.Header.Get(HeaderCorrelationID)),
				normalizeCID(r.Header.Get(HeaderRequestID)),
			)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}

func normalizeCID(v string) string {
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}
	v = strings.TrimSpace(v)
	if len(v) > maxCorrelationIDLen {
		v = v[:maxCorrelationIDLen]
	}
	return v
}

// clientIP prefers proxy headers and falls back to the connection address.
// Values that do not parse as an IP are ignored.
func clientIP(r *http.Request) string {
	xff, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")

	for _, candidate := range []string{
		r.Header.Get("True-Client-IP"),
		r.Header.Get("X-Real-IP"),
		xff,
	} {
		candidate = strings.TrimSpace(candidate)
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
