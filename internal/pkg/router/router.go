package router

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/twofa/internal/pkg/config"
	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
	"github.com/shandysiswandi/twofa/internal/pkg/instrument"
	"github.com/shandysiswandi/twofa/internal/pkg/jwt"
	"github.com/shandysiswandi/twofa/internal/pkg/uid"
	"github.com/shandysiswandi/twofa/internal/pkg/validator"
)

// errorResponse is the failure envelope. Data carries goerror data, e.g. the
// factors a verification still requires.
type errorResponse struct {
	Success bool              `json:"success" example:"false"`
	Message string            `json:"message" example:"Please enter the email OTP code"`
	Data    any               `json:"data,omitempty" swaggertype:"object"`
	Error   map[string]string `json:"error,omitempty"`
}

type successResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Two-factor authentication passed"`
	Data    any    `json:"data" swaggertype:"object"`
}

// Handler returns a payload to encode into the success envelope, or an error.
// A payload implementing Message() string sets the envelope message.
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	Config     config.Config
	UUID       uid.StringID
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	// PublicEndpoints skip authentication, keyed by method then route path.
	// GET / and GET /health are always public.
	PublicEndpoints map[string][]string
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// NewRouter builds the application router with its standard middleware chain.
func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	hr.GET("/", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, successResponse{Success: true, Message: "Two-factor authentication service"}, http.StatusOK)
	})

	return &Router{
		hr: hr,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareRequestIdentity(cfg.UUID),
			middlewareObservability(cfg.Instrument),
			middlewareMaintenance(cfg.Config),
			middlewareAuthentication(cfg.JWT, publicEndpointSet(cfg.PublicEndpoints)),
		},
	}
}

func publicEndpointSet(extra map[string][]string) map[string]map[string]struct{} {
	set := map[string]map[string]struct{}{
		http.MethodGet: {"/": {}, "/health": {}},
	}
	for method, paths := range extra {
		if set[method] == nil {
			set[method] = make(map[string]struct{}, len(paths))
		}
		for _, path := range paths {
			set[method][path] = struct{}{}
		}
	}
	return set
}

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPut, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			if rec, ok := w.(interface{ SetError(error) }); ok {
				rec.SetError(err)
			}
			writeError(w, err)
			return
		}
		writeSuccess(w, resp)
	})

	r.hr.Handler(method, path, Chain(handler, append(r.mws, mws...)...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

// writeError renders err in the failure envelope. Errors that are not a
// goerror never leak their text.
func writeError(w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	resp := errorResponse{Message: gerr.Msg(), Data: gerr.Data(), Error: gerr.Fields()}

	var verr validator.V10ValidationError
	if errors.As(err, &verr) {
		resp.Error = verr.Values()
	}

	writeJSON(w, resp, gerr.StatusCode())
}

func writeSuccess(w http.ResponseWriter, resp any) {
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg := "request has been successfully"
	if m, ok := resp.(interface{ Message() string }); ok {
		msg = m.Message()
	}

	writeJSON(w, successResponse{Success: true, Message: msg, Data: resp}, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response body", "error", err)
	}
}
