package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:err113,errorlint // this must compare directly
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			stack := debug.Stack()
			if frames := internalFrames(stack); len(frames) > 0 {
				slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", frames)
			} else {
				slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", string(stack))
			}

			writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}

// internalFrames keeps the "internal/...go:line" locations of a debug.Stack
// dump and drops runtime and dependency frames.
func internalFrames(stack []byte) []string {
	var frames []string
	for _, line := range strings.Split(string(stack), "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}

		loc, _, _ := strings.Cut(line[idx+1:], " ")
		frames = append(frames, loc)
	}
	return frames
}
