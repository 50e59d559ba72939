package router

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/twofa/internal/pkg/goerror"
)

const maxBodyBytes = 64 * 1024

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// GetParam reads a path parameter from the request context (as stored by httprouter).
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetQuery returns the trimmed query value for key.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// DecodeBody decodes a single strict JSON object into dst.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	return decodeStrict(io.LimitReader(r.Body, maxBodyBytes), dst)
}

// DecodeOptionalBody is DecodeBody for endpoints whose payload may be omitted.
// An empty body leaves dst untouched.
func (r *Request) DecodeOptionalBody(dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	br := bufio.NewReader(io.LimitReader(r.Body, maxBodyBytes))
	if _, err := br.Peek(1); errors.Is(err, io.EOF) {
		return nil
	}

	return decodeStrict(br, dst)
}

func decodeStrict(rd io.Reader, dst any) error {
	dec := json.NewDecoder(rd)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return goerror.NewInvalidFormat()
	}

	return nil
}
