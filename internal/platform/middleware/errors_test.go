package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/surveyfax/surveyfax/pkg/docerr"
)

func serveError(t *testing.T, method string, err error, logger zerolog.Logger) (*httptest.ResponseRecorder, docerr.Body) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/api/v1/reports", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(logger)(err, c)

	var body docerr.Body
	if method != http.MethodHead {
		if jerr := json.Unmarshal(rec.Body.Bytes(), &body); jerr != nil {
			t.Fatalf("expected JSON body, got %q: %v", rec.Body.String(), jerr)
		}
	}
	return rec, body
}

func TestErrorHandler_Envelope(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"unauthorized", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"), http.StatusUnauthorized, "missing authorization header"},
		{"forbidden", echo.NewHTTPError(http.StatusForbidden, "insufficient role"), http.StatusForbidden, "insufficient role"},
		{"rate limited", echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"), http.StatusTooManyRequests, "rate limit exceeded"},
		{"not found", echo.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"no message", &echo.HTTPError{Code: http.StatusMethodNotAllowed}, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"schema violation", docerr.SchemaViolation("survey", "a survey object is expected."), http.StatusBadRequest, "Bad request, a survey object is expected."},
		{"plain error", errors.New("disk full"), http.StatusInternalServerError, "Service error. disk full."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serveError(t, http.MethodGet, tt.err, zerolog.Nop())
			if rec.Code != tt.code {
				t.Errorf("expected status %d, got %d", tt.code, rec.Code)
			}
			if body.Code != tt.code || body.Message != tt.message {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}

func TestErrorHandler_LogsServerErrorsOnly(t *testing.T) {
	var buf bytes.Buffer
	serveError(t, http.MethodGet, echo.ErrUnauthorized, zerolog.New(&buf))
	if buf.Len() != 0 {
		t.Errorf("expected no log for 401, got %s", buf.String())
	}

	serveError(t, http.MethodGet, errors.New("boom"), zerolog.New(&buf))
	if !strings.Contains(buf.String(), "request failed") {
		t.Errorf("expected 5xx to be logged, got %s", buf.String())
	}
}

func TestErrorHandler_Head(t *testing.T) {
	rec, _ := serveError(t, http.MethodHead, echo.ErrNotFound, zerolog.Nop())
	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Errorf("expected empty 404, got %d %q", rec.Code, rec.Body.String())
	}
}
