package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/surveyfax/surveyfax/pkg/docerr"
)

// ErrorHandler renders every error that reaches echo as the {code, message}
// envelope. Typed docerr errors keep their message. Middleware failures
// (auth, roles, rate limit, routing) keep their status code.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := errorBody(err)
		if body.Code >= http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("request_id", c.Response().Header().Get(RequestIDHeader)).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(body.Code)
		} else {
			werr = c.JSON(body.Code, body)
		}
		if werr != nil {
			logger.Warn().Err(werr).Msg("writing error response")
		}
	}
}

func errorBody(err error) docerr.Body {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if he.Message != nil {
			msg = fmt.Sprintf("%v", he.Message)
		}
		return docerr.Body{Code: he.Code, Message: msg}
	}
	return docerr.BodyOf(err)
}
