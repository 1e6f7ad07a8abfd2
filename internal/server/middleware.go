package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const (
	// RequestIDHeader carries the request correlation id.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
)

// requestID reuses an incoming X-Request-ID or generates a UUID, and echoes
// it on the response.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			c.Set(requestIDKey, id)
			c.Response().Header().Set(RequestIDHeader, id)
			return next(c)
		}
	}
}

func getRequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func cors(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, RequestIDHeader},
	})
}

func recoverer() echo.MiddlewareFunc {
	return middleware.Recover()
}

// requestLogger writes one structured line per request. The level follows
// the final status: 5xx error, 4xx warn, anything else info.
func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogMethod:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			status := v.Status
			// The error handler has not written the response yet when a
			// handler returns an error.
			if v.Error != nil {
				status, _ = statusOf(v.Error)
			}

			zl := s.log.Zerolog()
			var e *zerolog.Event
			switch {
			case status >= 500:
				e = zl.Error().Err(v.Error)
			case status >= 400:
				e = zl.Warn()
			default:
				e = zl.Info()
			}
			e.Str("request_id", getRequestID(c)).
				Dur("latency", v.Latency).
				Int("status", status).
				Str("method", v.Method).
				Str("uri", v.URI).
				Msg("API")
			return nil
		},
	})
}

// statusOf maps an error to its HTTP status and client message.
func statusOf(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, types.ErrInvalidField),
		errors.Is(err, types.ErrUnchanged),
		errors.Is(err, types.ErrTransient):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// errorHandler writes every handler error as {"message": ...}.
func (s *Server) errorHandler(err error, c echo.Context) {
	status, msg := statusOf(err)
	if status >= 500 {
		s.log.Error("Request {} failed: {}", getRequestID(c), err)
	}
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, map[string]string{"message": msg})
	}
	if err != nil {
		s.log.Error("Writing error response: {}", err)
	}
}
