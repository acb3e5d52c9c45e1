package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	bankErrors "github.com/umalmyha/bankadmin/internal/errors"
	"github.com/umalmyha/bankadmin/internal/validation"
)

type errorMessage struct {
	Message string `json:"message"`
}

// ErrorHandler maps errors to status codes, browser requests get error page and others get JSON body
func ErrorHandler(ctxProvider ContextProvider, logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)

		entry := logger.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"uri":    c.Request().RequestURI,
			"status": status,
		}).WithError(err)

		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Warn("request rejected")
		}

		var respErr error
		switch {
		case c.Request().Method == http.MethodHead:
			respErr = c.NoContent(status)
		case wantsHTML(c):
			var authErr *bankErrors.AuthorizationFailure
			respErr = c.Render(status, "error.html", page(ctxProvider, c, map[string]any{
				"title":   http.StatusText(status),
				"status":  status,
				"message": errorText(status, body),
				"login":   errors.As(err, &authErr) && !authErr.Authenticated,
			}))
		default:
			respErr = c.JSON(status, body)
		}

		if respErr != nil {
			logger.WithError(respErr).Error("failed to send error response")
		}
	}
}

func errorResponse(err error) (int, any) {
	var (
		payloadErr  *validation.PayloadError
		cv          *bankErrors.ConstraintViolation
		riv         *bankErrors.ReferentialIntegrityViolation
		notFoundErr *bankErrors.EntryNotFoundErr
		authErr     *bankErrors.AuthorizationFailure
		httpErr     *echo.HTTPError
	)

	switch {
	case errors.As(err, &payloadErr):
		return http.StatusBadRequest, payloadErr
	case errors.As(err, &cv):
		return http.StatusBadRequest, cv
	case errors.As(err, &riv):
		return http.StatusConflict, &errorMessage{Message: riv.Error()}
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, &errorMessage{Message: notFoundErr.Error()}
	case errors.As(err, &authErr):
		if authErr.Authenticated {
			return http.StatusForbidden, &errorMessage{Message: authErr.Error()}
		}
		return http.StatusUnauthorized, &errorMessage{Message: authErr.Error()}
	case errors.As(err, &httpErr):
		if m, ok := httpErr.Message.(string); ok {
			return httpErr.Code, &errorMessage{Message: m}
		}
		return httpErr.Code, httpErr.Message
	default:
		return http.StatusInternalServerError, &errorMessage{Message: http.StatusText(http.StatusInternalServerError)}
	}
}

func errorText(status int, body any) string {
	switch b := body.(type) {
	case *errorMessage:
		return b.Message
	case error:
		return b.Error()
	default:
		return http.StatusText(status)
	}
}

func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
