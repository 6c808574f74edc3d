// internal/app/features/errors/errorlogger.go
package errors

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/volunteerhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ErrorLogger pairs structured logging with user-facing error pages so
// handlers do both in one call. The log message carries the real error;
// the page shows only the neutral user message.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err),
	}
}

// LogServerError logs err at error level and renders the database/server
// error page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg, e.fields(r, err)...)
	if userMsg == "" {
		RenderDBError(w, r, backURL)
		return
	}
	if backURL == "" {
		backURL = "/"
	}
	w.WriteHeader(http.StatusInternalServerError)
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, "Something went wrong", backURL),
		Message: userMsg,
	}
	templates.Render(w, r, "error_page", data)
}

// LogBadRequest logs err at warn level and renders a validation error
// page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogNotFound logs at info level and renders a not-found page.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Info(logMsg, e.fields(r, err)...)
	RenderNotFound(w, r, userMsg, backURL)
}

// LogForbidden logs at warn level and renders a forbidden page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg string, userMsg, backURL string) {
	e.log.Warn(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	RenderForbidden(w, r, userMsg, backURL)
}
