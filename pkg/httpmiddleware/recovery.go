package httpmiddleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// ErrorBody is the JSON shape of every error response written by the API.
type ErrorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// WriteError writes a JSON ErrorBody with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: message, Status: status})
}

// Recovery turns panics into a logged 500 JSON response. http.ErrAbortHandler
// is re-raised so the server can abort the connection as intended.
func Recovery(log logger.Logger, withStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
					panic(rec)
				}

				fields := []logger.LogField{
					logger.StringField("panic_error", fmt.Sprintf("%v", rec)),
					logger.HTTPMethodField(r.Method),
					logger.HTTPPathField(r.URL.Path),
					logger.ClientIPField(r.RemoteAddr),
				}
				if withStack {
					fields = append(fields, logger.StringField("stack_trace", string(debug.Stack())))
				}
				logger.GetLoggerFromContext(r.Context(), log).Error("HTTP request panic recovered", fields...)

				w.Header().Set("Connection", "close")
				WriteError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
