package logger

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"
)

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Hijack lets websocket upgrades pass through the logging middleware.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rw *statusRecorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// HTTPMiddleware logs every request with its correlation ID, status and latency.
func (l *logger) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r, correlationID := EnsureHTTPCorrelationID(r)

		reqLog := l.WithFields(
			ClientIPField(r.RemoteAddr),
			HTTPMethodField(r.Method),
			HTTPPathField(r.URL.Path),
			CorrelationIDField(correlationID),
		)
		reqLog.Debug("HTTP request received")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []LogField{
			HTTPStatusField(rec.status),
			IntField("response_bytes", rec.bytes),
			DurationField("duration", time.Since(start)),
		}
		if rec.status >= http.StatusInternalServerError {
			reqLog.Error("HTTP response sent", fields...)
			return
		}
		reqLog.Info("HTTP response sent", fields...)
	})
}
