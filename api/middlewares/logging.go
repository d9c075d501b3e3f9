package middlewares

import (
	"CollectPortal/internal/logger"
	"fmt"
	"log"
	"net/http"
	"time"
)

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestLogger writes one line per request, as an audit entry when the
// logger service is running.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		clientIP := r.RemoteAddr
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			clientIP = xff
		}
		msg := fmt.Sprintf("[Portal] %s %s from %s status %d in %s", r.Method, r.URL.Path, clientIP, rw.statusCode, time.Since(start).Round(time.Millisecond))
		if logr := logger.GlobalLogger; logr != nil {
			logr.LogAudit(msg)
		} else {
			log.Println(msg)
		}
	})
}
