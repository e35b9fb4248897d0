package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggedUserKey struct{}

// loggedUser lets RequireAuth, which runs deeper in the chain, report the
// user id back to the request logger.
type loggedUser struct {
	mu sync.Mutex
	id string
}

func setLoggedUser(ctx context.Context, id string) {
	if lu, ok := ctx.Value(loggedUserKey{}).(*loggedUser); ok {
		lu.mu.Lock()
		lu.id = id
		lu.mu.Unlock()
	}
}

// ZapRequestLogger is a middleware that logs requests using zap.
func ZapRequestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			lu := &loggedUser{}
			r = r.WithContext(context.WithValue(r.Context(), loggedUserKey{}, lu))

			defer func() {
				elapsed := time.Since(start)
				fields := []zap.Field{
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", elapsed),
					zap.String("remote_ip", r.RemoteAddr),
				}
				if reqID := middleware.GetReqID(r.Context()); reqID != "" {
					fields = append(fields, zap.String("request_id", reqID))
				}
				lu.mu.Lock()
				if lu.id != "" {
					fields = append(fields, zap.String("user_id", lu.id))
				}
				lu.mu.Unlock()

				level := zapcore.InfoLevel
				if ww.Status() >= http.StatusInternalServerError {
					level = zapcore.ErrorLevel
				}
				msg := "request completed"
				if logger.Core().Enabled(zapcore.DebugLevel) {
					msg = fmt.Sprintf("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), elapsed)
				}
				if ce := logger.Check(level, msg); ce != nil {
					ce.Write(fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
