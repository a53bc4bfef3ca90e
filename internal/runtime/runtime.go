// Package runtime exposes the relay handler over HTTP and AWS Lambda.
package runtime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/isometry/gh-workflow-relay/internal/handler"
	"github.com/isometry/gh-workflow-relay/internal/helpers"
	"github.com/isometry/gh-workflow-relay/internal/models"
)

const (
	// PathWebhook receives workflow_run deliveries.
	PathWebhook = "/webhook"
	// PathDump logs arbitrary bodies verbatim.
	PathDump = "/dump"
	// PathSend dispatches the test message.
	PathSend = "/send"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger instance for the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// Runtime adapts the relay handler to the HTTP and Lambda transports.
type Runtime struct {
	handler *handler.Handler
	logger  *slog.Logger
	router  chi.Router
}

// NewRuntime creates a new runtime instance
func NewRuntime(h *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{handler: h}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	_inst.router = _inst.routes()
	return _inst
}

func (r *Runtime) routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(r.loggingMiddleware)
	router.Use(middleware.Recoverer)

	router.Post(PathWebhook, r.serve(r.handler.Webhook))
	router.Post(PathDump, r.serve(r.handler.Dump))
	router.Post(PathSend, r.serve(func(ctx context.Context, _ models.Request) (models.Response, error) {
		return r.handler.Send(ctx)
	}))
	return router
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(resp, req)
}

type endpoint func(ctx context.Context, req models.Request) (models.Response, error)

func (r *Runtime) serve(fn endpoint) http.HandlerFunc {
	return func(resp http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			r.logger.Error("failed to read request body", slog.Any("error", err))
			helpers.RespondHTTP(models.Response{StatusCode: http.StatusBadRequest}, err, resp)
			return
		}

		headers := make(map[string]string, len(req.Header))
		for k, v := range req.Header {
			if len(v) > 0 {
				headers[strings.ToLower(k)] = v[0]
			}
		}

		result, err := fn(req.Context(), models.Request{Body: body, Headers: headers})
		helpers.RespondHTTP(result, err, resp)
	}
}

func (r *Runtime) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		r.logger.Debug("handled HTTP request",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int64("durationMs", time.Since(start).Milliseconds()),
			slog.String("requestID", middleware.GetReqID(req.Context())),
			slog.String("requestor", req.RemoteAddr))
	})
}
