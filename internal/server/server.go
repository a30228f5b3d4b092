package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/ScoreLedger_Go/internal/auditlog"
	"github.com/osse101/ScoreLedger_Go/internal/auth"
	"github.com/osse101/ScoreLedger_Go/internal/gameconfig"
	"github.com/osse101/ScoreLedger_Go/internal/handler"
	"github.com/osse101/ScoreLedger_Go/internal/leaderboard"
	"github.com/osse101/ScoreLedger_Go/internal/ledger"
	"github.com/osse101/ScoreLedger_Go/internal/logger"
	"github.com/osse101/ScoreLedger_Go/internal/metrics"
	"github.com/osse101/ScoreLedger_Go/internal/operator"
)

// Options carries the transport settings of the server.
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
}

// Services are the application services exposed over HTTP.
type Services struct {
	Storage     handler.Pinger
	Tokens      *auth.Tokens
	Games       gameconfig.Service
	Operators   operator.Service
	Audit       auditlog.Service
	Ledger      ledger.Service
	Leaderboard leaderboard.Service
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the full route tree. Reads are public; mutations need a
// caller, and configuration changes need an admin.
func NewRouter(opts Options, svc Services) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(SecurityLoggingMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)
	r.Use(CallerMiddleware(svc.Tokens, opts.TrustedProxies, detector))

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.Storage))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	games := handler.NewGameHandler(svc.Games)
	operators := handler.NewOperatorHandler(svc.Operators)
	authn := handler.NewAuthHandler(svc.Operators, svc.Tokens, opts.APIKey)
	participants := handler.NewParticipantHandler(svc.Ledger)
	scores := handler.NewScoreHandler(svc.Ledger)
	board := handler.NewLeaderboardHandler(svc.Leaderboard)
	audit := handler.NewAuditHandler(svc.Audit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/operator-login", authn.HandleOperatorLogin)
			r.Post("/admin-token", authn.HandleAdminToken)
		})

		r.Route("/games", func(r chi.Router) {
			r.Get("/", games.HandleGetConfig)
			r.Get("/{number}", games.HandleGetGame)
			r.Get("/{number}/scores", scores.HandleGameScores)

			r.With(RequireAdmin).Post("/", games.HandleAddGame)
			r.With(RequireAdmin).Put("/{number}", games.HandleUpdateGame)
			r.With(RequireAdmin).Delete("/{number}", games.HandleRemoveGame)
			r.With(RequireAdmin).Post("/{number}/toggle", games.HandleToggleGame)
		})
		r.With(RequireAdmin).Put("/thresholds", games.HandleSetThresholds)

		r.Route("/operators", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/", operators.HandleListOperators)
			r.Post("/", operators.HandleCreateOperator)
			r.Post("/bulk", operators.HandleBulkCreateOperators)
			r.Post("/reset-all", operators.HandleResetAllCredentials)
			r.Delete("/{game}", operators.HandleRevokeOperator)
			r.Post("/{game}/reset", operators.HandleResetCredential)
		})

		r.Route("/participants", func(r chi.Router) {
			r.Get("/", participants.HandleList)
			r.Get("/{id}", participants.HandleGet)
			r.With(RequireCaller).Post("/", participants.HandleRegister)
			r.With(RequireAdmin).Delete("/{id}", participants.HandleDelete)
			r.With(RequireAdmin).Post("/bulk-delete", participants.HandleBulkDelete)
		})

		r.Route("/scores", func(r chi.Router) {
			r.Get("/", scores.HandleListScores)
			r.Get("/{id}", scores.HandleGetScore)
			r.With(RequireCaller).Post("/", scores.HandleSubmitScore)
			r.With(RequireAdmin).Delete("/", scores.HandleClearScores)
		})

		r.Get("/leaderboard", board.HandleLeaderboard)
		r.Get("/leaderboard/{id}", board.HandleRankOf)
		r.Get("/stats", board.HandleStatistics)
		r.Get("/audit", audit.HandleQuery)
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		for _, path := range QuietPaths {
			if strings.HasPrefix(r.URL.Path, path) {
				next.ServeHTTP(w, r)
				return
			}
		}

		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
