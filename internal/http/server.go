// Package http serves the JSON API and the embedded dashboard page.
package http

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"kharcha/internal/cache"
	"kharcha/internal/derive"
	"kharcha/internal/registry"
	"kharcha/internal/services"
	"kharcha/internal/storage"
	appweb "kharcha/web"
)

type Server struct {
	http.Server
	ledger       *services.LedgerService
	categories   *registry.Registry
	transactions *storage.TransactionRepository
	rateLimiter  *rateLimiter

	// Derived day series per month key, flushed wholesale on every
	// ledger mutation so cached reads match a fresh recomputation.
	seriesCache *cache.Cache[[]derive.DayAmount]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// Options tunes the server beyond its collaborators. Zero values pick
// the defaults.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

func (o Options) withDefaults() Options {
	if o.CacheSize <= 0 {
		o.CacheSize = 128
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 30 * time.Second
	}
	return o
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. transactions may be nil; the transactions endpoints then
// answer 503.
func NewServer(addr string, ledger *services.LedgerService, categories *registry.Registry, transactions *storage.TransactionRepository, opts Options) *Server {
	opts = opts.withDefaults()
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:           ledger,
		categories:       categories,
		transactions:     transactions,
		rateLimiter:      newRateLimiter(),
		seriesCache:      cache.New[[]derive.DayAmount](opts.CacheSize, opts.CacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}
	go s.startCacheCleanup()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.FileServer(http.FS(sub))
		mux.Handle("GET /", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withMiddleware(s.handleRemoveExpense))

	mux.HandleFunc("GET /api/months", s.withMiddleware(s.handleMonths))
	mux.HandleFunc("GET /api/series/daily", s.withMiddleware(s.handleDailySeries))

	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.handleAddCategory))

	mux.HandleFunc("POST /api/calc", s.withMiddleware(s.handleCalc))

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))

	return s
}

// withMiddleware adds request ids, structured request logging, security
// headers and rate limiting on mutating methods.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if mutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

func mutating(method string) bool {
	return method == http.MethodPost || method == http.MethodDelete || method == http.MethodPut
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.seriesCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// flushDerived drops cached derivations after a ledger mutation.
func (s *Server) flushDerived() {
	s.seriesCache.Flush()
}

// Shutdown stops the HTTP server and the background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
