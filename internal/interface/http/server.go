// Package http implements the REST API of the LevelUp Learning Hub.
// It exposes the content catalog (topics, guides, courses), enrollments,
// and learning progress over JSON endpoints with JWT authentication.
package http

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/levelup-hub/learning-hub/internal/application/command"
	"github.com/levelup-hub/learning-hub/internal/application/query"
	"github.com/levelup-hub/learning-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// MaxHeaderBytes - maximum size of request headers.
	MaxHeaderBytes int

	// EnableCORS - enable CORS headers.
	EnableCORS bool

	// AllowedOrigins - allowed origins for CORS.
	AllowedOrigins []string

	// RateLimitPerMinute - requests per minute per IP (0 = disabled).
	RateLimitPerMinute int

	// JWTSecret - HMAC secret for validating access tokens.
	JWTSecret string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:               "0.0.0.0",
		Port:               8080,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       15 * time.Second,
		IdleTimeout:        60 * time.Second,
		MaxHeaderBytes:     1 << 20, // 1 MB
		EnableCORS:         true,
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 100,
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Pinger reports the health of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies contains all handlers required by the HTTP routes.
type Dependencies struct {
	// Topic handlers
	CreateTopic *command.CreateTopicHandler
	RenameTopic *command.RenameTopicHandler
	DeleteTopic *command.DeleteTopicHandler
	ListTopics  *query.ListTopicsHandler
	GetTopic    *query.GetTopicHandler

	// Guide handlers
	CreateGuide        *command.CreateGuideHandler
	UpdateGuide        *command.UpdateGuideHandler
	UpdateGuideAuthors *command.UpdateGuideAuthorsHandler
	ChangeGuideStatus  *command.ChangeGuideStatusHandler
	DeleteGuide        *command.DeleteGuideHandler
	AddPage            *command.AddPageHandler
	UpdatePage         *command.UpdatePageHandler
	DeletePage         *command.DeletePageHandler
	LikeGuide          *command.LikeGuideHandler
	UnlikeGuide        *command.UnlikeGuideHandler
	AddChallenge       *command.AddChallengeHandler
	RemoveChallenge    *command.RemoveChallengeHandler
	GetGuide           *query.GetGuideHandler
	SearchGuides       *query.SearchGuidesHandler
	ListAuthorGuides   *query.ListAuthorGuidesHandler
	ListLikedGuides    *query.ListLikedGuidesHandler

	// Course handlers
	CreateCourse          *command.CreateCourseHandler
	UpdateCourse          *command.UpdateCourseHandler
	UpdateCourseAuthors   *command.UpdateCourseAuthorsHandler
	ChangeCourseStatus    *command.ChangeCourseStatusHandler
	DeleteCourse          *command.DeleteCourseHandler
	AddGuideToCourse      *command.AddGuideToCourseHandler
	RemoveGuideFromCourse *command.RemoveGuideFromCourseHandler
	GetCourse             *query.GetCourseHandler
	SearchCourses         *query.SearchCoursesHandler
	ListAuthorCourses     *query.ListAuthorCoursesHandler

	// Enrollment handlers
	EnrollUser            *command.EnrollUserHandler
	CancelEnrollment      *command.CancelEnrollmentHandler
	CompleteEnrollment    *command.CompleteEnrollmentHandler
	ListUserEnrollments   *query.ListUserEnrollmentsHandler
	ListCourseEnrollments *query.ListCourseEnrollmentsHandler

	// Progress handlers
	StartLearning    *command.StartLearningHandler
	UpdateProgress   *command.UpdateProgressHandler
	CompleteProgress *command.CompleteProgressHandler
	GetProgress      *query.GetProgressHandler
	ListUserProgress *query.ListUserProgressHandler

	// Logger
	Logger *logger.Logger

	// Health check dependencies
	Database Pinger
	Cache    Pinger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     *http.ServeMux
	logger     *logger.Logger

	rateLimiter *rateLimiter

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server with the given configuration and dependencies.
func NewServer(config Config, deps Dependencies) *Server {
	s := &Server{
		config: config,
		deps:   deps,
		router: http.NewServeMux(),
		logger: deps.Logger,
	}

	if s.logger == nil {
		s.logger = logger.Default()
	}

	if config.RateLimitPerMinute > 0 {
		s.rateLimiter = newRateLimiter(config.RateLimitPerMinute, time.Minute)
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.buildMiddlewareChain(s.router),
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	return s
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /healthz", s.handleHealth) // Kubernetes alias
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /live", s.handleLive)
	s.router.HandleFunc("GET /{$}", s.handleRoot)

	// ─────────────────────────────────────────────────────────────────────────
	// Topics
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /api/v1/topics", s.handleListTopics)
	s.router.HandleFunc("GET /api/v1/topics/{id}", s.handleGetTopic)
	s.router.HandleFunc("POST /api/v1/topics", s.handleCreateTopic)
	s.router.HandleFunc("PUT /api/v1/topics/{id}", s.handleRenameTopic)
	s.router.HandleFunc("DELETE /api/v1/topics/{id}", s.handleDeleteTopic)

	// ─────────────────────────────────────────────────────────────────────────
	// Guides
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /api/v1/guides", s.handleSearchGuides)
	s.router.HandleFunc("GET /api/v1/guides/liked", s.handleListLikedGuides)
	s.router.HandleFunc("GET /api/v1/guides/{id}", s.handleGetGuide)
	s.router.HandleFunc("POST /api/v1/guides", s.handleCreateGuide)
	s.router.HandleFunc("PUT /api/v1/guides/{id}", s.handleUpdateGuide)
	s.router.HandleFunc("DELETE /api/v1/guides/{id}", s.handleDeleteGuide)
	s.router.HandleFunc("PUT /api/v1/guides/{id}/status", s.handleChangeGuideStatus)
	s.router.HandleFunc("PUT /api/v1/guides/{id}/authors", s.handleUpdateGuideAuthors)

	s.router.HandleFunc("POST /api/v1/guides/{id}/pages", s.handleAddPage)
	s.router.HandleFunc("PUT /api/v1/guides/{id}/pages/{pageID}", s.handleUpdatePage)
	s.router.HandleFunc("DELETE /api/v1/guides/{id}/pages/{pageID}", s.handleDeletePage)

	s.router.HandleFunc("POST /api/v1/guides/{id}/like", s.handleLikeGuide)
	s.router.HandleFunc("DELETE /api/v1/guides/{id}/like", s.handleUnlikeGuide)

	s.router.HandleFunc("POST /api/v1/guides/{id}/challenges", s.handleAddChallenge)
	s.router.HandleFunc("DELETE /api/v1/guides/{id}/challenges/{challengeID}", s.handleRemoveChallenge)

	s.router.HandleFunc("GET /api/v1/authors/{id}/guides", s.handleListAuthorGuides)

	// ─────────────────────────────────────────────────────────────────────────
	// Courses
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /api/v1/courses", s.handleSearchCourses)
	s.router.HandleFunc("GET /api/v1/courses/{id}", s.handleGetCourse)
	s.router.HandleFunc("POST /api/v1/courses", s.handleCreateCourse)
	s.router.HandleFunc("PUT /api/v1/courses/{id}", s.handleUpdateCourse)
	s.router.HandleFunc("DELETE /api/v1/courses/{id}", s.handleDeleteCourse)
	s.router.HandleFunc("PUT /api/v1/courses/{id}/status", s.handleChangeCourseStatus)
	s.router.HandleFunc("PUT /api/v1/courses/{id}/authors", s.handleUpdateCourseAuthors)

	s.router.HandleFunc("POST /api/v1/courses/{id}/guides/{guideID}", s.handleAddGuideToCourse)
	s.router.HandleFunc("DELETE /api/v1/courses/{id}/guides/{guideID}", s.handleRemoveGuideFromCourse)

	s.router.HandleFunc("GET /api/v1/authors/{id}/courses", s.handleListAuthorCourses)
	s.router.HandleFunc("GET /api/v1/courses/{id}/enrollments", s.handleListCourseEnrollments)

	// ─────────────────────────────────────────────────────────────────────────
	// Enrollments
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/enrollments", s.handleEnroll)
	s.router.HandleFunc("GET /api/v1/enrollments", s.handleListEnrollments)
	s.router.HandleFunc("POST /api/v1/enrollments/{id}/cancel", s.handleCancelEnrollment)
	s.router.HandleFunc("POST /api/v1/enrollments/{id}/complete", s.handleCompleteEnrollment)

	// ─────────────────────────────────────────────────────────────────────────
	// Learning Progress
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/progress", s.handleStartLearning)
	s.router.HandleFunc("GET /api/v1/progress", s.handleListProgress)
	s.router.HandleFunc("GET /api/v1/progress/{entityType}/{entityID}", s.handleGetProgress)
	s.router.HandleFunc("PUT /api/v1/progress/{id}", s.handleUpdateProgress)
	s.router.HandleFunc("POST /api/v1/progress/{id}/complete", s.handleCompleteProgress)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE CHAIN
// ══════════════════════════════════════════════════════════════════════════════

// buildMiddlewareChain wraps the router with all middleware.
func (s *Server) buildMiddlewareChain(handler http.Handler) http.Handler {
	// Apply middleware in reverse order (last middleware wraps first)
	h := handler

	// Auth middleware resolves the caller identity
	h = s.authMiddleware(h)

	// Request ID middleware
	h = s.requestIDMiddleware(h)

	// Logging middleware
	h = s.loggingMiddleware(h)

	// Recovery middleware (must be early to catch panics)
	h = s.recoveryMiddleware(h)

	// CORS middleware
	if s.config.EnableCORS {
		h = s.corsMiddleware(h)
	}

	// Rate limiting middleware
	if s.rateLimiter != nil {
		h = s.rateLimitMiddleware(h)
	}

	return h
}

// requestIDMiddleware adds a unique request ID to each request.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs all HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)

		s.logger.Info("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rw.statusCode),
			logger.Int64("duration_ms", duration.Milliseconds()),
			logger.String("ip", getClientIP(r)),
			logger.String("request_id", getRequestID(r.Context())),
		)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()
				s.logger.Error("panic recovered",
					logger.Any("error", err),
					logger.String("stack", string(stack)),
					logger.String("path", r.URL.Path),
					logger.String("request_id", getRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowed := false
		for _, o := range s.config.AllowedOrigins {
			if o == "*" || o == origin {
				allowed = true
				break
			}
		}

		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "86400")
		}

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware implements per-IP rate limiting.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)

		if !s.rateLimiter.Allow(ip) {
			w.Header().Set("Retry-After", "60")
			writeJSONError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns the server uptime.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}

// Address returns the server address.
func (s *Server) Address() string {
	return s.config.Address()
}

// Handler returns the full middleware-wrapped handler. Used in tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & ROOT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "learning-hub",
		"version": "v1",
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(ctx); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "not_ready", "database unreachable")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(ctx); err != nil {
			checks["database"] = "down: " + err.Error()
			healthy = false
		} else {
			checks["database"] = "up"
		}
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Ping(ctx); err != nil {
			// Cache is a soft dependency: catalog reads fall back to Postgres.
			checks["cache"] = "down: " + err.Error()
		} else {
			checks["cache"] = "up"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]interface{}{
		"healthy": healthy,
		"uptime":  s.Uptime().String(),
		"checks":  checks,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER TYPES AND FUNCTIONS
// ══════════════════════════════════════════════════════════════════════════════

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// getRequestID extracts the request ID from context.
func getRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// generateRequestID generates a unique request ID.
func generateRequestID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%1000)
}

// getQueryParam extracts a query parameter with a default value.
func getQueryParam(r *http.Request, key, defaultValue string) string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getQueryParamInt extracts an integer query parameter with a default value.
func getQueryParamInt(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	var result int
	if _, err := fmt.Sscanf(value, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getQueryParamBool extracts a boolean query parameter.
func getQueryParamBool(r *http.Request, key string) bool {
	value := strings.ToLower(r.URL.Query().Get(key))
	return value == "true" || value == "1" || value == "yes"
}

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER
// ══════════════════════════════════════════════════════════════════════════════

type rateLimiter struct {
	mu       sync.RWMutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

func (rl *rateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	requests := rl.requests[key]

	var valid []time.Time
	for _, t := range requests {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		windowStart := now.Add(-rl.window)

		for key, requests := range rl.requests {
			var valid []time.Time
			for _, t := range requests {
				if t.After(windowStart) {
					valid = append(valid, t)
				}
			}
			if len(valid) == 0 {
				delete(rl.requests, key)
			} else {
				rl.requests[key] = valid
			}
		}
		rl.mu.Unlock()
	}
}
