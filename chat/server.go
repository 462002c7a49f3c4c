package chat

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed web
var webFS embed.FS

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

const (
	msgNoMessage       = "No message provided"
	msgTooManyRequests = "Too many requests. Please try again later."
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Server exposes a Service over HTTP.
type Server struct {
	svc     *Service
	engine  *gin.Engine
	logger  *slog.Logger
	limiter Limiter
	health  func(context.Context) error
	timeout time.Duration
	index   []byte
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the request logger.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLimiter rate limits POST /chat per client IP.
func WithLimiter(l Limiter) ServerOption {
	return func(s *Server) { s.limiter = l }
}

// WithHealthCheck sets the readiness probe behind GET /healthz.
func WithHealthCheck(fn func(context.Context) error) ServerOption {
	return func(s *Server) { s.health = fn }
}

// WithRequestTimeout bounds the time spent answering one message.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.timeout = d }
}

// NewServer builds the HTTP routes for svc.
func NewServer(svc *Service, opts ...ServerOption) (*Server, error) {
	s := &Server{
		svc:    svc,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	index, err := webFS.ReadFile("web/index.html")
	if err != nil {
		return nil, err
	}
	s.index = index
	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(s.requestID(), s.accessLog(), gin.CustomRecovery(s.recovered))

	r.GET("/", s.handleIndex)
	r.StaticFS("/static", http.FS(static))
	r.GET("/healthz", s.handleHealth)

	chat := []gin.HandlerFunc{}
	if s.limiter != nil {
		chat = append(chat, s.rateLimit())
	}
	chat = append(chat, s.handleChat)
	r.POST("/chat", chat...)

	s.engine = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("chat server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.index)
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoMessage})
		return
	}

	ctx := c.Request.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	answer, err := s.svc.Answer(ctx, req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoMessage})
		return
	}
	c.JSON(http.StatusOK, chatResponse{Response: answer})
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := s.limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Fail open on limiter errors.
			s.logger.LogAttrs(c.Request.Context(), slog.LevelWarn, "rate limiter unavailable",
				slog.String("request_id", c.GetString("request_id")),
				slog.String("error", err.Error()),
			)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": msgTooManyRequests})
			return
		}
		c.Next()
	}
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("request_id", c.GetString("request_id")),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.String("client_ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) recovered(c *gin.Context, rec any) {
	s.logger.LogAttrs(c.Request.Context(), slog.LevelError, "panic in handler",
		slog.String("request_id", c.GetString("request_id")),
		slog.Any("panic", rec),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, chatResponse{Response: FallbackUpstream})
}
