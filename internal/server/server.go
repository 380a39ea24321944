package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"sumpro/internal/blobstore"
	"sumpro/internal/mail"
	"sumpro/internal/store"
)

const (
	adminTokenEnvKey  = "SUMPRO_ADMIN_TOKEN"
	allowRemoteEnvKey = "SUMPRO_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second

	loginMaxFailures = 5
	loginWindow      = 5 * time.Minute
	loginBlockedFor  = 15 * time.Minute

	sessionSweepInterval = time.Hour
)

// Options configures a Server.
type Options struct {
	Applications store.ApplicationStore
	Auth         store.AuthStore
	Resumes      blobstore.ResumeStore
	Mailer       mail.Sender

	// UploadsDir, when non-empty, enables serving stored résumés from
	// /uploads. Set it only for the local storage backend.
	UploadsDir string

	MaxResumeBytes     int64
	MultipartMaxMemory int64

	Logger *slog.Logger
}

// Server wraps HTTP handlers for the sumpro API.
type Server struct {
	addr         string
	applications *ApplicationService
	contact      *ContactService
	authService  *AuthService
	loginLimiter *loginRateLimiter
	uploadsDir   string
	logger       *slog.Logger
	adminToken   string
}

// New creates a new server instance.
func New(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var contact *ContactService
	if opts.Mailer != nil {
		contact = NewContactService(opts.Mailer)
	}

	return &Server{
		addr:         addr,
		applications: NewApplicationService(opts.Applications, opts.Resumes, opts.MaxResumeBytes, opts.MultipartMaxMemory, logger),
		contact:      contact,
		authService:  NewAuthService(opts.Auth),
		loginLimiter: newLoginRateLimiter(loginMaxFailures, loginWindow, loginBlockedFor),
		uploadsDir:   opts.UploadsDir,
		logger:       logger,
		adminToken:   strings.TrimSpace(os.Getenv(adminTokenEnvKey)),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	return s.httpServer().ListenAndServe()
}

// Run starts the HTTP server and drains in-flight requests when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := s.httpServer()
	go s.sweepSessions(ctx)
	errCh := make(chan error, 1)
	go func() {
		s.log().Info("starting server", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log().Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

// sweepSessions periodically drops expired sessions so the table does
// not grow without bound.
func (s *Server) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.authService.PurgeExpiredSessions(ctx, time.Now().UTC())
			if err != nil {
				s.log().Warn("session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				s.log().Debug("removed expired sessions", "count", removed)
			}
		}
	}
}

func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
