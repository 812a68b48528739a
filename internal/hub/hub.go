// Package hub is the HTTP front of the tool hub: the catalog and publish
// APIs plus static serving of the public site and published tools.
package hub

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/san-kum/chatooly/internal/catalog"
	"github.com/san-kum/chatooly/internal/logging"
	"github.com/san-kum/chatooly/internal/publish"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr         string
	PublicDir    string
	ToolsDir     string
	BaseURL      string
	MaxBodyBytes int64
}

type Server struct {
	opts      Options
	log       *log.Logger
	catalog   *catalog.Scanner
	publisher *publish.Service
	engine    *gin.Engine
	now       func() time.Time
}

func New(opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 32 << 20
	}
	s := &Server{
		opts:      opts,
		log:       logger,
		catalog:   &catalog.Scanner{Dir: opts.ToolsDir, Log: logger},
		publisher: publish.NewService(opts.ToolsDir, opts.BaseURL, logger),
		now:       time.Now,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on opts.Addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("hub: listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln and shuts down gracefully once ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Info("hub listening", "addr", ln.Addr().String(), "tools", s.opts.ToolsDir)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("hub shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("hub: shutdown: %w", err)
	}
	return nil
}
