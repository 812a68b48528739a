package hub

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.log), gin.CustomRecovery(s.recover))

	api := r.Group("/api")
	api.Any("/catalog",
		cors("GET, OPTIONS", "Content-Type"),
		allow(http.MethodGet, "Method not allowed. Use GET."),
		s.handleCatalog)
	api.Any("/publish",
		cors("POST, OPTIONS", "Content-Type, X-Chatooly-Source"),
		allow(http.MethodPost, "Method not allowed. Use POST."),
		s.handlePublish)
	api.Any("/test",
		cors("POST, OPTIONS", "Content-Type"),
		allow(http.MethodPost, "Method not allowed"),
		s.handleTest)

	r.Static("/tools", s.opts.ToolsDir)
	r.NoRoute(s.servePublic)
	return r
}

// cors sets the same permissive headers on every response of a route,
// preflight included.
func cors(methods, headers string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		c.Next()
	}
}

// allow answers preflight with an empty 200 and any verb other than method
// with a JSON 405.
func allow(method, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case method:
			c.Next()
		case http.MethodOptions:
			c.AbortWithStatus(http.StatusOK)
		default:
			c.AbortWithStatusJSON(http.StatusMethodNotAllowed, failure(msg))
		}
	}
}

func failure(msg string) gin.H {
	return gin.H{"success": false, "message": msg}
}

func (s *Server) recover(c *gin.Context, err any) {
	s.log.Error("handler panic", "path", c.Request.URL.Path, "err", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, failure("Internal server error"))
}

func requestLogger(l *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start).Round(time.Microsecond),
		)
	}
}

// servePublic serves the site's static files for any unmatched GET.
func (s *Server) servePublic(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, failure("Not found"))
		return
	}
	rel := filepath.FromSlash(strings.TrimPrefix(c.Request.URL.Path, "/"))
	if rel != "" && !filepath.IsLocal(rel) {
		c.JSON(http.StatusNotFound, failure("Not found"))
		return
	}
	if _, err := os.Stat(filepath.Join(s.opts.PublicDir, rel)); err != nil {
		c.JSON(http.StatusNotFound, failure("Not found"))
		return
	}
	http.FileServer(gin.Dir(s.opts.PublicDir, false)).ServeHTTP(c.Writer, c.Request)
}
