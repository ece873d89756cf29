package static

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	applogger "Hikari/pkg/logger"

	"github.com/labstack/echo/v4"
)

var mimeTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".ico":   "image/x-icon",
	".webp":  "image/webp",
	".txt":   "text/plain; charset=utf-8",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// ContentType maps a file extension to its media type, defaulting to
// application/octet-stream.
func ContentType(path string) string {
	if ct, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return echo.MIMEOctetStream
}

// Handler serves files below a root directory. "/" and directories resolve
// to their index.html.
type Handler struct {
	root string
	log  *applogger.Logger
}

// New resolves root to an absolute path once.
func New(root string, l *applogger.Logger) (*Handler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &Handler{root: abs, log: l.Component("static")}, nil
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/*", h.Serve)
	e.HEAD("/*", h.Serve)
}

func (h *Handler) Serve(c echo.Context) error {
	urlPath := c.Request().URL.Path
	if urlPath == "" || urlPath == "/" {
		urlPath = "/index.html"
	}

	resolved := filepath.Join(h.root, filepath.FromSlash(urlPath))
	if resolved != h.root && !strings.HasPrefix(resolved, h.root+string(filepath.Separator)) {
		return c.String(http.StatusForbidden, "Forbidden")
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.String(http.StatusNotFound, "Not Found")
		}
		h.log.Error("stat failed", applogger.String("path", resolved), applogger.Error(err))
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	file := resolved
	if info.IsDir() {
		file = filepath.Join(resolved, "index.html")
	}

	f, err := os.Open(file)
	if err != nil {
		h.log.Error("open failed", applogger.String("path", file), applogger.Error(err))
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	defer f.Close()

	return c.Stream(http.StatusOK, ContentType(file), f)
}
