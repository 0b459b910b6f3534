package static

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-edge-proxy/internal/cache/service"
	"go-edge-proxy/internal/config"
	"go-edge-proxy/internal/models"
)

var errPathEscapes = errors.New("path escapes document root")

// Handler serves filesystem content for static route rules. Files small
// enough for the content cache are served from it; larger files stream
// straight from disk.
type Handler struct {
	root          string
	cacheService  *service.CacheService
	cacheTTL      models.TTL
	maxCacheBytes int64
	logger        *zap.Logger
}

// NewHandler creates a static file handler
func NewHandler(staticCfg *config.StaticConfig, contentCfg *config.ContentCacheConfig, cacheService *service.CacheService, logger *zap.Logger) *Handler {
	fresh := contentCfg.BigCache.TTL.ToDuration()

	return &Handler{
		root:         staticCfg.Root,
		cacheService: cacheService,
		cacheTTL: models.TTL{
			Fresh: fresh,
			Stale: fresh / 10,
		},
		maxCacheBytes: int64(contentCfg.BigCache.MaxEntryKB) * 1024,
		logger:        logger,
	}
}

// Serve handles one request that matched a static route rule. It writes the
// complete response including error statuses.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, rule models.RouteRule) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "405 method not allowed", http.StatusMethodNotAllowed)
		return
	}

	fsPath, err := h.resolve(rule, r.URL.Path)
	if err != nil {
		h.logger.Warn("Rejected static path",
			zap.String("uri", r.URL.Path),
			zap.Error(err))
		http.NotFound(w, r)
		return
	}

	// Fresh cache hit serves without touching the filesystem
	res := h.cacheService.Lookup(rule.Pattern, fsPath)
	if res.Found && res.Fresh {
		h.serveEntry(w, r, rule, fsPath, res.Entry)
		return
	}

	file, err := os.Open(fsPath)
	if err != nil {
		if os.IsNotExist(err) {
			h.notFound(w, r, rule, fsPath)
			return
		}
		h.serveStaleOrError(w, r, rule, fsPath, res, err)
		return
	}
	defer func() { _ = file.Close() }()

	fi, err := file.Stat()
	if err != nil {
		h.serveStaleOrError(w, r, rule, fsPath, res, err)
		return
	}

	if fi.IsDir() {
		h.notFound(w, r, rule, fsPath)
		return
	}

	if fi.Size() <= h.maxCacheBytes {
		data, err := io.ReadAll(file)
		if err != nil {
			h.serveStaleOrError(w, r, rule, fsPath, res, err)
			return
		}

		entry := &models.CacheEntry{
			Data:        data,
			ContentType: contentType(fsPath, data),
			ModTime:     fi.ModTime().Unix(),
		}
		h.cacheService.Store(rule.Pattern, fsPath, entry, h.cacheTTL)

		h.serveEntry(w, r, rule, fsPath, entry)
		return
	}

	// Too large for the cache, stream from disk
	h.applyPolicyHeaders(w, rule)
	w.Header().Set("ETag", etag(fi.ModTime().Unix(), fi.Size()))
	http.ServeContent(w, r, filepath.Base(fsPath), fi.ModTime(), file)
}

// resolve maps a request path onto the filesystem and rejects anything that
// would land outside the document root
func (h *Handler) resolve(rule models.RouteRule, urlPath string) (string, error) {
	if strings.ContainsRune(urlPath, 0) {
		return "", errors.New("path contains NUL byte")
	}

	base := h.root
	rel := urlPath

	if rule.Root != "" {
		if rule.Match == models.MatchExact {
			// An exact rule's root names the file itself
			return filepath.Clean(rule.Root), nil
		}
		// Prefix rules with a root strip the matched prefix, alias style
		base = rule.Root
		rel = strings.TrimPrefix(urlPath, rule.Pattern)
	}

	if base == "" {
		return "", errors.New("no document root configured")
	}

	cleanBase := filepath.Clean(base)
	joined := filepath.Join(cleanBase, filepath.FromSlash(rel))

	if joined != cleanBase && !strings.HasPrefix(joined, cleanBase+string(os.PathSeparator)) {
		return "", errPathEscapes
	}

	return joined, nil
}

// serveEntry writes a response from an in-memory cache entry. ServeContent
// handles HEAD, If-Modified-Since, If-None-Match and Range for free.
func (h *Handler) serveEntry(w http.ResponseWriter, r *http.Request, rule models.RouteRule, fsPath string, entry *models.CacheEntry) {
	h.applyPolicyHeaders(w, rule)

	if entry.ContentType != "" {
		w.Header().Set("Content-Type", entry.ContentType)
	}
	w.Header().Set("ETag", etag(entry.ModTime, int64(len(entry.Data))))

	http.ServeContent(w, r, filepath.Base(fsPath), time.Unix(entry.ModTime, 0), bytes.NewReader(entry.Data))
}

// serveStaleOrError falls back to a stale cache entry when the filesystem
// fails, and only reports an error when there is nothing left to serve
func (h *Handler) serveStaleOrError(w http.ResponseWriter, r *http.Request, rule models.RouteRule, fsPath string, res service.LookupResult, cause error) {
	if res.Found {
		h.logger.Warn("Serving stale entry after filesystem error",
			zap.String("path", fsPath),
			zap.Error(cause))
		h.serveEntry(w, r, rule, fsPath, res.Entry)
		return
	}

	if entry, ok := h.cacheService.LookupStale(rule.Pattern, fsPath); ok {
		h.logger.Warn("Serving stale entry after filesystem error",
			zap.String("path", fsPath),
			zap.Error(cause))
		h.serveEntry(w, r, rule, fsPath, entry)
		return
	}

	h.logger.Error("Failed to read static file",
		zap.String("path", fsPath),
		zap.Error(cause))
	http.Error(w, "500 internal server error", http.StatusInternalServerError)
}

// notFound writes a 404, honoring the rule's log_not_found suppression
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, rule models.RouteRule, fsPath string) {
	if !rule.Log.SkipNotFound {
		h.logger.Warn("Static file not found",
			zap.String("path", fsPath),
			zap.String("uri", r.URL.Path))
	}
	http.NotFound(w, r)
}

// applyPolicyHeaders emits the rule's cache headers. They apply to 304 and
// 206 responses as well, so they are set before ServeContent runs.
func (h *Handler) applyPolicyHeaders(w http.ResponseWriter, rule models.RouteRule) {
	if !rule.Cache.Enabled() {
		return
	}

	w.Header().Set("Cache-Control", rule.Cache.CacheControl())
	w.Header().Set("Expires", time.Now().Add(rule.Cache.MaxAge.ToDuration()).UTC().Format(http.TimeFormat))
}

// contentType resolves the MIME type from the file extension, sniffing the
// bytes only when the extension is unknown
func contentType(fsPath string, data []byte) string {
	if ctype := mime.TypeByExtension(filepath.Ext(fsPath)); ctype != "" {
		return ctype
	}
	return http.DetectContentType(data)
}

// etag renders the mtime-size validator format nginx uses for static files
func etag(modTime, size int64) string {
	return fmt.Sprintf(`"%x-%x"`, modTime, size)
}
