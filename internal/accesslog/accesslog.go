// Package accesslog writes one access line per request in the combined
// format with the forwarded-for chain appended, the format log processors
// already understand:
//
//	remote_addr - remote_user [time_local] "request" status body_bytes_sent "referer" "user_agent" "x_forwarded_for"
package accesslog

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-edge-proxy/internal/config"
)

const timeLocalFormat = "02/Jan/2006:15:04:05 -0700"

// Logger writes combined-format access lines to stdout or a file.
// Writes are unbuffered, one line per request.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	file   *os.File // nil when writing to stdout
	logger *zap.Logger
}

// NewLogger creates an access logger for the configured destination.
// An empty or "stdout" path writes to standard output.
func NewLogger(cfg *config.AccessLogConfig, logger *zap.Logger) (*Logger, error) {
	if cfg.Path == "" || cfg.Path == "stdout" {
		return &Logger{out: os.Stdout, logger: logger}, nil
	}

	file, err := os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open access log %s: %w", cfg.Path, err)
	}

	logger.Info("Access log opened", zap.String("path", cfg.Path))

	return &Logger{out: file, file: file, logger: logger}, nil
}

// Log writes one combined-format line for a completed request
func (l *Logger) Log(r *http.Request, status int, bytesSent int64, ts time.Time) {
	line := formatLine(r, status, bytesSent, ts)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := io.WriteString(l.out, line); err != nil {
		l.logger.Warn("Failed to write access log line", zap.Error(err))
	}
}

// Close closes the underlying file, if any
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// formatLine renders one combined-format line, newline included
func formatLine(r *http.Request, status int, bytesSent int64, ts time.Time) string {
	remoteAddr := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		remoteAddr = host
	}

	user := "-"
	if u, _, ok := r.BasicAuth(); ok && u != "" {
		user = u
	}

	referer := r.Referer()
	if referer == "" {
		referer = "-"
	}

	userAgent := r.UserAgent()
	if userAgent == "" {
		userAgent = "-"
	}

	forwardedFor := r.Header.Get("X-Forwarded-For")
	if forwardedFor == "" {
		forwardedFor = "-"
	}

	return fmt.Sprintf("%s - %s [%s] \"%s %s %s\" %d %d \"%s\" \"%s\" \"%s\"\n",
		remoteAddr,
		user,
		ts.Format(timeLocalFormat),
		r.Method,
		escape(r.URL.RequestURI()),
		r.Proto,
		status,
		bytesSent,
		escape(referer),
		escape(userAgent),
		escape(forwardedFor),
	)
}

// escape replaces quote, backslash and control bytes so a field can never
// break out of its quoted position in the line
func escape(s string) string {
	if !needsEscape(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\':
			b.WriteString(`\\`)
		case c < 0x20 || c == 0x7f:
			fmt.Fprintf(&b, `\x%02X`, c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' || c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}
