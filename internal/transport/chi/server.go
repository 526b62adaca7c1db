// Package chi serves linked-data documents over HTTP.
package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/canon"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/graph/codec"
	logpkg "github.com/bbcarchdev/patchwork/internal/logger"
	"github.com/bbcarchdev/patchwork/internal/usecase/dispatch"
	healthuc "github.com/bbcarchdev/patchwork/internal/usecase/health"
)

// Dispatcher resolves a request into its model.
type Dispatcher interface {
	Process(ctx context.Context, req *request.Request) (dispatch.Kind, error)
}

// HealthChecker reports backend reachability.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Options describe how URLs map to requests.
type Options struct {
	// Root is the public base URI.
	Root         string
	DefaultLimit int
	MaxLimit     int
}

// Server handles HTTP requests.
type Server struct {
	dispatch Dispatcher
	health   HealthChecker
	opts     Options
	logger   *zap.Logger
}

// NewServer creates an HTTP server.
func NewServer(d Dispatcher, health HealthChecker, opts Options, logger *zap.Logger) *Server {
	return &Server{dispatch: d, health: health, opts: opts, logger: logger}
}

// Document handles GET /*: every linked-data document.
func (s *Server) Document(w http.ResponseWriter, r *http.Request) {
	p, ext := splitExt(r.URL.Path)

	var (
		f   codec.Format
		err error
	)
	explicit := ext != ""
	if explicit {
		var ok bool
		if f, ok = codec.ForExt(ext); !ok {
			s.handleDomainError(w, r, domain.ErrNotAcceptable)
			return
		}
	} else if f, err = codec.Negotiate(r.Header.Get("Accept")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	req := request.New(request.Options{
		Root:         s.opts.Root,
		Path:         p,
		Query:        r.URL.Query(),
		Type:         f.MediaType,
		Ext:          f.Ext,
		ExplicitExt:  explicit,
		DefaultLimit: s.opts.DefaultLimit,
		MaxLimit:     s.opts.MaxLimit,
	})

	if _, err := s.dispatch.Process(r.Context(), req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if req.Location != "" {
		http.Redirect(w, r, req.Location, http.StatusSeeOther)
		return
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, req.Model, f, req.Graph); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", f.MediaType)
	if !explicit {
		w.Header().Set("Vary", "Accept")
		w.Header().Set("Content-Location", req.Canonical.String(canon.Concrete))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// splitExt separates a recognized-looking extension from the last path
// segment. The service root is addressed with an extension as /index.<ext>.
func splitExt(p string) (string, string) {
	base := path.Base(p)
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 || p == "/" {
		return p, ""
	}
	ext := base[dot+1:]
	p = strings.TrimSuffix(p, "."+ext)
	if p == "/index" {
		p = "/"
	}
	return p, ext
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	status := domain.Status(err)
	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	case errors.Is(err, domain.ErrInvalidIdentifier):
		log.Debug("invalid identifier", zap.String("path", r.URL.Path), zap.Error(err))
	default:
		log.Debug("request not served", zap.Int("status", status), zap.Error(err))
	}
	http.Error(w, http.StatusText(status), status)
}
