package info

import (
	"context"
	"net/http"
	"strings"

	"github.com/pagopa/pay-portal-service/internal/domain"
	"github.com/pagopa/pay-portal-service/internal/handlers/response"
	"github.com/pagopa/pay-portal-service/pkg/middleware"
	"github.com/pagopa/pay-portal-service/pkg/observability"
	"go.uber.org/zap"
)

// HealthChecker reports application problems, one line per failure
type HealthChecker interface {
	Problems(ctx context.Context) []string
}

// ServerInfo is the body of GET /api/v1/info
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// BrowserInfo is the body of GET /api/v1/browsers/current/info
type BrowserInfo struct {
	IP        string `json:"ip"`
	UserAgent string `json:"useragent"`
	Accept    string `json:"accept"`
}

// Handler serves the informational routes
type Handler struct {
	health HealthChecker
	server ServerInfo
	logger *zap.Logger
}

// NewHandler creates a new info handler
func NewHandler(health HealthChecker, server ServerInfo, logger *zap.Logger) *Handler {
	return &Handler{
		health: health,
		server: server,
		logger: logger,
	}
}

// RegisterRoutes mounts the info routes on mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/info", h.GetInfo)
	mux.HandleFunc("GET /api/v1/browsers/current/info", h.GetBrowserInfo)
}

// GetInfo handles GET /api/v1/info.
// Any health problem turns the answer into a 500 listing every problem.
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	if problems := h.health.Problems(r.Context()); len(problems) > 0 {
		logger := observability.LoggerFromContext(r.Context(), h.logger)
		logger.Error("Application is not healthy", zap.Strings("problems", problems))
		response.Problem(w, logger, domain.NewInternalError(strings.Join(problems, "\n\n")))
		return
	}

	response.JSON(w, h.logger, http.StatusOK, h.server)
}

// GetBrowserInfo handles GET /api/v1/browsers/current/info
func (h *Handler) GetBrowserInfo(w http.ResponseWriter, r *http.Request) {
	info := BrowserInfo{
		IP:        middleware.ClientIP(r),
		UserAgent: r.Header.Get("User-Agent"),
		Accept:    r.Header.Get("Accept"),
	}

	if info.IP == "" || info.UserAgent == "" || info.Accept == "" {
		response.Problem(w, h.logger, domain.NewValidationError("Bad request", "Missing required browser info"))
		return
	}

	response.JSON(w, h.logger, http.StatusOK, info)
}
