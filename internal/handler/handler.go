package handler

import (
	"context"
	"net/http"

	"tokenpulse/internal/domain"
	"tokenpulse/internal/job"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// StatusSource is the live view of a running collection.
type StatusSource interface {
	RunID() string
	Statuses() []job.Status
	Latest(token string) (domain.Record, bool)
}

// HistorySource reads mirrored snapshots. Optional.
type HistorySource interface {
	Recent(ctx context.Context, token string, limit int) ([]domain.Record, error)
}

type Handler struct {
	tracer  trace.Tracer
	status  StatusSource
	history HistorySource
	metrics http.Handler
	apiKey  string
}

func New(tracer trace.Tracer, status StatusSource, history HistorySource, metrics http.Handler, apiKey string) *Handler {
	return &Handler{
		tracer:  tracer,
		status:  status,
		history: history,
		metrics: metrics,
		apiKey:  apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}

	api := r.Group("/api", APIKeyAuth(h.apiKey))
	api.GET("/workers", h.GetWorkers)
	api.GET("/tokens/:token/latest", h.GetLatest)
	api.GET("/tokens/:token/history", h.GetHistory)
}
