package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// GetWorkers reports every worker's state and counters.
func (h *Handler) GetWorkers(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-workers")
	defer span.End()

	c.JSON(http.StatusOK, gin.H{
		"run_id":  h.status.RunID(),
		"workers": h.status.Statuses(),
	})
}

// GetLatest returns the last persisted record for a token, in column order.
func (h *Handler) GetLatest(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-latest")
	defer span.End()

	token := c.Param("token")
	span.SetAttributes(attribute.String("token", token))

	rec, ok := h.status.Latest(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no record for token: " + token})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":        rec.Token,
		"collected_at": rec.CollectedAt,
		"fields":       rec.Fields,
		"row":          rec.Row(),
	})
}

// GetHistory returns mirrored snapshots, newest first.
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot history requires DATABASE_URL"})
		return
	}

	token := c.Param("token")
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	span.SetAttributes(attribute.String("token", token), attribute.Int("limit", limit))

	recs, err := h.history.Recent(ctx, token, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "count": len(recs), "snapshots": recs})
}
