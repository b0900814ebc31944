package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/ShadyM97/LearnHub-Backend/utils"
	"go.uber.org/zap"
)

// readinessTimeout bounds the dependency checks of a readiness probe
const readinessTimeout = 5 * time.Second

// HealthResponse represents the readiness response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Pinger is satisfied by *sql.DB and by anything else readiness should probe
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	db     *sql.DB
	redis  Pinger
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil.
func NewHealthHandler(db *sql.DB, redis Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redis,
		logger: logger,
	}
}

// HandleHealth handles GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReadiness handles GET /health/ready
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if err := h.checkDatabase(ctx); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		checks["database"] = "unhealthy"
		healthy = false
	} else {
		checks["database"] = "healthy"
	}

	if h.redis != nil {
		if err := h.redis.PingContext(ctx); err != nil {
			h.logger.Warn("redis health check failed", zap.Error(err))
			checks["redis"] = "unhealthy"
			healthy = false
		} else {
			checks["redis"] = "healthy"
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	if err := h.db.PingContext(ctx); err != nil {
		return err
	}

	var result int
	return h.db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
}
