package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifesure/pkg/platform/httputil"
	"lifesure/pkg/requestcontext"
)

// Handler exposes the admin overview.
type Handler struct {
	logger    *slog.Logger
	dashboard *Service
}

func NewHandler(dashboard *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, dashboard: dashboard}
}

func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/dashboard-stats", h.handleStats)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.dashboard.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to gather dashboard stats",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{"stats": stats})
}
