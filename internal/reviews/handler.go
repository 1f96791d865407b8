package reviews

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lifesure/internal/platform/middleware"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/platform/httputil"
	"lifesure/pkg/requestcontext"
)

// Handler exposes the review routes.
type Handler struct {
	logger  *slog.Logger
	reviews *Service
}

func NewHandler(reviews *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, reviews: reviews}
}

// RegisterPublic registers the public listing.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/reviews", h.handleList)
}

// RegisterCustomer registers review submission.
func (h *Handler) RegisterCustomer(r chi.Router) {
	r.Post("/reviews", h.handleSubmit)
}

type submitReviewRequest struct {
	PolicyID string           `json:"policyId"`
	Rating   *httputil.Number `json:"rating"`
	Feedback string           `json:"feedback"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	var missing []string
	if req.PolicyID == "" {
		missing = append(missing, "policyId")
	}
	if req.Rating == nil {
		missing = append(missing, "rating")
	}
	if strings.TrimSpace(req.Feedback) == "" {
		missing = append(missing, "feedback")
	}
	if len(missing) > 0 {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "missing required fields: %s", strings.Join(missing, ", ")))
		return
	}
	policyID, err := primitive.ObjectIDFromHex(req.PolicyID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid policyId"))
		return
	}

	review, err := h.reviews.Submit(ctx, user, SubmitInput{
		PolicyID: policyID,
		Rating:   req.Rating.Int(),
		Feedback: req.Feedback,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "review submitted", map[string]any{"review": review})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reviews, err := h.reviews.ListLatest(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list reviews",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{"reviews": reviews})
}
