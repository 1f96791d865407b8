package claims

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	claimmodel "lifesure/internal/claims/models"
	"lifesure/internal/platform/middleware"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/httputil"
	"lifesure/pkg/requestcontext"
)

// Handler exposes the claim routes.
type Handler struct {
	logger *slog.Logger
	claims *Service
}

func NewHandler(claims *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, claims: claims}
}

// RegisterCustomer registers claim filing and the caller's claim history.
func (h *Handler) RegisterCustomer(r chi.Router) {
	r.Post("/customer/claims", h.handleSubmit)
	r.Get("/customer/claims", h.handleListMine)
}

// RegisterAdmin registers the enriched listing and status updates.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/claims", h.handleListAll)
	r.Patch("/admin/claims/{id}/status", h.handleSetStatus)
}

type submitClaimRequest struct {
	PolicyID     string   `json:"policyId"`
	Reason       string   `json:"reason"`
	DocumentURLs []string `json:"documentUrls"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req submitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	var missing []string
	if req.PolicyID == "" {
		missing = append(missing, "policyId")
	}
	if strings.TrimSpace(req.Reason) == "" {
		missing = append(missing, "reason")
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
	for _, u := range req.DocumentURLs {
		if !govalidator.IsURL(u) {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "invalid document url %q", u))
			return
		}
	}

	claim, err := h.claims.Submit(ctx, user.SubjectID, SubmitInput{
		PolicyID:     policyID,
		Reason:       req.Reason,
		DocumentURLs: req.DocumentURLs,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "claim submitted", map[string]any{"claim": claim})
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	claims, summary, err := h.claims.ListMine(ctx, user.SubjectID, paging.FromQuery(r.URL.Query()))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list claims",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"claims":     claims,
		"pagination": summary,
	})
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, summary, err := h.claims.ListAll(ctx, paging.FromQuery(r.URL.Query()))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list claims",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"claims":     claims,
		"pagination": summary,
	})
}

type setClaimStatusRequest struct {
	Status   claimmodel.Status `json:"status"`
	Feedback string            `json:"feedback"`
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req setClaimStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	claim, err := h.claims.SetStatus(ctx, id, req.Status, req.Feedback)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "claim status updated", map[string]any{"claim": claim})
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return id, nil
}
