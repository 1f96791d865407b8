package policies

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/httputil"
	"lifesure/pkg/requestcontext"
)

// Handler exposes the policy routes.
type Handler struct {
	logger   *slog.Logger
	policies *Service
}

func NewHandler(policies *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, policies: policies}
}

// RegisterPublic registers the browse routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/policies", h.handleList)
	r.Get("/policies/top", h.handleTop)
	r.Get("/policies/{id}", h.handleGet)
}

// RegisterAdmin registers the policy CRUD routes.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/policies", h.handleCreate)
	r.Put("/policies/{id}", h.handleUpdate)
	r.Delete("/policies/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := Filter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		SortDesc: q.Get("order") == "desc",
	}
	switch sortBy := q.Get("sort"); sortBy {
	case "", SortByCreatedAt:
		filter.SortBy = SortByCreatedAt
	case SortByPremium, SortByApplications:
		filter.SortBy = sortBy
	default:
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "unsupported sort field %q", sortBy))
		return
	}

	policies, summary, err := h.policies.List(ctx, filter, paging.FromQuery(q))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list policies",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"policies":   policies,
		"pagination": summary,
	})
}

func (h *Handler) handleTop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	policies, err := h.policies.Top(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load top policies",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{"policies": policies})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	policy, err := h.policies.FindByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{"policy": policy})
}

type createPolicyRequest struct {
	Title         string           `json:"title"`
	Category      string           `json:"category"`
	Description   string           `json:"description"`
	MinAge        *httputil.Number `json:"minAge"`
	MaxAge        *httputil.Number `json:"maxAge"`
	CoverageMin   *httputil.Number `json:"coverageMin"`
	CoverageMax   *httputil.Number `json:"coverageMax"`
	DurationYears *httputil.Number `json:"durationYears"`
	BasePremium   *httputil.Number `json:"basePremium"`
	ImageURL      string           `json:"imageURL"`
}

func (r createPolicyRequest) missingFields() []string {
	var missing []string
	if strings.TrimSpace(r.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(r.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(r.Description) == "" {
		missing = append(missing, "description")
	}
	if r.MinAge == nil {
		missing = append(missing, "minAge")
	}
	if r.MaxAge == nil {
		missing = append(missing, "maxAge")
	}
	if r.CoverageMin == nil {
		missing = append(missing, "coverageMin")
	}
	if r.CoverageMax == nil {
		missing = append(missing, "coverageMax")
	}
	if r.DurationYears == nil {
		missing = append(missing, "durationYears")
	}
	if r.BasePremium == nil {
		missing = append(missing, "basePremium")
	}
	return missing
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if missing := req.missingFields(); len(missing) > 0 {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "missing required fields: %s", strings.Join(missing, ", ")))
		return
	}
	if req.ImageURL != "" && !govalidator.IsURL(req.ImageURL) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid imageURL"))
		return
	}

	policy, err := h.policies.Create(ctx, CreateInput{
		Title:         req.Title,
		Category:      req.Category,
		Description:   req.Description,
		MinAge:        req.MinAge.Int(),
		MaxAge:        req.MaxAge.Int(),
		CoverageMin:   req.CoverageMin.Int64(),
		CoverageMax:   req.CoverageMax.Int64(),
		DurationYears: req.DurationYears.Int(),
		BasePremium:   req.BasePremium.Float(),
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create policy",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "policy created", map[string]any{"policy": policy})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req createPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	in := UpdateInput{}
	if req.Title != "" {
		in.Title = &req.Title
	}
	if req.Category != "" {
		in.Category = &req.Category
	}
	if req.Description != "" {
		in.Description = &req.Description
	}
	if req.ImageURL != "" {
		in.ImageURL = &req.ImageURL
	}
	if req.MinAge != nil {
		v := req.MinAge.Int()
		in.MinAge = &v
	}
	if req.MaxAge != nil {
		v := req.MaxAge.Int()
		in.MaxAge = &v
	}
	if req.CoverageMin != nil {
		v := req.CoverageMin.Int64()
		in.CoverageMin = &v
	}
	if req.CoverageMax != nil {
		v := req.CoverageMax.Int64()
		in.CoverageMax = &v
	}
	if req.DurationYears != nil {
		v := req.DurationYears.Int()
		in.DurationYears = &v
	}
	if req.BasePremium != nil {
		v := req.BasePremium.Float()
		in.BasePremium = &v
	}

	policy, err := h.policies.Update(ctx, id, in)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "policy updated", map[string]any{"policy": policy})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.policies.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "policy deleted", nil)
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return id, nil
}
