package applications

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	appmodel "lifesure/internal/applications/models"
	"lifesure/internal/platform/middleware"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/httputil"
	"lifesure/pkg/requestcontext"
)

// Handler exposes the application routes.
type Handler struct {
	logger *slog.Logger
	apps   *Service
}

func NewHandler(apps *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, apps: apps}
}

// RegisterCustomer registers the customer-facing routes.
func (h *Handler) RegisterCustomer(r chi.Router) {
	r.Post("/customer/applications", h.handleSubmit)
	r.Get("/customer/applications", h.handleListMine)
}

// RegisterAgent registers the agent-facing routes.
func (h *Handler) RegisterAgent(r chi.Router) {
	r.Get("/agent/applications", h.handleListAssigned)
	r.Patch("/agent/applications/{id}/status", h.handleAgentSetStatus)
}

// RegisterAdmin registers the admin routes.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/applications", h.handleListAll)
	r.Patch("/admin/applications/{id}/status", h.handleAdminSetStatus)
	r.Patch("/admin/applications/{id}/assign", h.handleAssign)
}

type submitRequest struct {
	PolicyID          string           `json:"policyId"`
	CoverageAmount    *httputil.Number `json:"coverageAmount"`
	FullName          string           `json:"fullName"`
	Email             string           `json:"email"`
	Address           string           `json:"address"`
	NomineeName       string           `json:"nomineeName"`
	NomineeRelation   string           `json:"nomineeRelation"`
	HealthDisclosures []string         `json:"healthDisclosures"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	var missing []string
	if req.PolicyID == "" {
		missing = append(missing, "policyId")
	}
	if req.CoverageAmount == nil {
		missing = append(missing, "coverageAmount")
	}
	if strings.TrimSpace(req.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "missing required fields: %s", strings.Join(missing, ", ")))
		return
	}
	if !govalidator.IsEmail(req.Email) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid email"))
		return
	}
	policyID, err := primitive.ObjectIDFromHex(req.PolicyID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid policyId"))
		return
	}

	app, err := h.apps.Submit(ctx, requestcontext.SubjectID(ctx), SubmitInput{
		PolicyID:          policyID,
		CoverageAmount:    req.CoverageAmount.Int64(),
		FullName:          req.FullName,
		Email:             req.Email,
		Address:           req.Address,
		NomineeName:       req.NomineeName,
		NomineeRelation:   req.NomineeRelation,
		HealthDisclosures: req.HealthDisclosures,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to submit application",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "application submitted", map[string]any{"application": app})
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	details, summary, err := h.apps.ListMine(ctx, requestcontext.SubjectID(ctx), paging.FromQuery(r.URL.Query()))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list own applications",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"applications": details,
		"pagination":   summary,
	})
}

func (h *Handler) handleListAssigned(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agent := middleware.UserFromContext(ctx)
	if agent == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	apps, summary, err := h.apps.ListByAgent(ctx, agent.SubjectID, paging.FromQuery(r.URL.Query()))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list assigned applications",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"applications": apps,
		"pagination":   summary,
	})
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, summary, err := h.apps.ListAll(ctx, paging.FromQuery(r.URL.Query()))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list applications",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"applications": items,
		"pagination":   summary,
	})
}

type setStatusRequest struct {
	Status   appmodel.Status `json:"status"`
	Feedback string          `json:"feedback"`
}

func (h *Handler) handleAgentSetStatus(w http.ResponseWriter, r *http.Request) {
	agent := middleware.UserFromContext(r.Context())
	if agent == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	h.setStatus(w, r, agent.SubjectID)
}

func (h *Handler) handleAdminSetStatus(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, "")
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, actingAgentID string) {
	ctx := r.Context()
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if req.Status == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "missing required fields: status"))
		return
	}

	app, err := h.apps.SetStatus(ctx, id, req.Status, req.Feedback, actingAgentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "application status updated", map[string]any{"application": app})
}

type assignRequest struct {
	AgentID string `json:"agentId"`
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if req.AgentID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "missing required fields: agentId"))
		return
	}

	app, err := h.apps.Assign(ctx, id, req.AgentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "application assigned", map[string]any{"application": app})
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return id, nil
}
