package users

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lifesure/internal/platform/middleware"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/httputil"
	"lifesure/pkg/requestcontext"
)

// Handler exposes the user routes.
type Handler struct {
	logger *slog.Logger
	users  *Service
}

func NewHandler(users *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, users: users}
}

// RegisterPublic registers routes with no auth requirement.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/users", h.handleUpsertProfile)
}

// RegisterAuthed registers routes that need a verified subject but no role.
func (h *Handler) RegisterAuthed(r chi.Router) {
	r.Get("/users/me", h.handleMe)
}

// RegisterCustomer registers the customer-gated promotion route.
func (h *Handler) RegisterCustomer(r chi.Router) {
	r.Post("/apply-agent", h.handleApplyAgent)
}

// RegisterAdmin registers the admin user-management routes.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/users", h.handleListUsers)
	r.Patch("/admin/users/{id}/role", h.handleChangeRole)
	r.Delete("/admin/users/{id}", h.handleDeleteUser)
	r.Get("/admin/agent-applications", h.handleListAgentApplications)
	r.Patch("/admin/agent-applications/{id}", h.handleDecideAgentApplication)
}

type upsertProfileRequest struct {
	SubjectID string `json:"subjectId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	PhotoURL  string `json:"photoURL"`
}

func (h *Handler) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req upsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	var missing []string
	if strings.TrimSpace(req.SubjectID) == "" {
		missing = append(missing, "subjectId")
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
	if req.PhotoURL != "" && !govalidator.IsURL(req.PhotoURL) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid photoURL"))
		return
	}

	user, created, err := h.users.UpsertProfile(ctx, UpsertProfileInput{
		SubjectID: req.SubjectID,
		Email:     req.Email,
		Name:      req.Name,
		PhotoURL:  req.PhotoURL,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to upsert profile",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusOK
	message := "profile updated"
	if created {
		status = http.StatusCreated
		message = "profile created"
	}
	httputil.WriteSuccess(w, status, message, map[string]any{"user": user})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.users.FindBySubject(ctx, requestcontext.SubjectID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{"user": user})
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := Filter{Search: q.Get("search")}
	if role := usermodel.Role(q.Get("role")); role != "" {
		if !role.Valid() {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "invalid role %q", role))
			return
		}
		filter.Role = role
	}

	users, summary, err := h.users.List(ctx, filter, paging.FromQuery(q))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"users":      users,
		"pagination": summary,
	})
}

type changeRoleRequest struct {
	Role usermodel.Role `json:"role"`
}

func (h *Handler) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	user, err := h.users.ChangeRole(ctx, id, req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "role updated", map[string]any{"user": user})
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.users.Delete(ctx, requestcontext.SubjectID(ctx), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "user deleted", nil)
}

type applyAgentRequest struct {
	Experience  string   `json:"experience"`
	Specialties []string `json:"specialties"`
}

func (h *Handler) handleApplyAgent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req applyAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if strings.TrimSpace(req.Experience) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "missing required fields: experience"))
		return
	}

	updated, err := h.users.ApplyAgent(ctx, user, ApplyAgentInput{
		Experience:  req.Experience,
		Specialties: req.Specialties,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "agent application submitted", map[string]any{"user": updated})
}

func (h *Handler) handleListAgentApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, summary, err := h.users.ListAgentApplications(ctx, paging.FromQuery(r.URL.Query()))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list agent applications",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"applications": users,
		"pagination":   summary,
	})
}

type decideAgentApplicationRequest struct {
	Decision string `json:"decision"` // "approve" or "reject"
	Feedback string `json:"feedback"`
}

func (h *Handler) handleDecideAgentApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req decideAgentApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if req.Decision != "approve" && req.Decision != "reject" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "decision must be approve or reject"))
		return
	}

	approve := req.Decision == "approve"
	user, err := h.users.DecideAgentApplication(ctx, id, approve, req.Feedback)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	message := "agent application rejected"
	if approve {
		message = "agent application approved"
	}
	httputil.WriteSuccess(w, http.StatusOK, message, map[string]any{"user": user})
}

// parseID turns a path parameter into an object id; malformed ids read as
// 404 because no record can ever match them.
func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return id, nil
}
