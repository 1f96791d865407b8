package blogs

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lifesure/internal/platform/middleware"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/httputil"
	"lifesure/pkg/requestcontext"
)

// Handler exposes the blog routes.
type Handler struct {
	logger *slog.Logger
	blogs  *Service
}

func NewHandler(blogs *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, blogs: blogs}
}

// RegisterPublic registers the listing and detail pages.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/blogs", h.handleList)
	r.Get("/blogs/{id}", h.handleRead)
}

// RegisterAgent registers authoring routes.
func (h *Handler) RegisterAgent(r chi.Router) {
	r.Post("/agent/blogs", h.handleCreate)
	r.Get("/agent/blogs", h.handleListMine)
	r.Put("/agent/blogs/{id}", h.handleUpdate)
	r.Delete("/agent/blogs/{id}", h.handleDelete)
}

type blogRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r blogRequest) missingFields() []string {
	var missing []string
	if strings.TrimSpace(r.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(r.Content) == "" {
		missing = append(missing, "content")
	}
	return missing
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if missing := req.missingFields(); len(missing) > 0 {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "missing required fields: %s", strings.Join(missing, ", ")))
		return
	}

	blog, err := h.blogs.Create(ctx, user, CreateInput{Title: req.Title, Content: req.Content})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "blog created", map[string]any{"blog": blog})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	blogs, summary, err := h.blogs.List(ctx, Filter{Search: q.Get("search")}, paging.FromQuery(q))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list blogs",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"blogs":      blogs,
		"pagination": summary,
	})
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	blogs, summary, err := h.blogs.List(ctx, Filter{AuthorID: user.SubjectID}, paging.FromQuery(r.URL.Query()))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list blogs",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"blogs":      blogs,
		"pagination": summary,
	})
}

func (h *Handler) handleRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	blog, err := h.blogs.Read(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{"blog": blog})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if missing := req.missingFields(); len(missing) > 0 {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeValidation, "missing required fields: %s", strings.Join(missing, ", ")))
		return
	}

	blog, err := h.blogs.Update(ctx, user.SubjectID, id, UpdateInput{Title: req.Title, Content: req.Content})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "blog updated", map[string]any{"blog": blog})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.blogs.Delete(ctx, user.SubjectID, id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "blog deleted", nil)
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, dErrors.New(dErrors.CodeNotFound, "record not found")
	}
	return id, nil
}
