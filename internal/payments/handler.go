package payments

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

// Handler exposes the payment routes.
type Handler struct {
	logger   *slog.Logger
	payments *Service
}

func NewHandler(payments *Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, payments: payments}
}

// RegisterCustomer registers intent creation, confirmation and the caller's
// payment history.
func (h *Handler) RegisterCustomer(r chi.Router) {
	r.Post("/create-payment-intent", h.handleCreateIntent)
	r.Post("/confirm-payment", h.handleConfirm)
	r.Get("/customer/payments", h.handleListMine)
}

// RegisterAdmin registers the full payment ledger listing.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/payments", h.handleListAll)
}

type createIntentRequest struct {
	PolicyID string           `json:"policyId"`
	Amount   *httputil.Number `json:"amount"`
}

func (h *Handler) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	var missing []string
	if req.PolicyID == "" {
		missing = append(missing, "policyId")
	}
	if req.Amount == nil {
		missing = append(missing, "amount")
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

	intent, err := h.payments.CreateIntent(ctx, user, policyID, req.Amount.Int64())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create payment intent",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "", map[string]any{"clientSecret": intent.ClientSecret})
}

type confirmRequest struct {
	IntentID string           `json:"intentId"`
	PolicyID string           `json:"policyId"`
	Amount   *httputil.Number `json:"amount"`
	Currency string           `json:"currency"`
	Status   string           `json:"status"`
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	var missing []string
	if req.IntentID == "" {
		missing = append(missing, "intentId")
	}
	if req.PolicyID == "" {
		missing = append(missing, "policyId")
	}
	if req.Amount == nil {
		missing = append(missing, "amount")
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

	payment, err := h.payments.Confirm(ctx, user, ConfirmInput{
		IntentID: req.IntentID,
		PolicyID: policyID,
		Amount:   req.Amount.Int64(),
		Currency: req.Currency,
		Status:   req.Status,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "payment recorded", map[string]any{"payment": payment})
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.UserFromContext(ctx)
	if user == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	payments, summary, err := h.payments.ListMine(ctx, user.SubjectID, paging.FromQuery(r.URL.Query()))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list payments",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"payments":   payments,
		"pagination": summary,
	})
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payments, summary, err := h.payments.ListAll(ctx, paging.FromQuery(r.URL.Query()))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list payments",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", map[string]any{
		"payments":   payments,
		"pagination": summary,
	})
}
