package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avasilyev/fundbot/internal/roster"
	"github.com/avasilyev/fundbot/pkg/response"
)

// BroadcastRequest represents the request body for a free-form broadcast
type BroadcastRequest struct {
	Text string `json:"text"`
}

// BroadcastResponse reports how many messages were queued
type BroadcastResponse struct {
	Queued int `json:"queued"`
	Total  int `json:"total"`
}

// UserSource lists broadcast recipients
type UserSource interface {
	ListAll(ctx context.Context) ([]*roster.User, error)
}

// Handler handles HTTP requests for broadcasts
type Handler struct {
	notifier *Notifier
	users    UserSource
}

// NewHandler creates a new broadcast handler
func NewHandler(notifier *Notifier, users UserSource) *Handler {
	return &Handler{notifier: notifier, users: users}
}

// Routes returns the router for broadcast endpoints; all are coordinator only
func (h *Handler) Routes(coordinatorGate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(coordinatorGate).Post("/", h.Broadcast)

	return r
}

// Broadcast handles POST /broadcasts
// @Summary      Queue a message to every registered user
// @Tags         broadcasts
// @Accept       json
// @Produce      json
// @Param        request body BroadcastRequest true "Broadcast request"
// @Success      200 {object} response.APIResponse{data=BroadcastResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /broadcasts [post]
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		response.BadRequest(w, "Text is required")
		return
	}

	users, err := h.users.ListAll(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list recipients")
		return
	}

	recipients := make([]int64, len(users))
	for i, u := range users {
		recipients[i] = u.ID
	}

	queued := h.notifier.Broadcast(req.Text, recipients)

	response.JSON(w, http.StatusOK, &BroadcastResponse{Queued: queued, Total: len(recipients)})
}
