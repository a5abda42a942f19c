package roster

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	mw "github.com/avasilyev/fundbot/pkg/middleware"
	"github.com/avasilyev/fundbot/pkg/response"
)

// Handler handles HTTP requests for roster operations
type Handler struct {
	service      *Service
	coordinators map[int64]bool
}

// NewHandler creates a new roster handler. The coordinator set comes from
// configuration and is threaded through to the registration operation.
func NewHandler(service *Service, coordinators map[int64]bool) *Handler {
	return &Handler{service: service, coordinators: coordinators}
}

// Routes returns the router for roster endpoints. Coordinator-only routes
// are wrapped with the supplied gate.
func (h *Handler) Routes(coordinatorGate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/name", h.SubmitName)
	r.With(coordinatorGate).Get("/users", h.ListUsers)

	return r
}

// Register handles POST /roster/register
// @Summary      Register or update the caller
// @Description  Upsert the caller's roster record; prompts for a name when none is stored
// @Tags         roster
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration request"
// @Success      200 {object} response.APIResponse{data=RegisterResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /roster/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	user, namePending, err := h.service.Register(r.Context(), userID, req.Username, req.FullName, h.coordinators)
	if err != nil {
		response.InternalError(w, "Failed to register user")
		return
	}

	response.JSON(w, http.StatusOK, &RegisterResponse{
		User:        user.ToResponse(),
		NamePending: namePending,
	})
}

// SubmitName handles POST /roster/name
// @Summary      Submit the caller's full name
// @Description  Completes the registration conversation for a caller who was prompted for a name
// @Tags         roster
// @Accept       json
// @Produce      json
// @Param        request body SubmitNameRequest true "Name submission"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /roster/name [post]
func (h *Handler) SubmitName(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	var req SubmitNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	err := h.service.SubmitName(r.Context(), userID, strings.TrimSpace(req.FullName))
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyName):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrNoNamePending):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to save name")
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Name saved"})
}

// ListUsers handles GET /roster/users
// @Summary      List all registered users
// @Description  All users in registration order; coordinator only
// @Tags         roster
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]UserResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /roster/users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListAll(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list users")
		return
	}

	userResponses := make([]*UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = user.ToResponse()
	}

	response.JSON(w, http.StatusOK, userResponses)
}
