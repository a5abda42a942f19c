package campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avasilyev/fundbot/internal/report"
	"github.com/avasilyev/fundbot/internal/roster"
	mw "github.com/avasilyev/fundbot/pkg/middleware"
	"github.com/avasilyev/fundbot/pkg/response"
)

// Notifier queues outbound messages for campaign events. Delivery,
// rate-limiting and partial-failure handling live behind this boundary;
// the returned count is how many notices were queued.
type Notifier interface {
	AnnounceCampaign(campaignID int64, title string, perUserAmount int64, recipients []int64) int
	RemindUnpaid(campaignID int64, title string, perUserAmount int64, recipients []int64) int
}

// UserDirectory resolves user display identities for listings and exports
type UserDirectory interface {
	ListAll(ctx context.Context) ([]*roster.User, error)
}

// Handler handles HTTP requests for campaign operations
type Handler struct {
	service  *Service
	users    UserDirectory
	notifier Notifier
}

// NewHandler creates a new campaign handler
func NewHandler(service *Service, users UserDirectory, notifier Notifier) *Handler {
	return &Handler{service: service, users: users, notifier: notifier}
}

// Routes returns the router for campaign endpoints. Management routes are
// wrapped with the coordinator gate; the privilege check never happens in
// the service itself.
func (h *Handler) Routes(coordinatorGate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/active", h.GetActive)
	r.Get("/me", h.MyStatus)
	r.Post("/{id}/payments", h.TogglePayment)

	r.Group(func(r chi.Router) {
		r.Use(coordinatorGate)
		r.Post("/", h.Create)
		r.Post("/close", h.Close)
		r.Get("/{id}/stats", h.Stats)
		r.Get("/{id}/members", h.Members)
		r.Get("/{id}/export", h.Export)
		r.Post("/{id}/remind", h.Remind)
	})

	return r
}

// Create handles POST /campaigns
// @Summary      Create a campaign
// @Description  Create a campaign against a snapshot of the current roster and queue announcements
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        request body CreateCampaignRequest true "Campaign creation request"
// @Success      201 {object} response.APIResponse{data=CreateCampaignResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /campaigns [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := mw.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	var req CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	// Malformed input never reaches the engine.
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		response.BadRequest(w, "Title is required")
		return
	}
	if req.TotalAmount < 0 {
		response.BadRequest(w, "Total amount cannot be negative")
		return
	}

	// One active campaign at a time is a dispatcher rule: the engine
	// itself does not deactivate a prior campaign on create.
	active, err := h.service.Active(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to check active campaign")
		return
	}
	if active != nil {
		response.Conflict(w, fmt.Sprintf("Campaign %q is still active; close it first", active.Title))
		return
	}

	c, participants, perUser, err := h.service.Create(r.Context(), req.Title, req.TotalAmount, creatorID)
	if err != nil {
		response.InternalError(w, "Failed to create campaign")
		return
	}

	queued := h.notifier.AnnounceCampaign(c.ID, c.Title, perUser, participants)

	response.JSON(w, http.StatusCreated, &CreateCampaignResponse{
		Campaign:            c.ToResponse(),
		Participants:        participants,
		PerUserAmount:       perUser,
		NotificationsQueued: queued,
	})
}

// GetActive handles GET /campaigns/active
// @Summary      Get the active campaign
// @Tags         campaigns
// @Produce      json
// @Success      200 {object} response.APIResponse{data=CampaignResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /campaigns/active [get]
func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Active(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to get active campaign")
		return
	}
	if c == nil {
		response.NotFound(w, "No active campaign")
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// MyStatus handles GET /campaigns/me
// @Summary      Get the caller's status in the active campaign
// @Description  The personal share is reported only when the caller is a tracked participant
// @Tags         campaigns
// @Produce      json
// @Success      200 {object} response.APIResponse{data=StatusResponse}
// @Router       /campaigns/me [get]
func (h *Handler) MyStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	status, err := h.service.UserStatus(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to get status")
		return
	}

	resp := &StatusResponse{
		IsParticipant: status.Membership != nil,
		PerUserAmount: status.PerUserAmount,
	}
	if status.Campaign != nil {
		resp.Campaign = status.Campaign.ToResponse()
	}
	if status.User != nil {
		if status.User.IsCoordinator {
			resp.Role = "coordinator"
		} else {
			resp.Role = "participant"
		}
	}
	if status.Membership != nil {
		paid := status.Membership.HasPaid
		resp.Paid = &paid
	}

	response.JSON(w, http.StatusOK, resp)
}

// TogglePayment handles POST /campaigns/{id}/payments
// @Summary      Acknowledge or revoke the caller's payment
// @Description  Marking and unmarking are both valid until the campaign record disappears from view
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Param        id path int true "Campaign ID"
// @Param        request body ToggleRequest true "Payment acknowledgement"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /campaigns/{id}/payments [post]
func (h *Handler) TogglePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing caller identity")
		return
	}

	campaignID, err := campaignIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid campaign ID")
		return
	}

	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	updated, err := h.service.TogglePayment(r.Context(), campaignID, userID, req.Paid)
	if err != nil {
		response.InternalError(w, "Failed to update payment status")
		return
	}
	if !updated {
		response.NotFound(w, "You are not a participant of this campaign")
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"paid": req.Paid})
}

// Stats handles GET /campaigns/{id}/stats
// @Summary      Campaign payment statistics
// @Tags         campaigns
// @Produce      json
// @Param        id path int true "Campaign ID"
// @Success      200 {object} response.APIResponse{data=StatsResponse}
// @Router       /campaigns/{id}/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	campaignID, err := campaignIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid campaign ID")
		return
	}

	stats, err := h.service.CampaignStats(r.Context(), campaignID)
	if err != nil {
		response.InternalError(w, "Failed to get campaign stats")
		return
	}

	var remaining int64
	if c, err := h.service.GetByID(r.Context(), campaignID); err == nil && c != nil {
		remaining = c.TotalAmount - int64(stats.Paid)*c.PerUserAmount
		if remaining < 0 {
			remaining = 0
		}
	}

	response.JSON(w, http.StatusOK, &StatsResponse{
		Total:     stats.Total,
		Paid:      stats.Paid,
		Unpaid:    stats.Unpaid,
		Remaining: remaining,
	})
}

// Members handles GET /campaigns/{id}/members
// @Summary      Campaign participants partitioned by payment state
// @Tags         campaigns
// @Produce      json
// @Param        id path int true "Campaign ID"
// @Success      200 {object} response.APIResponse{data=MembersResponse}
// @Router       /campaigns/{id}/members [get]
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	campaignID, err := campaignIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid campaign ID")
		return
	}

	paidIDs, unpaidIDs, err := h.service.PaidUnpaid(r.Context(), campaignID)
	if err != nil {
		response.InternalError(w, "Failed to list members")
		return
	}

	userMap, err := h.userMap(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to resolve users")
		return
	}

	resp := &MembersResponse{
		Paid:   make([]MemberResponse, 0, len(paidIDs)),
		Unpaid: make([]MemberResponse, 0, len(unpaidIDs)),
	}
	for _, id := range paidIDs {
		resp.Paid = append(resp.Paid, memberResponse(id, true, userMap))
	}
	for _, id := range unpaidIDs {
		resp.Unpaid = append(resp.Unpaid, memberResponse(id, false, userMap))
	}

	response.JSON(w, http.StatusOK, resp)
}

// Export handles GET /campaigns/{id}/export
// @Summary      Export participants as CSV
// @Description  One row per participant; pass unpaid=true to restrict to unpaid members
// @Tags         campaigns
// @Produce      text/csv
// @Param        id path int true "Campaign ID"
// @Param        unpaid query bool false "Only unpaid participants"
// @Success      200 {string} string "CSV payload"
// @Router       /campaigns/{id}/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	campaignID, err := campaignIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid campaign ID")
		return
	}

	paidIDs, unpaidIDs, err := h.service.PaidUnpaid(r.Context(), campaignID)
	if err != nil {
		response.InternalError(w, "Failed to list members")
		return
	}

	userMap, err := h.userMap(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to resolve users")
		return
	}

	unpaidOnly := r.URL.Query().Get("unpaid") == "true"

	var rows []report.ParticipantRow
	if !unpaidOnly {
		for _, id := range paidIDs {
			rows = append(rows, participantRow(id, true, userMap))
		}
	}
	for _, id := range unpaidIDs {
		rows = append(rows, participantRow(id, false, userMap))
	}

	filename := fmt.Sprintf("campaign_%d.csv", campaignID)
	if unpaidOnly {
		filename = fmt.Sprintf("campaign_%d_unpaid.csv", campaignID)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := report.WriteParticipantsCSV(w, rows); err != nil {
		response.InternalError(w, "Failed to write CSV")
		return
	}
}

// Remind handles POST /campaigns/{id}/remind
// @Summary      Queue a reminder to every unpaid participant
// @Tags         campaigns
// @Produce      json
// @Param        id path int true "Campaign ID"
// @Success      200 {object} response.APIResponse{data=RemindResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /campaigns/{id}/remind [post]
func (h *Handler) Remind(w http.ResponseWriter, r *http.Request) {
	campaignID, err := campaignIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid campaign ID")
		return
	}

	c, err := h.service.GetByID(r.Context(), campaignID)
	if err != nil {
		response.InternalError(w, "Failed to get campaign")
		return
	}
	if c == nil {
		response.NotFound(w, "Campaign not found")
		return
	}

	_, unpaidIDs, err := h.service.PaidUnpaid(r.Context(), campaignID)
	if err != nil {
		response.InternalError(w, "Failed to list members")
		return
	}

	queued := h.notifier.RemindUnpaid(c.ID, c.Title, c.PerUserAmount, unpaidIDs)

	response.JSON(w, http.StatusOK, &RemindResponse{Queued: queued, Total: len(unpaidIDs)})
}

// Close handles POST /campaigns/close
// @Summary      Close the active campaign
// @Description  Closing is terminal; a closed campaign cannot be reactivated
// @Tags         campaigns
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /campaigns/close [post]
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	closed, err := h.service.CloseActive(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to close campaign")
		return
	}
	if !closed {
		response.NotFound(w, "No active campaign")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Campaign closed"})
}

func (h *Handler) userMap(ctx context.Context) (map[int64]*roster.User, error) {
	users, err := h.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[int64]*roster.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m, nil
}

func memberResponse(id int64, paid bool, users map[int64]*roster.User) MemberResponse {
	name := strconv.FormatInt(id, 10)
	if u, ok := users[id]; ok {
		name = u.DisplayName()
	}
	return MemberResponse{UserID: id, DisplayName: name, Paid: paid}
}

func participantRow(id int64, paid bool, users map[int64]*roster.User) report.ParticipantRow {
	row := report.ParticipantRow{UserID: id, Paid: paid}
	if u, ok := users[id]; ok {
		if u.FullName != nil {
			row.FullName = *u.FullName
		}
		if u.Username != nil {
			row.Username = *u.Username
		}
	}
	return row
}

func campaignIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
