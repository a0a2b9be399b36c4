// Package handler exposes the staging intake API.
package handler

import (
	"errors"
	"net/http"

	"takeout_backend/internal/staging/repository"
	"takeout_backend/internal/staging/service"
	"takeout_backend/internal/staging/transport"
	"takeout_backend/platform/httpkit"
	"takeout_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	errInvalidRequest = "invalid request body"
	errValidation     = "validation error"
	errInvalidLeadID  = "invalid lead ID"
	errNoLeadForSess  = "no lead for session"
	errLeadNotFound   = "lead not found"
)

// Handler handles staging HTTP requests.
type Handler struct {
	service *service.Service
	repo    *repository.Repository
	val     *validator.Validator
}

// New creates a new staging handler.
func New(service *service.Service, repo *repository.Repository, val *validator.Validator) *Handler {
	return &Handler{service: service, repo: repo, val: val}
}

// RegisterRoutes registers the intake routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.HandleSubmitLead)
	rg.GET("/session/:sessionId", h.HandleGetLeadBySession)
	rg.GET("/:leadId", h.HandleGetLead)
}

// HandleSubmitLead stages one captured lead.
// POST /api/v1/leads
func (h *Handler) HandleSubmitLead(c *gin.Context) {
	var req transport.SubmitLeadRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	result := h.service.Stage(c.Request.Context(), req.Prefilled.ToDomain(), req.Extracted.ToDomain(), req.SessionID)

	c.JSON(statusForOutcome(result.Outcome), transport.StageLeadResponse{
		LeadID:  result.LeadID,
		Outcome: result.Outcome,
		Message: messageForOutcome(result.Outcome),
	})
}

// HandleGetLeadBySession returns the lead staged for a session, if any.
// Callers hit this to reconcile an ambiguous timeout before retrying.
// GET /api/v1/leads/session/:sessionId
func (h *Handler) HandleGetLeadBySession(c *gin.Context) {
	sessionID := c.Param("sessionId")

	lead, err := h.repo.FindBySessionID(c.Request.Context(), sessionID)
	if errors.Is(err, repository.ErrLeadNotFound) {
		httpkit.Error(c, http.StatusNotFound, errNoLeadForSess, nil)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toLeadResponse(lead))
}

// HandleGetLead re-fetches one staged lead by id.
// GET /api/v1/leads/:leadId
func (h *Handler) HandleGetLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, errInvalidLeadID, nil)
		return
	}

	lead, err := h.repo.GetByID(c.Request.Context(), leadID)
	if errors.Is(err, repository.ErrLeadNotFound) {
		httpkit.Error(c, http.StatusNotFound, errLeadNotFound, nil)
		return
	}
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toLeadResponse(lead))
}

func statusForOutcome(outcome string) int {
	switch outcome {
	case service.OutcomeStaged:
		return http.StatusCreated
	case service.OutcomeNoRoute:
		return http.StatusServiceUnavailable
	case service.OutcomeFailed:
		return http.StatusInternalServerError
	default:
		// duplicate and not_sent are ordinary, repeatable outcomes
		return http.StatusOK
	}
}

func messageForOutcome(outcome string) string {
	switch outcome {
	case service.OutcomeStaged:
		return "Lead staged"
	case service.OutcomeDuplicate:
		return "Duplicate lead ignored"
	case service.OutcomeNotSent:
		return "Lead captured, shared store not configured"
	case service.OutcomeNoRoute:
		return "No default campaign configured"
	default:
		return "Lead staging failed"
	}
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:             lead.ID,
		CampaignID:     lead.CampaignID,
		TicketID:       lead.TicketID,
		BrandID:        lead.BrandID,
		Platform:       lead.Platform,
		PlatformLeadID: lead.PlatformLeadID,
		Status:         lead.Status,
		MenuItem:       lead.MenuItem,
		FormData:       lead.FormData,
		Metadata:       lead.Metadata,
		CapturedAt:     lead.CapturedAt,
		StagedAt:       lead.StagedAt,
		DeliveredAt:    lead.DeliveredAt,
	}
}

func (h *Handler) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errInvalidRequest, err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errValidation, err.Error())
		return false
	}
	return true
}
