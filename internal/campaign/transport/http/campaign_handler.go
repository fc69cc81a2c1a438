// Package http exposes the campaign dispatch subsystem over JSON HTTP using
// chi. Authentication happens upstream; the tenant and actor identities
// arrive as X-Org-ID and X-Actor-ID headers set by the API gateway.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/reachtide/sms-dispatch/internal/campaign/app"
	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

// CampaignService is the application surface the handler drives for campaign
// and provider management.
type CampaignService interface {
	CreateCampaign(ctx context.Context, orgID, actorID uuid.UUID, in app.CreateCampaignInput) (*domain.Campaign, error)
	GetCampaign(ctx context.Context, id, orgID, actorID uuid.UUID) (*domain.Campaign, error)
	ListCampaigns(ctx context.Context, orgID uuid.UUID, status *domain.CampaignStatus, offset, limit int) ([]*domain.Campaign, error)
	CreateProvider(ctx context.Context, orgID uuid.UUID, in app.CreateProviderInput) (*domain.ProviderConfig, error)
	VerifyProvider(ctx context.Context, orgID uuid.UUID) (bool, error)
}

// CampaignDispatcher is the application surface the handler drives for sends
// and unsubscribes.
type CampaignDispatcher interface {
	SendCampaign(ctx context.Context, campaignID, actorID, orgID uuid.UUID) (*domain.DispatchResult, error)
	UnsubscribeContact(ctx context.Context, contactID, campaignID uuid.UUID) error
}

// CampaignHandler handles HTTP requests for campaigns, providers, and
// unsubscribes.
type CampaignHandler struct {
	service    CampaignService
	dispatcher CampaignDispatcher
	logger     *slog.Logger
	validate   *validator.Validate
}

// NewCampaignHandler creates a new CampaignHandler.
func NewCampaignHandler(service CampaignService, dispatcher CampaignDispatcher, logger *slog.Logger, validate *validator.Validate) *CampaignHandler {
	return &CampaignHandler{
		service:    service,
		dispatcher: dispatcher,
		logger:     logger.With("component", "campaign_handler"),
		validate:   validate,
	}
}

// RegisterRoutes sets up the routing for campaign and provider operations.
func (h *CampaignHandler) RegisterRoutes(r chi.Router) {
	r.Post("/campaigns", h.CreateCampaign)
	r.Get("/campaigns", h.ListCampaigns)
	r.Get("/campaigns/{campaignID}", h.GetCampaign)
	r.Post("/campaigns/{campaignID}/send", h.SendCampaign)
	r.Post("/campaigns/{campaignID}/unsubscribe/{contactID}", h.UnsubscribeContact)

	r.Post("/providers", h.CreateProvider)
	r.Post("/providers/verify", h.VerifyProvider)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("Failed to write JSON response", "error", err)
		}
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// mapDomainErrorToHTTPStatus converts domain errors to HTTP status codes.
func mapDomainErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case domain.IsValidation(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// identityFromRequest extracts the tenant and actor ids the gateway injected.
func identityFromRequest(r *http.Request) (orgID, actorID uuid.UUID, err error) {
	orgID, err = uuid.Parse(r.Header.Get("X-Org-ID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("missing or invalid X-Org-ID header")
	}
	actorID, err = uuid.Parse(r.Header.Get("X-Actor-ID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("missing or invalid X-Actor-ID header")
	}
	return orgID, actorID, nil
}

func campaignToDTO(c *domain.Campaign) CampaignResponseDTO {
	return CampaignResponseDTO{
		ID:         c.ID,
		OrgID:      c.OrgID,
		Name:       c.Name,
		Content:    c.Content,
		Sender:     c.Sender,
		TemplateID: c.TemplateID,
		ContactIDs: c.ContactIDs,
		ListIDs:    c.ListIDs,
		SegmentIDs: c.SegmentIDs,
		Status:     string(c.Status),
		SentAt:     c.SentAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, actorID, err := identityFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var reqDTO CreateCampaignRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	campaign, err := h.service.CreateCampaign(ctx, orgID, actorID, app.CreateCampaignInput{
		Name:       reqDTO.Name,
		Content:    reqDTO.Content,
		Sender:     reqDTO.Sender,
		TemplateID: reqDTO.TemplateID,
		ContactIDs: reqDTO.ContactIDs,
		ListIDs:    reqDTO.ListIDs,
		SegmentIDs: reqDTO.SegmentIDs,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to create campaign", "error", err, "org_id", orgID)
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to create campaign: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, campaignToDTO(campaign))
}

func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, actorID, err := identityFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}
	campaignID, err := uuid.Parse(chi.URLParam(r, "campaignID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID format")
		return
	}

	campaign, err := h.service.GetCampaign(ctx, campaignID, orgID, actorID)
	if err != nil {
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to get campaign: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, campaignToDTO(campaign))
}

func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, _, err := identityFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var status *domain.CampaignStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.CampaignStatus(raw)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter: "+raw)
			return
		}
		status = &s
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	campaigns, err := h.service.ListCampaigns(ctx, orgID, status, offset, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list campaigns", "error", err, "org_id", orgID)
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to list campaigns: "+err.Error())
		return
	}

	dtos := make([]CampaignResponseDTO, 0, len(campaigns))
	for _, c := range campaigns {
		dtos = append(dtos, campaignToDTO(c))
	}
	respondWithJSON(w, http.StatusOK, dtos)
}

func (h *CampaignHandler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, actorID, err := identityFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}
	campaignID, err := uuid.Parse(chi.URLParam(r, "campaignID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID format")
		return
	}

	result, err := h.dispatcher.SendCampaign(ctx, campaignID, actorID, orgID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to send campaign", "error", err, "campaign_id", campaignID)
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to send campaign: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, DispatchResponseDTO{
		Message:      result.Message,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
	})
}

func (h *CampaignHandler) UnsubscribeContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	campaignID, err := uuid.Parse(chi.URLParam(r, "campaignID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid campaign ID format")
		return
	}
	contactID, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID format")
		return
	}

	if err := h.dispatcher.UnsubscribeContact(ctx, contactID, campaignID); err != nil {
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to unsubscribe contact: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Contact unsubscribed"})
}

func (h *CampaignHandler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, _, err := identityFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var reqDTO CreateProviderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	cfg, err := h.service.CreateProvider(ctx, orgID, app.CreateProviderInput{
		Type:      domain.ProviderType(reqDTO.Type),
		APIKey:    reqDTO.APIKey,
		APISecret: reqDTO.APISecret,
		Username:  reqDTO.Username,
		SenderID:  reqDTO.SenderID,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to create provider config", "error", err, "org_id", orgID)
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to create provider: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, ProviderResponseDTO{
		ID:                 cfg.ID,
		OrgID:              cfg.OrgID,
		Type:               string(cfg.Type),
		SenderID:           cfg.SenderID,
		IsActive:           cfg.IsActive,
		VerificationStatus: string(cfg.VerificationStatus),
		CreatedAt:          cfg.CreatedAt,
	})
}

func (h *CampaignHandler) VerifyProvider(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, _, err := identityFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	verified, err := h.service.VerifyProvider(ctx, orgID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to verify provider", "error", err, "org_id", orgID)
		respondWithError(w, mapDomainErrorToHTTPStatus(err), "Failed to verify provider: "+err.Error())
		return
	}
	status := domain.VerificationVerified
	if !verified {
		status = domain.VerificationFailed
	}
	respondWithJSON(w, http.StatusOK, VerifyProviderResponseDTO{
		Verified:           verified,
		VerificationStatus: string(status),
	})
}
