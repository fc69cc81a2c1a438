package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

// Service covers the campaign and provider management operations around the
// dispatcher: creation with eager reference checks, listing, and provider
// verification.
type Service struct {
	campaignRepo domain.CampaignRepository
	providerRepo domain.ProviderRepository
	audienceRepo domain.AudienceRepository
	gateway      SMSGateway
	logger       *slog.Logger
}

// NewService creates a Service.
func NewService(
	campaignRepo domain.CampaignRepository,
	providerRepo domain.ProviderRepository,
	audienceRepo domain.AudienceRepository,
	gateway SMSGateway,
	logger *slog.Logger,
) *Service {
	return &Service{
		campaignRepo: campaignRepo,
		providerRepo: providerRepo,
		audienceRepo: audienceRepo,
		gateway:      gateway,
		logger:       logger.With("component", "campaign_service"),
	}
}

// CreateCampaignInput carries the fields for a new draft campaign.
type CreateCampaignInput struct {
	Name       string
	Content    string
	Sender     string
	TemplateID *uuid.UUID
	ContactIDs []uuid.UUID
	ListIDs    []uuid.UUID
	SegmentIDs []uuid.UUID
}

// CreateCampaign persists a draft campaign after eagerly verifying that every
// referenced list, segment, and template exists in the tenant's scope. A
// dangling reference is a validation error at creation time, never a surprise
// at send time.
func (s *Service) CreateCampaign(ctx context.Context, orgID, actorID uuid.UUID, in CreateCampaignInput) (*domain.Campaign, error) {
	for _, listID := range in.ListIDs {
		ok, err := s.audienceRepo.ListExists(ctx, listID, orgID)
		if err != nil {
			return nil, fmt.Errorf("verifying list %s: %w", listID, err)
		}
		if !ok {
			return nil, domain.NewValidationError("list_ids", fmt.Sprintf("list %s does not exist", listID))
		}
	}
	for _, segmentID := range in.SegmentIDs {
		ok, err := s.audienceRepo.SegmentExists(ctx, segmentID, orgID)
		if err != nil {
			return nil, fmt.Errorf("verifying segment %s: %w", segmentID, err)
		}
		if !ok {
			return nil, domain.NewValidationError("segment_ids", fmt.Sprintf("segment %s does not exist", segmentID))
		}
	}
	if in.TemplateID != nil {
		ok, err := s.audienceRepo.TemplateExists(ctx, *in.TemplateID, orgID)
		if err != nil {
			return nil, fmt.Errorf("verifying template %s: %w", *in.TemplateID, err)
		}
		if !ok {
			return nil, domain.NewValidationError("template_id", fmt.Sprintf("template %s does not exist", *in.TemplateID))
		}
	}

	c := domain.NewCampaign(uuid.New(), orgID, actorID, in.Name, in.Content, in.Sender)
	c.TemplateID = in.TemplateID
	c.ContactIDs = in.ContactIDs
	c.ListIDs = in.ListIDs
	c.SegmentIDs = in.SegmentIDs

	if err := s.campaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Campaign created", "campaign_id", c.ID, "org_id", orgID)
	return c, nil
}

// GetCampaign loads one campaign scoped to the tenant and acting user.
func (s *Service) GetCampaign(ctx context.Context, id, orgID, actorID uuid.UUID) (*domain.Campaign, error) {
	return s.campaignRepo.GetByID(ctx, id, orgID, actorID)
}

// ListCampaigns returns a page of the tenant's campaigns, optionally filtered
// by status.
func (s *Service) ListCampaigns(ctx context.Context, orgID uuid.UUID, status *domain.CampaignStatus, offset, limit int) ([]*domain.Campaign, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.campaignRepo.List(ctx, orgID, status, offset, limit)
}

// CreateProviderInput carries the fields for a new provider configuration.
type CreateProviderInput struct {
	Type      domain.ProviderType
	APIKey    string
	APISecret string
	Username  string
	SenderID  string
}

// CreateProvider persists an active provider configuration for the tenant.
// It fails with ErrConflict, performing no write, when the tenant already has
// an active provider.
func (s *Service) CreateProvider(ctx context.Context, orgID uuid.UUID, in CreateProviderInput) (*domain.ProviderConfig, error) {
	hasActive, err := s.providerRepo.HasActive(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, fmt.Errorf("organization already has an active SMS provider: %w", domain.ErrConflict)
	}

	cfg := domain.NewProviderConfig(uuid.New(), orgID, in.Type, in.APIKey, in.APISecret, in.Username, in.SenderID)
	if err := s.providerRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Provider configuration created", "provider_id", cfg.ID, "org_id", orgID, "type", cfg.Type)
	return cfg, nil
}

// VerifyProvider runs the gateway connectivity test against the tenant's
// active provider and persists the resulting verification status. The
// gateway itself never mutates state; this is the caller that does.
func (s *Service) VerifyProvider(ctx context.Context, orgID uuid.UUID) (bool, error) {
	cfg, err := s.providerRepo.GetActive(ctx, orgID)
	if err != nil {
		return false, err
	}

	ok := s.gateway.TestProvider(ctx, cfg)
	status := domain.VerificationVerified
	if !ok {
		status = domain.VerificationFailed
	}
	if err := s.providerRepo.UpdateVerificationStatus(ctx, cfg.ID, status); err != nil {
		return ok, err
	}
	s.logger.InfoContext(ctx, "Provider verification finished", "provider_id", cfg.ID, "verified", ok)
	return ok, nil
}
