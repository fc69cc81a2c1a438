package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
	"github.com/reachtide/sms-dispatch/internal/sms/provider"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mocks ---

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id, orgID, actorID uuid.UUID) (*domain.Campaign, error) {
	args := m.Called(ctx, id, orgID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) List(ctx context.Context, orgID uuid.UUID, status *domain.CampaignStatus, offset, limit int) ([]*domain.Campaign, error) {
	args := m.Called(ctx, orgID, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) MarkSending(ctx context.Context, id, orgID uuid.UUID) error {
	args := m.Called(ctx, id, orgID)
	return args.Error(0)
}

func (m *MockCampaignRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockCampaignRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) Create(ctx context.Context, p *domain.ProviderConfig) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProviderRepository) GetActive(ctx context.Context, orgID uuid.UUID) (*domain.ProviderConfig, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProviderConfig), args.Error(1)
}

func (m *MockProviderRepository) HasActive(ctx context.Context, orgID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orgID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProviderRepository) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status domain.VerificationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockAudienceRepository struct {
	mock.Mock
}

func (m *MockAudienceRepository) ListExists(ctx context.Context, id, orgID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, orgID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAudienceRepository) SegmentExists(ctx context.Context, id, orgID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, orgID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAudienceRepository) TemplateExists(ctx context.Context, id, orgID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, orgID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAudienceRepository) ContactsByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*domain.Contact, error) {
	args := m.Called(ctx, orgID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contact), args.Error(1)
}

func (m *MockAudienceRepository) ListMembers(ctx context.Context, listID uuid.UUID) ([]*domain.Contact, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contact), args.Error(1)
}

func (m *MockAudienceRepository) SegmentMembers(ctx context.Context, segmentID uuid.UUID) ([]*domain.Contact, error) {
	args := m.Called(ctx, segmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contact), args.Error(1)
}

func (m *MockAudienceRepository) GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockAudienceRepository) UpdateContactStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Append(ctx context.Context, rec *domain.ActivityRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

type MockSMSGateway struct {
	mock.Mock
}

func (m *MockSMSGateway) SendSMS(ctx context.Context, phone, body string, cfg *domain.ProviderConfig) provider.SendResult {
	args := m.Called(ctx, phone, body, cfg)
	return args.Get(0).(provider.SendResult)
}

func (m *MockSMSGateway) TestProvider(ctx context.Context, cfg *domain.ProviderConfig) bool {
	args := m.Called(ctx, cfg)
	return args.Bool(0)
}

// --- Shared fixtures ---

func activeContact(orgID uuid.UUID, number, firstName string) *domain.Contact {
	now := time.Now().UTC()
	return &domain.Contact{
		ID:          uuid.New(),
		OrgID:       orgID,
		PhoneNumber: number,
		FirstName:   firstName,
		Status:      domain.ContactStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
