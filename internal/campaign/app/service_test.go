package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

type serviceTestComponents struct {
	service      *Service
	campaignRepo *MockCampaignRepository
	providerRepo *MockProviderRepository
	audienceRepo *MockAudienceRepository
	gateway      *MockSMSGateway
}

func setupServiceTest(t *testing.T) serviceTestComponents {
	t.Helper()
	campaignRepo := new(MockCampaignRepository)
	providerRepo := new(MockProviderRepository)
	audienceRepo := new(MockAudienceRepository)
	gateway := new(MockSMSGateway)
	service := NewService(campaignRepo, providerRepo, audienceRepo, gateway, testLogger())
	return serviceTestComponents{
		service:      service,
		campaignRepo: campaignRepo,
		providerRepo: providerRepo,
		audienceRepo: audienceRepo,
		gateway:      gateway,
	}
}

func TestService_CreateCampaign_VerifiesReferences(t *testing.T) {
	tc := setupServiceTest(t)
	orgID := uuid.New()
	actorID := uuid.New()
	listID := uuid.New()
	segmentID := uuid.New()
	templateID := uuid.New()

	tc.audienceRepo.On("ListExists", mock.Anything, listID, orgID).Return(true, nil)
	tc.audienceRepo.On("SegmentExists", mock.Anything, segmentID, orgID).Return(true, nil)
	tc.audienceRepo.On("TemplateExists", mock.Anything, templateID, orgID).Return(true, nil)
	tc.campaignRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Campaign")).Return(nil)

	c, err := tc.service.CreateCampaign(context.Background(), orgID, actorID, CreateCampaignInput{
		Name:       "launch",
		Content:    "hello",
		Sender:     "SENDER",
		TemplateID: &templateID,
		ListIDs:    []uuid.UUID{listID},
		SegmentIDs: []uuid.UUID{segmentID},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignStatusDraft, c.Status)
	assert.Equal(t, orgID, c.OrgID)
	tc.audienceRepo.AssertExpectations(t)
}

func TestService_CreateCampaign_DanglingList(t *testing.T) {
	tc := setupServiceTest(t)
	orgID := uuid.New()
	listID := uuid.New()

	tc.audienceRepo.On("ListExists", mock.Anything, listID, orgID).Return(false, nil)

	_, err := tc.service.CreateCampaign(context.Background(), orgID, uuid.New(), CreateCampaignInput{
		Name:    "launch",
		Content: "hello",
		Sender:  "SENDER",
		ListIDs: []uuid.UUID{listID},
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	tc.campaignRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateCampaign_DanglingTemplate(t *testing.T) {
	tc := setupServiceTest(t)
	orgID := uuid.New()
	templateID := uuid.New()

	tc.audienceRepo.On("TemplateExists", mock.Anything, templateID, orgID).Return(false, nil)

	_, err := tc.service.CreateCampaign(context.Background(), orgID, uuid.New(), CreateCampaignInput{
		Name:       "launch",
		Content:    "hello",
		Sender:     "SENDER",
		TemplateID: &templateID,
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	tc.campaignRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateProvider_ConflictWhenActiveExists(t *testing.T) {
	tc := setupServiceTest(t)
	orgID := uuid.New()

	tc.providerRepo.On("HasActive", mock.Anything, orgID).Return(true, nil)

	_, err := tc.service.CreateProvider(context.Background(), orgID, CreateProviderInput{
		Type:   domain.ProviderTwilio,
		APIKey: "sid",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	tc.providerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateProvider_Success(t *testing.T) {
	tc := setupServiceTest(t)
	orgID := uuid.New()

	tc.providerRepo.On("HasActive", mock.Anything, orgID).Return(false, nil)
	tc.providerRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ProviderConfig")).Return(nil)

	cfg, err := tc.service.CreateProvider(context.Background(), orgID, CreateProviderInput{
		Type:     domain.ProviderAfricasTalking,
		APIKey:   "key",
		Username: "sandbox",
		SenderID: "SENDER",
	})
	require.NoError(t, err)
	assert.True(t, cfg.IsActive)
	assert.Equal(t, domain.VerificationUnverified, cfg.VerificationStatus)
}

func TestService_VerifyProvider(t *testing.T) {
	t.Run("verified", func(t *testing.T) {
		tc := setupServiceTest(t)
		orgID := uuid.New()
		cfg := domain.NewProviderConfig(uuid.New(), orgID, domain.ProviderTermii, "key", "", "", "SENDER")

		tc.providerRepo.On("GetActive", mock.Anything, orgID).Return(cfg, nil)
		tc.gateway.On("TestProvider", mock.Anything, cfg).Return(true)
		tc.providerRepo.On("UpdateVerificationStatus", mock.Anything, cfg.ID, domain.VerificationVerified).Return(nil)

		ok, err := tc.service.VerifyProvider(context.Background(), orgID)
		require.NoError(t, err)
		assert.True(t, ok)
		tc.providerRepo.AssertExpectations(t)
	})

	t.Run("failed", func(t *testing.T) {
		tc := setupServiceTest(t)
		orgID := uuid.New()
		cfg := domain.NewProviderConfig(uuid.New(), orgID, domain.ProviderTermii, "key", "", "", "SENDER")

		tc.providerRepo.On("GetActive", mock.Anything, orgID).Return(cfg, nil)
		tc.gateway.On("TestProvider", mock.Anything, cfg).Return(false)
		tc.providerRepo.On("UpdateVerificationStatus", mock.Anything, cfg.ID, domain.VerificationFailed).Return(nil)

		ok, err := tc.service.VerifyProvider(context.Background(), orgID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRenderContent(t *testing.T) {
	vars := map[string]string{"first_name": "Ada", "city": "Lagos"}
	assert.Equal(t, "Hi Ada from Lagos", renderContent("Hi {first_name} from {city}", vars))
	assert.Equal(t, "no placeholders", renderContent("no placeholders", vars))
	assert.Equal(t, "{unknown} stays", renderContent("{unknown} stays", vars))
	assert.Equal(t, "plain", renderContent("plain", nil))
}
