package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
	"github.com/reachtide/sms-dispatch/internal/sms/provider"
)

// SMSGateway is the dispatcher's view of the provider gateway.
type SMSGateway interface {
	SendSMS(ctx context.Context, phone, body string, cfg *domain.ProviderConfig) provider.SendResult
	TestProvider(ctx context.Context, cfg *domain.ProviderConfig) bool
}

// Dispatcher orchestrates a campaign send: precondition checks, recipient
// resolution, bounded-concurrency fanout through the gateway, aggregation,
// and the activity audit trail.
type Dispatcher struct {
	campaignRepo domain.CampaignRepository
	providerRepo domain.ProviderRepository
	audienceRepo domain.AudienceRepository
	activityRepo domain.ActivityRepository
	resolver     *Resolver
	gateway      SMSGateway
	logger       *slog.Logger

	// concurrency bounds in-flight vendor calls within one dispatch;
	// providerTimeout bounds each individual gateway call.
	concurrency     int
	providerTimeout time.Duration
}

// NewDispatcher creates a Dispatcher. concurrency < 1 is coerced to 1.
func NewDispatcher(
	campaignRepo domain.CampaignRepository,
	providerRepo domain.ProviderRepository,
	audienceRepo domain.AudienceRepository,
	activityRepo domain.ActivityRepository,
	resolver *Resolver,
	gateway SMSGateway,
	logger *slog.Logger,
	concurrency int,
	providerTimeout time.Duration,
) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	if providerTimeout <= 0 {
		providerTimeout = 30 * time.Second
	}
	return &Dispatcher{
		campaignRepo:    campaignRepo,
		providerRepo:    providerRepo,
		audienceRepo:    audienceRepo,
		activityRepo:    activityRepo,
		resolver:        resolver,
		gateway:         gateway,
		logger:          logger.With("component", "campaign_dispatcher"),
		concurrency:     concurrency,
		providerTimeout: providerTimeout,
	}
}

// SendCampaign dispatches the campaign to its resolved recipient set.
//
// Whole-operation preconditions (missing campaign, non-draft status, no
// active provider) fail before any vendor call. Per-recipient failures are
// folded into the aggregate counts and never abort the batch; the campaign is
// marked sent once every attempt has completed, even when every individual
// send failed.
func (d *Dispatcher) SendCampaign(ctx context.Context, campaignID, actorID, orgID uuid.UUID) (*domain.DispatchResult, error) {
	logger := d.logger.With("campaign_id", campaignID, "org_id", orgID)

	c, err := d.campaignRepo.GetByID(ctx, campaignID, orgID, actorID)
	if err != nil {
		campaignsDispatchedCounter.WithLabelValues("blocked").Inc()
		return nil, err
	}
	if c.Status != domain.CampaignStatusDraft {
		campaignsDispatchedCounter.WithLabelValues("blocked").Inc()
		return nil, fmt.Errorf("campaign is %s, only draft campaigns can be sent: %w", c.Status, domain.ErrConflict)
	}

	cfg, err := d.providerRepo.GetActive(ctx, orgID)
	if err != nil {
		campaignsDispatchedCounter.WithLabelValues("blocked").Inc()
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no active SMS provider configured for organization: %w", domain.ErrConflict)
		}
		return nil, err
	}

	// Atomic draft -> sending transition; a concurrent dispatch of the same
	// campaign loses the race here and observes ErrConflict.
	if err := d.campaignRepo.MarkSending(ctx, campaignID, orgID); err != nil {
		campaignsDispatchedCounter.WithLabelValues("blocked").Inc()
		return nil, err
	}

	// Past the CAS the campaign is committed to reaching a terminal status.
	// The remaining work runs detached from the caller's context so a client
	// disconnect or request timeout cannot cancel in-flight vendor calls or
	// strand the campaign in sending; per-call timeouts still apply.
	dispatchCtx := context.WithoutCancel(ctx)

	recipients, err := d.resolver.Resolve(dispatchCtx, c)
	if err != nil {
		logger.ErrorContext(dispatchCtx, "Recipient resolution failed after transition to sending", "error", err)
		if markErr := d.campaignRepo.MarkFailed(dispatchCtx, campaignID); markErr != nil {
			logger.ErrorContext(dispatchCtx, "Failed to mark campaign failed", "error", markErr)
		}
		campaignsDispatchedCounter.WithLabelValues("failed").Inc()
		return nil, err
	}
	recipientsPerCampaignHist.Observe(float64(len(recipients)))

	// Provider config and campaign content are read-only from here on:
	// in-flight sends complete against this snapshot even if the provider is
	// deactivated concurrently.
	var successCount, failedCount atomic.Int64

	g, gctx := errgroup.WithContext(dispatchCtx)
	g.SetLimit(d.concurrency)
	for _, recipient := range recipients {
		recipient := recipient
		g.Go(func() error {
			result := d.sendToRecipient(gctx, c, cfg, recipient)
			if result.Success {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}
			d.recordSendActivity(gctx, c.ID, recipient.ContactID, result)
			// Per-recipient failures never abort siblings.
			return nil
		})
	}
	// Workers always return nil; Wait is purely a completion barrier so the
	// terminal status is committed only after every attempt finished.
	_ = g.Wait()

	sentAt := time.Now().UTC()
	if err := d.campaignRepo.MarkSent(dispatchCtx, campaignID, sentAt); err != nil {
		logger.ErrorContext(dispatchCtx, "Failed to mark campaign sent", "error", err)
		campaignsDispatchedCounter.WithLabelValues("failed").Inc()
		return nil, err
	}
	campaignsDispatchedCounter.WithLabelValues("sent").Inc()

	result := &domain.DispatchResult{
		Message:      "Campaign sent",
		SuccessCount: int(successCount.Load()),
		FailedCount:  int(failedCount.Load()),
	}
	logger.InfoContext(dispatchCtx, "Campaign dispatch finished",
		"success_count", result.SuccessCount, "failed_count", result.FailedCount, "sent_at", sentAt)
	return result, nil
}

func (d *Dispatcher) sendToRecipient(ctx context.Context, c *domain.Campaign, cfg *domain.ProviderConfig, r domain.Recipient) provider.SendResult {
	sendCtx, cancel := context.WithTimeout(ctx, d.providerTimeout)
	defer cancel()

	timer := prometheus.NewTimer(providerSendDurationHist.WithLabelValues(string(cfg.Type)))
	result := d.gateway.SendSMS(sendCtx, r.PhoneNumber, renderContent(c.Content, r.Vars), cfg)
	timer.ObserveDuration()

	status := "success"
	if !result.Success {
		status = "failure"
	}
	recipientSendsCounter.WithLabelValues(string(cfg.Type), status).Inc()
	return result
}

// recordSendActivity appends one sent/failed audit record for the recipient.
// Audit write failures are logged but do not affect the aggregate outcome.
func (d *Dispatcher) recordSendActivity(ctx context.Context, campaignID, contactID uuid.UUID, result provider.SendResult) {
	metadata := map[string]string{
		"provider": string(result.Provider),
	}
	kind := domain.ActivitySent
	if result.Success {
		metadata["message_id"] = result.MessageID
		metadata["cost"] = strconv.FormatFloat(result.Cost, 'f', -1, 64)
	} else {
		kind = domain.ActivityFailed
		if result.Error != nil {
			metadata["error_code"] = result.Error.Code
			metadata["error_message"] = result.Error.Message
		}
	}

	rec := domain.NewActivityRecord(campaignID, contactID, kind, metadata)
	if err := d.activityRepo.Append(ctx, rec); err != nil {
		d.logger.ErrorContext(ctx, "Failed to append activity record",
			"error", err, "campaign_id", campaignID, "contact_id", contactID, "type", kind)
	}
}

// UnsubscribeContact marks the contact unsubscribed and writes one
// unsubscribed activity record. Unsubscribing twice has the same end state
// and writes no duplicate record.
func (d *Dispatcher) UnsubscribeContact(ctx context.Context, contactID, campaignID uuid.UUID) error {
	contact, err := d.audienceRepo.GetContact(ctx, contactID)
	if err != nil {
		return err
	}
	if contact.Status == domain.ContactStatusUnsubscribed {
		return nil
	}

	if err := d.audienceRepo.UpdateContactStatus(ctx, contactID, domain.ContactStatusUnsubscribed); err != nil {
		return err
	}

	rec := domain.NewActivityRecord(campaignID, contactID, domain.ActivityUnsubscribed, nil)
	if err := d.activityRepo.Append(ctx, rec); err != nil {
		d.logger.ErrorContext(ctx, "Failed to append unsubscribe activity record",
			"error", err, "campaign_id", campaignID, "contact_id", contactID)
	}
	d.logger.InfoContext(ctx, "Contact unsubscribed", "contact_id", contactID, "campaign_id", campaignID)
	return nil
}
