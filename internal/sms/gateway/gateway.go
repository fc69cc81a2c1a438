// Package gateway normalizes the vendor adapters behind one send contract.
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
	"github.com/reachtide/sms-dispatch/internal/sms/phone"
	"github.com/reachtide/sms-dispatch/internal/sms/provider"
)

// testRecipient and testMessage form the fixed payload for provider
// connectivity checks.
const (
	testRecipient = "+2348000000000"
	testMessage   = "Connectivity test message"
)

// Gateway routes a send request to the adapter matching the provider
// configuration's type. All failures are results, not errors, so batch
// callers can continue past a single bad recipient.
type Gateway struct {
	adapters map[domain.ProviderType]provider.Adapter
	logger   *slog.Logger
}

// New builds a Gateway over the given adapters, registered by their type.
func New(logger *slog.Logger, adapters ...provider.Adapter) *Gateway {
	byType := make(map[domain.ProviderType]provider.Adapter, len(adapters))
	for _, a := range adapters {
		byType[a.Type()] = a
	}
	return &Gateway{
		adapters: byType,
		logger:   logger.With("component", "sms_gateway"),
	}
}

// SendSMS validates the recipient number, then dispatches through the adapter
// matching cfg.Type. An unrecognized number yields an InvalidPhoneNumber
// result; a provider type with no registered adapter yields an
// UnsupportedProvider result.
func (g *Gateway) SendSMS(ctx context.Context, phoneNumber, body string, cfg *domain.ProviderConfig) provider.SendResult {
	normalized, err := phone.Normalize(phoneNumber)
	if err != nil {
		g.logger.WarnContext(ctx, "Rejected invalid phone number", "phone_number", phoneNumber)
		return provider.SendResult{
			Success:  false,
			Provider: cfg.Type,
			Error:    &provider.SendError{Code: provider.CodeInvalidPhoneNumber, Message: err.Error()},
		}
	}

	adapter, ok := g.adapters[cfg.Type]
	if !ok {
		g.logger.ErrorContext(ctx, "No adapter registered for provider type", "provider_type", cfg.Type)
		return provider.SendResult{
			Success:  false,
			Provider: cfg.Type,
			Error: &provider.SendError{
				Code:    provider.CodeUnsupportedProvider,
				Message: fmt.Sprintf("Unsupported SMS provider: %s", cfg.Type),
			},
		}
	}

	return adapter.Send(ctx, normalized, body, cfg)
}

// TestProvider sends the fixed test payload through the matched adapter and
// reports whether the vendor accepted it. It never mutates verification
// state; the caller persists the outcome.
func (g *Gateway) TestProvider(ctx context.Context, cfg *domain.ProviderConfig) bool {
	adapter, ok := g.adapters[cfg.Type]
	if !ok {
		g.logger.ErrorContext(ctx, "Cannot test unsupported provider type", "provider_type", cfg.Type)
		return false
	}
	result := adapter.Send(ctx, testRecipient, testMessage, cfg)
	g.logger.InfoContext(ctx, "Provider connectivity test finished", "provider_type", cfg.Type, "success", result.Success)
	return result.Success
}
