package provider

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

// MockAdapter is a test implementation of Adapter. It masquerades as the
// provider type it is constructed with so gateway routing can be exercised
// without a live vendor.
type MockAdapter struct {
	logger *slog.Logger
	kind   domain.ProviderType

	FailSend       bool          // simulate a vendor-reported failure
	SimulatedDelay time.Duration // simulate network latency

	calls atomic.Int64
}

// NewMockAdapter creates a MockAdapter posing as the given provider type.
func NewMockAdapter(logger *slog.Logger, kind domain.ProviderType, failSend bool, delay time.Duration) *MockAdapter {
	return &MockAdapter{
		logger:         logger.With("provider", "mock"),
		kind:           kind,
		FailSend:       failSend,
		SimulatedDelay: delay,
	}
}

func (m *MockAdapter) Type() domain.ProviderType { return m.kind }

// Calls reports how many times Send was invoked.
func (m *MockAdapter) Calls() int64 { return m.calls.Load() }

// Send simulates a vendor exchange.
func (m *MockAdapter) Send(ctx context.Context, phone, body string, cfg *domain.ProviderConfig) SendResult {
	m.calls.Add(1)

	if m.SimulatedDelay > 0 {
		select {
		case <-time.After(m.SimulatedDelay):
		case <-ctx.Done():
			return failure(m.kind, CodeProviderError, ctx.Err().Error())
		}
	}

	if m.FailSend {
		m.logger.WarnContext(ctx, "Mock adapter simulated send failure", "recipient", phone)
		return failure(m.kind, CodeProviderError, "mock provider simulated send failure")
	}

	messageID := "mock-" + uuid.NewString()
	m.logger.InfoContext(ctx, "Mock adapter send succeeded", "recipient", phone, "message_id", messageID)
	return SendResult{
		Success:   true,
		MessageID: messageID,
		Provider:  m.kind,
		Cost:      0.01,
	}
}
