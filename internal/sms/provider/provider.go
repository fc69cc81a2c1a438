// Package provider contains one adapter per SMS vendor. Each adapter performs
// a single HTTP exchange and maps the vendor's wire format into the uniform
// SendResult, so the gateway and dispatcher never see vendor-specific shapes.
package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

// Error codes carried inside SendResult.Error.
const (
	CodeInvalidPhoneNumber  = "InvalidPhoneNumber"
	CodeUnsupportedProvider = "UnsupportedProvider"
	CodeProviderError       = "ProviderError"
)

// SendError is the uniform error payload of a failed send.
type SendError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendResult is the uniform outcome shape returned by every adapter
// regardless of vendor wire format. A transport failure and a vendor-reported
// failure look identical to callers: Success false with a populated Error.
type SendResult struct {
	Success   bool                `json:"success"`
	MessageID string              `json:"message_id,omitempty"`
	Provider  domain.ProviderType `json:"provider"`
	Cost      float64             `json:"cost,omitempty"`
	Error     *SendError          `json:"error,omitempty"`
}

// Adapter sends one message through one vendor's HTTP API. Phone numbers
// reaching an adapter have already been validated; adapters do not
// re-validate. Send never returns a Go error: per-recipient failures are data
// so a batch caller can continue.
type Adapter interface {
	Send(ctx context.Context, phone, body string, cfg *domain.ProviderConfig) SendResult
	Type() domain.ProviderType
}

func failure(kind domain.ProviderType, code, message string) SendResult {
	return SendResult{
		Success:  false,
		Provider: kind,
		Error:    &SendError{Code: code, Message: message},
	}
}

func defaultHTTPClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: 30 * time.Second}
}
