package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

const defaultTwilioBaseURL = "https://api.twilio.com"

// TwilioAdapter sends SMS through the Twilio Messages API. cfg.APIKey carries
// the account SID, cfg.APISecret the auth token.
type TwilioAdapter struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
}

// NewTwilioAdapter creates the adapter. baseURL and httpClient may be
// empty/nil to use production defaults.
func NewTwilioAdapter(logger *slog.Logger, baseURL string, httpClient *http.Client) *TwilioAdapter {
	if baseURL == "" {
		baseURL = defaultTwilioBaseURL
	}
	return &TwilioAdapter{
		logger:     logger.With("provider", "twilio"),
		httpClient: defaultHTTPClient(httpClient),
		baseURL:    baseURL,
	}
}

func (a *TwilioAdapter) Type() domain.ProviderType { return domain.ProviderTwilio }

type twilioResponse struct {
	Sid     string  `json:"sid"`
	Price   *string `json:"price"`
	Message string  `json:"message"`
	Code    int     `json:"code"`
}

func (a *TwilioAdapter) Send(ctx context.Context, phone, body string, cfg *domain.ProviderConfig) SendResult {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", a.baseURL, cfg.APIKey)

	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", cfg.SenderID)
	form.Set("Body", body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("failed to create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(cfg.APIKey, cfg.APISecret)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		a.logger.ErrorContext(ctx, "Twilio request failed", "error", err, "recipient", phone)
		return failure(a.Type(), CodeProviderError, err.Error())
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("failed to read response body: %v", err))
	}

	var parsed twilioResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		a.logger.WarnContext(ctx, "Failed to parse Twilio response", "error", err, "status_code", httpResp.StatusCode)
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("unparseable response (status %d)", httpResp.StatusCode))
	}

	// Success is indicated by the presence of a message SID.
	if parsed.Sid == "" {
		msg := parsed.Message
		if msg == "" {
			msg = fmt.Sprintf("send rejected (status %d)", httpResp.StatusCode)
		}
		a.logger.WarnContext(ctx, "Twilio send rejected", "message", msg, "vendor_code", parsed.Code, "recipient", phone)
		return failure(a.Type(), CodeProviderError, msg)
	}

	a.logger.InfoContext(ctx, "SMS submitted via Twilio", "message_id", parsed.Sid, "recipient", phone)
	return SendResult{
		Success:   true,
		MessageID: parsed.Sid,
		Provider:  a.Type(),
		Cost:      parseTwilioPrice(parsed.Price),
	}
}

// parseTwilioPrice converts the vendor-reported price to a positive cost.
// Twilio reports prices as negative decimal strings and may omit the field
// until the message is finalized.
func parseTwilioPrice(price *string) float64 {
	if price == nil {
		return 0
	}
	v, err := strconv.ParseFloat(*price, 64)
	if err != nil {
		return 0
	}
	return math.Abs(v)
}
