package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

const defaultAfricasTalkingURL = "https://api.africastalking.com/version1/messaging"

// africasTalkingCost is the flat per-message cost recorded for this vendor.
const africasTalkingCost = 0.01

// AfricasTalkingAdapter sends SMS through the Africa's Talking messaging API.
type AfricasTalkingAdapter struct {
	logger     *slog.Logger
	httpClient *http.Client
	apiURL     string
}

// NewAfricasTalkingAdapter creates the adapter. apiURL and httpClient may be
// empty/nil to use production defaults.
func NewAfricasTalkingAdapter(logger *slog.Logger, apiURL string, httpClient *http.Client) *AfricasTalkingAdapter {
	if apiURL == "" {
		apiURL = defaultAfricasTalkingURL
	}
	return &AfricasTalkingAdapter{
		logger:     logger.With("provider", "africastalking"),
		httpClient: defaultHTTPClient(httpClient),
		apiURL:     apiURL,
	}
}

func (a *AfricasTalkingAdapter) Type() domain.ProviderType { return domain.ProviderAfricasTalking }

type africasTalkingResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			Number    string `json:"number"`
			Status    string `json:"status"`
			MessageID string `json:"messageId"`
			Cost      string `json:"cost"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

func (a *AfricasTalkingAdapter) Send(ctx context.Context, phone, body string, cfg *domain.ProviderConfig) SendResult {
	form := url.Values{}
	form.Set("username", cfg.Username)
	form.Set("to", phone)
	form.Set("message", body)
	if cfg.SenderID != "" {
		form.Set("from", cfg.SenderID)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("failed to create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("apiKey", cfg.APIKey)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		a.logger.ErrorContext(ctx, "Africa's Talking request failed", "error", err, "recipient", phone)
		return failure(a.Type(), CodeProviderError, err.Error())
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("failed to read response body: %v", err))
	}

	var parsed africasTalkingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		a.logger.WarnContext(ctx, "Failed to parse Africa's Talking response", "error", err, "status_code", httpResp.StatusCode)
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("unparseable response (status %d)", httpResp.StatusCode))
	}

	recipients := parsed.SMSMessageData.Recipients
	if len(recipients) == 0 || recipients[0].Status != "Success" {
		msg := parsed.SMSMessageData.Message
		if msg == "" {
			msg = fmt.Sprintf("send rejected (status %d)", httpResp.StatusCode)
		}
		a.logger.WarnContext(ctx, "Africa's Talking send rejected", "message", msg, "recipient", phone)
		return failure(a.Type(), CodeProviderError, msg)
	}

	a.logger.InfoContext(ctx, "SMS submitted via Africa's Talking", "message_id", recipients[0].MessageID, "recipient", phone)
	return SendResult{
		Success:   true,
		MessageID: recipients[0].MessageID,
		Provider:  a.Type(),
		Cost:      africasTalkingCost,
	}
}
