package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

const defaultNexmoURL = "https://rest.nexmo.com/sms/json"

// NexmoAdapter sends SMS through the Nexmo (Vonage) SMS API.
type NexmoAdapter struct {
	logger     *slog.Logger
	httpClient *http.Client
	apiURL     string
}

// NewNexmoAdapter creates the adapter. apiURL and httpClient may be
// empty/nil to use production defaults.
func NewNexmoAdapter(logger *slog.Logger, apiURL string, httpClient *http.Client) *NexmoAdapter {
	if apiURL == "" {
		apiURL = defaultNexmoURL
	}
	return &NexmoAdapter{
		logger:     logger.With("provider", "nexmo"),
		httpClient: defaultHTTPClient(httpClient),
		apiURL:     apiURL,
	}
}

func (a *NexmoAdapter) Type() domain.ProviderType { return domain.ProviderNexmo }

type nexmoSendRequest struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	To        string `json:"to"`
	From      string `json:"from"`
	Text      string `json:"text"`
}

type nexmoResponse struct {
	Messages []struct {
		MessageID    string `json:"message-id"`
		Status       string `json:"status"`
		MessagePrice string `json:"message-price"`
		ErrorText    string `json:"error-text"`
	} `json:"messages"`
}

func (a *NexmoAdapter) Send(ctx context.Context, phone, body string, cfg *domain.ProviderConfig) SendResult {
	reqBody := nexmoSendRequest{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		To:        phone,
		From:      cfg.SenderID,
		Text:      body,
	}
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("failed to marshal request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewBuffer(reqBytes))
	if err != nil {
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("failed to create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		a.logger.ErrorContext(ctx, "Nexmo request failed", "error", err, "recipient", phone)
		return failure(a.Type(), CodeProviderError, err.Error())
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("failed to read response body: %v", err))
	}

	var parsed nexmoResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		a.logger.WarnContext(ctx, "Failed to parse Nexmo response", "error", err, "status_code", httpResp.StatusCode)
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("unparseable response (status %d)", httpResp.StatusCode))
	}

	if len(parsed.Messages) == 0 {
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("empty messages array (status %d)", httpResp.StatusCode))
	}

	first := parsed.Messages[0]
	if first.Status != "0" {
		msg := first.ErrorText
		if msg == "" {
			msg = fmt.Sprintf("send rejected with status %s", first.Status)
		}
		a.logger.WarnContext(ctx, "Nexmo send rejected", "message", msg, "vendor_status", first.Status, "recipient", phone)
		return failure(a.Type(), CodeProviderError, msg)
	}

	cost, _ := strconv.ParseFloat(first.MessagePrice, 64)
	a.logger.InfoContext(ctx, "SMS submitted via Nexmo", "message_id", first.MessageID, "recipient", phone)
	return SendResult{
		Success:   true,
		MessageID: first.MessageID,
		Provider:  a.Type(),
		Cost:      cost,
	}
}
