package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

const defaultTermiiURL = "https://api.ng.termii.com/api/sms/send"

// termiiCost is the flat per-message cost recorded for this vendor.
const termiiCost = 0.015

// TermiiAdapter sends SMS through the Termii messaging API.
type TermiiAdapter struct {
	logger     *slog.Logger
	httpClient *http.Client
	apiURL     string
}

// NewTermiiAdapter creates the adapter. apiURL and httpClient may be
// empty/nil to use production defaults.
func NewTermiiAdapter(logger *slog.Logger, apiURL string, httpClient *http.Client) *TermiiAdapter {
	if apiURL == "" {
		apiURL = defaultTermiiURL
	}
	return &TermiiAdapter{
		logger:     logger.With("provider", "termii"),
		httpClient: defaultHTTPClient(httpClient),
		apiURL:     apiURL,
	}
}

func (a *TermiiAdapter) Type() domain.ProviderType { return domain.ProviderTermii }

type termiiSendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	SMS     string `json:"sms"`
	Type    string `json:"type"`
	Channel string `json:"channel"`
	APIKey  string `json:"api_key"`
}

type termiiResponse struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
	Code      string `json:"code"`
}

func (a *TermiiAdapter) Send(ctx context.Context, phone, body string, cfg *domain.ProviderConfig) SendResult {
	reqBody := termiiSendRequest{
		To:      phone,
		From:    cfg.SenderID,
		SMS:     body,
		Type:    "plain",
		Channel: "generic",
		APIKey:  cfg.APIKey,
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
		a.logger.ErrorContext(ctx, "Termii request failed", "error", err, "recipient", phone)
		return failure(a.Type(), CodeProviderError, err.Error())
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("failed to read response body: %v", err))
	}

	var parsed termiiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		a.logger.WarnContext(ctx, "Failed to parse Termii response", "error", err, "status_code", httpResp.StatusCode)
		return failure(a.Type(), CodeProviderError, fmt.Sprintf("unparseable response (status %d)", httpResp.StatusCode))
	}

	if parsed.Code != "ok" {
		msg := parsed.Message
		if msg == "" {
			msg = fmt.Sprintf("send rejected (status %d)", httpResp.StatusCode)
		}
		a.logger.WarnContext(ctx, "Termii send rejected", "message", msg, "vendor_code", parsed.Code, "recipient", phone)
		return failure(a.Type(), CodeProviderError, msg)
	}

	a.logger.InfoContext(ctx, "SMS submitted via Termii", "message_id", parsed.MessageID, "recipient", phone)
	return SendResult{
		Success:   true,
		MessageID: parsed.MessageID,
		Provider:  a.Type(),
		Cost:      termiiCost,
	}
}
