package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reachtide/sms-dispatch/internal/campaign/domain"
)

func TestNexmoAdapter_Send_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req nexmoSendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-api-key", req.APIKey)
		assert.Equal(t, "test-api-secret", req.APISecret)
		assert.Equal(t, "+2348123456789", req.To)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message-count": "1",
			"messages": []map[string]any{
				{"message-id": "0A0000000123ABCD1", "status": "0", "message-price": "0.03330000"},
			},
		})
	}))
	defer server.Close()

	adapter := NewNexmoAdapter(testLogger(), server.URL, server.Client())
	result := adapter.Send(context.Background(), "+2348123456789", "hello", testConfig(domain.ProviderNexmo))

	assert.True(t, result.Success)
	assert.Equal(t, "0A0000000123ABCD1", result.MessageID)
	assert.Equal(t, domain.ProviderNexmo, result.Provider)
	assert.InDelta(t, 0.0333, result.Cost, 1e-9)
}

func TestNexmoAdapter_Send_VendorRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message-count": "1",
			"messages": []map[string]any{
				{"status": "2", "error-text": "Missing to param"},
			},
		})
	}))
	defer server.Close()

	adapter := NewNexmoAdapter(testLogger(), server.URL, server.Client())
	result := adapter.Send(context.Background(), "+2348123456789", "hello", testConfig(domain.ProviderNexmo))

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, "Missing to param", result.Error.Message)
}

func TestNexmoAdapter_Send_EmptyMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"messages": []map[string]any{}})
	}))
	defer server.Close()

	adapter := NewNexmoAdapter(testLogger(), server.URL, server.Client())
	result := adapter.Send(context.Background(), "+2348123456789", "hello", testConfig(domain.ProviderNexmo))

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, CodeProviderError, result.Error.Code)
}

func TestNexmoAdapter_Send_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	adapter := NewNexmoAdapter(testLogger(), server.URL, nil)
	result := adapter.Send(context.Background(), "+2348123456789", "hello", testConfig(domain.ProviderNexmo))

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, CodeProviderError, result.Error.Code)
}
