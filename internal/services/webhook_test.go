package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"vivassit/internal/config"
	"vivassit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func webhookConfig(url string) *config.Config {
	cfg := testConfig()
	cfg.WebhookURL = url
	return cfg
}

func samplePayload() models.WebhookPayload {
	return models.WebhookPayload{
		Source:          "vivassit-onboarding",
		WorkflowVersion: "4.0",
		Data: models.OnboardingData{
			ClinicName: "Clínica São Lucas",
			TenantID:   "clinica-sao-lucas-1a2b3c4d",
			Status:     models.StatusPendingApproval,
		},
	}
}

func TestShouldSkipPlaceholderAndEmpty(t *testing.T) {
	log := zap.NewNop()

	w := NewWebhookClient(webhookConfig("https://your-n8n-instance.com/webhook/onboarding"), log)
	assert.True(t, w.ShouldSkip())

	w = NewWebhookClient(webhookConfig(""), log)
	assert.True(t, w.ShouldSkip())

	w = NewWebhookClient(webhookConfig("https://n8n.example.com/webhook/onboarding"), log)
	assert.False(t, w.ShouldSkip())
}

func TestDeliverSkippedIsNotAnError(t *testing.T) {
	w := NewWebhookClient(webhookConfig("https://your-n8n-instance.com/webhook/onboarding"), zap.NewNop())

	err := w.Deliver(context.Background(), samplePayload())
	assert.NoError(t, err)
}

func TestDeliverPostsPayloadWithHeaders(t *testing.T) {
	var calls atomic.Int32
	var received models.WebhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "vivassit-onboarding", r.Header.Get("X-Source"))
		assert.Equal(t, "4.0", r.Header.Get("X-Workflow-Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		rw.Header().Set("Content-Type", "application/json")
		rw.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	w := NewWebhookClient(webhookConfig(srv.URL), zap.NewNop())

	err := w.Deliver(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "clinica-sao-lucas-1a2b3c4d", received.Data.TenantID)
	assert.Equal(t, "Clínica São Lucas", received.Data.ClinicName)
}

func TestDeliverNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		http.Error(rw, "workflow offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	w := NewWebhookClient(webhookConfig(srv.URL), zap.NewNop())

	err := w.Deliver(context.Background(), samplePayload())
	assert.ErrorContains(t, err, "503")
}

func TestDeliverUnreachableReceiver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the port refuses connections

	w := NewWebhookClient(webhookConfig(srv.URL), zap.NewNop())

	err := w.Deliver(context.Background(), samplePayload())
	assert.Error(t, err)
}

func TestDeliverToleratesNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Write([]byte("OK, thanks"))
	}))
	defer srv.Close()

	w := NewWebhookClient(webhookConfig(srv.URL), zap.NewNop())

	err := w.Deliver(context.Background(), samplePayload())
	assert.NoError(t, err)
}
