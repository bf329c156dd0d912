package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vivassit/internal/config"
	"vivassit/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// placeholderHost is the shipped default receiver. While the webhook URL
// still points here, delivery is skipped so local development works
// without a live n8n instance.
const placeholderHost = "your-n8n-instance.com"

// WebhookClient delivers normalized submissions to the workflow receiver.
// One blocking call per submission, bounded timeout, no retries and no
// queueing: a failed delivery is logged and dropped.
type WebhookClient struct {
	http   *resty.Client
	url    string
	logger *zap.Logger
}

func NewWebhookClient(cfg *config.Config, logger *zap.Logger) *WebhookClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.WebhookTimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Source", cfg.SourceTag).
		SetHeader("X-Workflow-Version", cfg.WorkflowVersion)

	return &WebhookClient{
		http:   client,
		url:    cfg.WebhookURL,
		logger: logger,
	}
}

// ShouldSkip reports whether no real receiver is configured.
func (w *WebhookClient) ShouldSkip() bool {
	return w.url == "" || strings.Contains(w.url, placeholderHost)
}

// Deliver posts the payload to the configured webhook. A skipped delivery
// is not an error. The receiver's response is parsed opportunistically;
// an unparseable body is tolerated and logged.
func (w *WebhookClient) Deliver(ctx context.Context, payload models.WebhookPayload) error {
	if w.ShouldSkip() {
		w.logger.Info("Webhook delivery skipped: no receiver configured",
			zap.String("tenant_id", payload.Data.TenantID),
		)
		return nil
	}

	resp, err := w.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post(w.url)
	if err != nil {
		w.logger.Error("Webhook call failed",
			zap.Error(err),
			zap.String("tenant_id", payload.Data.TenantID),
		)
		return fmt.Errorf("failed to call webhook: %w", err)
	}

	if resp.IsError() {
		w.logger.Error("Webhook returned non-success status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("tenant_id", payload.Data.TenantID),
		)
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	var body map[string]any
	if len(resp.Body()) > 0 && json.Unmarshal(resp.Body(), &body) != nil {
		w.logger.Warn("Webhook response is not valid JSON",
			zap.Int("status_code", resp.StatusCode()),
		)
	}

	w.logger.Info("Webhook delivered",
		zap.String("tenant_id", payload.Data.TenantID),
		zap.Int("status_code", resp.StatusCode()),
	)
	return nil
}
