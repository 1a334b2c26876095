// Package adapter implements outbound integrations: the webhook client that
// delivers notifications (such as password-reset links) to an external
// channel, and a log-only fallback for deployments without one.
package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avelkov/go-access-gate/internal/config"
	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/service"
	"github.com/avelkov/go-access-gate/internal/utils"
)

// notificationRequest is the JSON body posted to the webhook endpoint.
type notificationRequest struct {
	UserID  int64             `json:"user_id"`
	Kind    string            `json:"kind"`
	Payload map[string]string `json:"payload"`
	SentAt  time.Time         `json:"sent_at"`
}

// webhookNotifier posts notifications to a configured HTTP endpoint.
type webhookNotifier struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewNotifier constructs a [service.Notifier] from the notifier config.
//
// With a webhook URL configured it returns the HTTP implementation; with an
// empty URL it returns a log-only notifier, so the reset flow works in
// deployments without an outbound channel.
func NewNotifier(cfg config.Notifier, logger *logger.Logger) (service.Notifier, error) {
	if strings.TrimSpace(cfg.WebhookURL) == "" {
		logger.Warn().Msg("no webhook url configured, notifications will only be logged")
		return &logNotifier{logger: logger}, nil
	}

	baseURL, err := normalizeWebhookURL(cfg.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid notifier webhook url: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &webhookNotifier{client: client, logger: logger}, nil
}

func normalizeWebhookURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("webhook url %q has no host", raw)
	}

	return parsed.String(), nil
}

// SendNotification posts one notification to the webhook. A non-2xx status
// is an error; the caller decides what to do with it (the reset flow logs
// and proceeds).
func (n *webhookNotifier) SendNotification(ctx context.Context, userID int64, kind string, payload map[string]string) error {
	log := logger.FromContext(ctx)

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(notificationRequest{
			UserID:  userID,
			Kind:    kind,
			Payload: payload,
			SentAt:  time.Now(),
		}).
		Post("")
	if err != nil {
		log.Err(err).Int64("user_id", userID).Str("kind", kind).Msg("notification request failed")
		return fmt.Errorf("notification request failed: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		log.Error().
			Int64("user_id", userID).
			Str("kind", kind).
			Int("status", resp.StatusCode()).
			Msg("notification rejected by webhook")
		return fmt.Errorf("notification rejected by webhook: http %d", resp.StatusCode())
	}

	return nil
}

// logNotifier records the notification event without delivering anything.
// Payload values are never logged; they may carry secrets.
type logNotifier struct {
	logger *logger.Logger
}

func (n *logNotifier) SendNotification(ctx context.Context, userID int64, kind string, payload map[string]string) error {
	logger.FromContext(ctx).Info().
		Int64("user_id", userID).
		Str("kind", kind).
		Int("payload_fields", len(payload)).
		Msg("notification dropped: no webhook configured")
	return nil
}
