package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// SlackNotifier sends alerts to Slack via webhook
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendAlert posts one edge alert to the webhook.
func (s *SlackNotifier) SendAlert(ctx context.Context, alert models.EdgeAlert) error {
	startTime := time.Now()

	payload := map[string]interface{}{
		"text": s.formatMessage(alert),
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Slack alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	latency := time.Since(startTime).Milliseconds()
	fmt.Printf("✓ Slack alert sent: alert_id=%s latency=%dms\n", alert.ID, latency)

	return nil
}

// formatMessage formats an edge alert as a Slack message
func (s *SlackNotifier) formatMessage(alert models.EdgeAlert) string {
	var sb strings.Builder

	emoji := s.getEmojiForType(alert.Type)
	sb.WriteString(fmt.Sprintf("%s %s *%s*\n\n",
		emoji, s.severityBadge(alert.Severity), alert.Title))

	sb.WriteString(fmt.Sprintf("*Sport:* %s\n", strings.ToUpper(alert.Sport)))
	sb.WriteString(fmt.Sprintf("*Severity:* %s | *Confidence:* %d/100\n", alert.Severity, alert.Confidence))
	if alert.ExpectedValue != 0 {
		sb.WriteString(fmt.Sprintf("*Edge:* %.2f%%\n", alert.ExpectedValue))
	}

	sb.WriteString(fmt.Sprintf("\n%s\n", alert.Description))

	if alert.ExpiresAt != nil {
		sb.WriteString(fmt.Sprintf("\n*Expires:* %s\n", alert.ExpiresAt.Format("15:04:05")))
	}

	sb.WriteString(fmt.Sprintf("\n_Detected: %s | %s_",
		alert.CreatedAt.Format("15:04:05"), alert.ID))

	return sb.String()
}

// getEmojiForType returns an emoji for the alert type
func (s *SlackNotifier) getEmojiForType(alertType models.AlertType) string {
	switch alertType {
	case models.AlertTypeRLM:
		return "🔄"
	case models.AlertTypeSteam:
		return "⚡"
	case models.AlertTypeSharpPublic:
		return "🎯"
	case models.AlertTypeArbitrage:
		return "💰"
	case models.AlertTypeCLV:
		return "📈"
	default:
		return "📊"
	}
}

func (s *SlackNotifier) severityBadge(severity models.Severity) string {
	switch severity {
	case models.SeverityCritical:
		return "🔴"
	case models.SeverityMajor:
		return "🟠"
	case models.SeverityMinor:
		return "🟡"
	default:
		return "🟢"
	}
}

// SendStartupNotification sends a startup notification to Slack
func (s *SlackNotifier) SendStartupNotification(ctx context.Context) error {
	if s.webhookURL == "" {
		return fmt.Errorf("no webhook URL configured")
	}

	message := "🚀 *Line Intelligence Alert Relay Active*\n\n" +
		"Monitoring edge alerts: RLM, steam, sharp-vs-public, arbitrage, CLV."

	payload := map[string]interface{}{
		"text": message,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send startup notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
