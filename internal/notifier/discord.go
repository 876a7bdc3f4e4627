package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// DiscordProvider sends alerts to Discord via webhook, adapted from
// the teacher's DiscordProvider.
type DiscordProvider struct {
	WebhookURL string
}

// NewDiscordProvider builds a Discord provider.
func NewDiscordProvider(webhookURL string) *DiscordProvider {
	return &DiscordProvider{WebhookURL: webhookURL}
}

// Send posts notification as an embed to the configured webhook.
func (p *DiscordProvider) Send(n Notification) error {
	color := 15158332 // red
	title := fmt.Sprintf("🔴 Alert Triggered — %s", n.MetricName)
	if n.Status == "recovered" {
		color = 3066993 // green
		title = fmt.Sprintf("✅ Alert Recovered — %s", n.MetricName)
	}

	fields := []map[string]interface{}{
		{"name": "Field", "value": n.FieldName, "inline": true},
		{"name": "Comparison", "value": fmt.Sprintf("%s %.2f", n.Comparison, n.Threshold), "inline": true},
	}
	for k, v := range n.Tags {
		fields = append(fields, map[string]interface{}{"name": k, "value": v, "inline": true})
	}

	embed := map[string]interface{}{
		"username": "MoniFlow",
		"embeds": []map[string]interface{}{
			{
				"title":       title,
				"description": n.Message,
				"color":       color,
				"timestamp":   n.Time.Format("2006-01-02T15:04:05Z07:00"),
				"fields":      fields,
			},
		},
	}

	payload, err := json.Marshal(embed)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	resp, err := http.Post(p.WebhookURL, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}
	return nil
}
