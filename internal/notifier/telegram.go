package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// TelegramProvider sends alerts to Telegram via the Bot API, adapted
// from the teacher's TelegramProvider.
type TelegramProvider struct {
	BotToken string
	ChatID   string
}

// NewTelegramProvider builds a Telegram provider.
func NewTelegramProvider(botToken, chatID string) *TelegramProvider {
	return &TelegramProvider{BotToken: botToken, ChatID: chatID}
}

// Send posts notification as a Markdown message to the configured chat.
func (p *TelegramProvider) Send(n Notification) error {
	payload := map[string]interface{}{
		"chat_id":    p.ChatID,
		"text":       p.buildMessage(n),
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Telegram payload: %w", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", p.BotToken)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Telegram API returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *TelegramProvider) buildMessage(n Notification) string {
	emoji := "🔴"
	statusText := "Triggered"
	if n.Status == "recovered" {
		emoji = "✅"
		statusText = "Recovered"
	}

	tagParts := make([]string, 0, len(n.Tags))
	for k, v := range n.Tags {
		tagParts = append(tagParts, fmt.Sprintf("%s=%s", k, v))
	}

	return fmt.Sprintf(
		"%s *Alert %s*\n\n"+
			"Metric: %s\n"+
			"Field: %s\n"+
			"Tags: %s\n"+
			"Comparison: %s %.2f\n"+
			"Time: %s\n"+
			"Message: %s",
		emoji,
		statusText,
		n.MetricName,
		n.FieldName,
		strings.Join(tagParts, ","),
		n.Comparison,
		n.Threshold,
		n.Time.Format("2006-01-02 15:04:05"),
		n.Message,
	)
}
