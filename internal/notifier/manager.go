package notifier

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Manager dispatches a Notification to a rule's configured channels,
// recording delivery history and retrying transient failures. Adapted
// from the teacher's alerter.Manager.
type Manager struct {
	channels    *ChannelRepository
	history     *HistoryRepository
	dedup       *Deduplicator
	directEmail *EmailProvider
}

// NewManager builds a dispatch manager with the given dedup cooldown.
// directEmail, if non-nil, is used to reach a rule's raw Recipients
// list independent of any configured channel.
func NewManager(cooldown time.Duration, directEmail *EmailProvider) *Manager {
	if cooldown <= 0 {
		cooldown = 5 * time.Minute
	}
	return &Manager{
		channels:    NewChannelRepository(),
		history:     NewHistoryRepository(),
		dedup:       NewDeduplicator(cooldown),
		directEmail: directEmail,
	}
}

// Dispatch sends notification to channelIDs (falling back to every
// enabled channel if empty) and, when recipients are set, also to the
// email provider directly. Duplicate triggers for the same rule within
// the cooldown window are suppressed.
func (m *Manager) Dispatch(notification Notification, channelIDs []string) {
	fp := Fingerprint(notification.RuleID, string(notification.Status))
	if !m.dedup.ShouldAlert(fp) {
		log.Printf("[Notifier] suppressed duplicate %s alert for rule %s", notification.Status, notification.RuleID)
		return
	}

	if len(channelIDs) == 0 {
		enabled, err := m.channels.GetEnabled()
		if err != nil {
			log.Printf("[Notifier] failed to list enabled channels: %v", err)
		}
		for _, ch := range enabled {
			go m.sendToChannel(ch, notification)
		}
	} else {
		for _, id := range channelIDs {
			ch, err := m.channels.GetByID(id)
			if err != nil || ch == nil || !ch.IsEnabled {
				continue
			}
			go m.sendToChannel(*ch, notification)
		}
	}

	if m.directEmail != nil && len(notification.Recipients["email"]) > 0 {
		go func() {
			if err := m.directEmail.Send(notification); err != nil {
				log.Printf("[Notifier] direct email to recipients failed: %v", err)
			}
		}()
	}
}

func (m *Manager) sendToChannel(ch Channel, notification Notification) {
	provider, err := m.buildProvider(ch)
	if err != nil {
		log.Printf("[Notifier] %v", err)
		return
	}

	history := &HistoryEntry{
		RuleID:      notification.RuleID,
		ChannelID:   ch.ID,
		ChannelName: ch.Name,
		ChannelType: ch.Type,
		Message:     notification.Message,
		Status:      "pending",
	}
	if err := m.history.Create(history); err != nil {
		log.Printf("[Notifier] failed to create history record: %v", err)
	}

	const maxRetries = 3
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * 2 * time.Second
			time.Sleep(backoff)
			if history.ID > 0 {
				_ = m.history.IncrementRetry(history.ID)
			}
		}

		if err := provider.Send(notification); err != nil {
			lastErr = err
			log.Printf("[Notifier] send to %s (%s) failed (attempt %d/%d): %v", ch.Name, ch.Type, attempt+1, maxRetries, err)
			continue
		}

		log.Printf("[Notifier] alert sent to %s (%s) for rule %s", ch.Name, ch.Type, notification.RuleID)
		if history.ID > 0 {
			_ = m.history.UpdateStatus(history.ID, "sent", "")
		}
		return
	}

	if history.ID > 0 {
		_ = m.history.UpdateStatus(history.ID, "failed", lastErr.Error())
	}
}

func (m *Manager) buildProvider(ch Channel) (AlertProvider, error) {
	switch ch.Type {
	case "telegram":
		var cfg struct {
			BotToken string `json:"botToken"`
			ChatID   string `json:"chatId"`
		}
		if err := json.Unmarshal([]byte(ch.Config), &cfg); err != nil {
			return nil, fmt.Errorf("invalid telegram config for channel %s: %w", ch.Name, err)
		}
		return NewTelegramProvider(cfg.BotToken, cfg.ChatID), nil

	case "discord":
		var cfg struct {
			WebhookURL string `json:"webhookUrl"`
		}
		if err := json.Unmarshal([]byte(ch.Config), &cfg); err != nil {
			return nil, fmt.Errorf("invalid discord config for channel %s: %w", ch.Name, err)
		}
		return NewDiscordProvider(cfg.WebhookURL), nil

	case "email":
		var cfg struct {
			Host     string `json:"host"`
			Port     string `json:"port"`
			Username string `json:"username"`
			Password string `json:"password"`
			From     string `json:"from"`
		}
		if err := json.Unmarshal([]byte(ch.Config), &cfg); err != nil {
			return nil, fmt.Errorf("invalid email config for channel %s: %w", ch.Name, err)
		}
		return NewEmailProvider(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.From), nil

	default:
		return nil, fmt.Errorf("unknown channel type %q for channel %s", ch.Type, ch.Name)
	}
}
