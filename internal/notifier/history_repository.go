package notifier

import (
	"time"

	"github.com/moniflow/backend/internal/store"
)

// HistoryEntry is a persisted record of one attempted delivery,
// adapted from the teacher's NotificationHistory model.
type HistoryEntry struct {
	ID           int64
	RuleID       string
	ChannelID    string
	ChannelName  string
	ChannelType  string
	Status       string // "pending" | "sent" | "failed"
	Message      string
	ErrorMessage string
	RetryCount   int
	CreatedAt    time.Time
	SentAt       *time.Time
}

// HistoryRepository persists delivery history in the shared SQLite
// store.
type HistoryRepository struct{}

// NewHistoryRepository builds a history repository.
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

// Create inserts a new pending history record and populates its ID.
func (r *HistoryRepository) Create(h *HistoryEntry) error {
	result, err := store.DB.Exec(`
		INSERT INTO notification_history (rule_id, channel_id, channel_name, channel_type, status, message, retry_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, h.RuleID, h.ChannelID, h.ChannelName, h.ChannelType, h.Status, h.Message, h.RetryCount)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = id
	return nil
}

// UpdateStatus updates a history record's terminal status.
func (r *HistoryRepository) UpdateStatus(id int64, status, errMessage string) error {
	_, err := store.DB.Exec(`
		UPDATE notification_history SET status = ?, error_message = ?, sent_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, errMessage, id)
	return err
}

// IncrementRetry bumps a history record's retry count.
func (r *HistoryRepository) IncrementRetry(id int64) error {
	_, err := store.DB.Exec(`UPDATE notification_history SET retry_count = retry_count + 1 WHERE id = ?`, id)
	return err
}

// ListByRule returns delivery history for a rule, most recent first.
func (r *HistoryRepository) ListByRule(ruleID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := store.DB.Query(`
		SELECT id, rule_id, channel_id, channel_name, channel_type, status, message,
		       COALESCE(error_message, ''), retry_count, created_at
		FROM notification_history WHERE rule_id = ? ORDER BY created_at DESC LIMIT ?
	`, ruleID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.RuleID, &h.ChannelID, &h.ChannelName, &h.ChannelType,
			&h.Status, &h.Message, &h.ErrorMessage, &h.RetryCount, &h.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
