package notifier

import (
	"database/sql"
	"time"

	"github.com/moniflow/backend/internal/crypto"
	"github.com/moniflow/backend/internal/store"
)

// Channel is a configured notification endpoint (telegram, discord, or
// email), adapted from the teacher's NotificationChannel model. Config
// is opaque JSON interpreted per Type by the Manager.
type Channel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"` // "telegram" | "discord" | "email"
	Config    string    `json:"config"`
	IsEnabled bool      `json:"isEnabled"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChannelRepository persists channel configuration in the shared
// SQLite store.
type ChannelRepository struct{}

// NewChannelRepository builds a channel repository.
func NewChannelRepository() *ChannelRepository {
	return &ChannelRepository{}
}

// Create inserts a new channel. Config is encrypted at rest when
// crypto.Init was given a key; otherwise it is stored as given.
func (r *ChannelRepository) Create(ch *Channel) error {
	encryptedConfig, err := crypto.Encrypt(ch.Config)
	if err != nil {
		return err
	}
	_, err = store.DB.Exec(`
		INSERT INTO notification_channels (id, name, type, config, is_enabled)
		VALUES (?, ?, ?, ?, ?)
	`, ch.ID, ch.Name, ch.Type, encryptedConfig, ch.IsEnabled)
	return err
}

// GetByID fetches a single channel, decrypting its config.
func (r *ChannelRepository) GetByID(id string) (*Channel, error) {
	var ch Channel
	var enabled int
	err := store.DB.QueryRow(`
		SELECT id, name, type, config, is_enabled, created_at
		FROM notification_channels WHERE id = ?
	`, id).Scan(&ch.ID, &ch.Name, &ch.Type, &ch.Config, &enabled, &ch.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ch.IsEnabled = enabled != 0
	if ch.Config, err = crypto.Decrypt(ch.Config); err != nil {
		return nil, err
	}
	return &ch, nil
}

// Update overwrites an existing channel's name/type/config.
func (r *ChannelRepository) Update(ch *Channel) error {
	encryptedConfig, err := crypto.Encrypt(ch.Config)
	if err != nil {
		return err
	}
	_, err = store.DB.Exec(`
		UPDATE notification_channels SET name = ?, type = ?, config = ? WHERE id = ?
	`, ch.Name, ch.Type, encryptedConfig, ch.ID)
	return err
}

// SetEnabled flips a channel's enabled flag.
func (r *ChannelRepository) SetEnabled(id string, enabled bool) error {
	_, err := store.DB.Exec(`UPDATE notification_channels SET is_enabled = ? WHERE id = ?`, enabled, id)
	return err
}

// Delete removes a channel.
func (r *ChannelRepository) Delete(id string) error {
	_, err := store.DB.Exec(`DELETE FROM notification_channels WHERE id = ?`, id)
	return err
}

// GetEnabled returns every enabled channel, configs decrypted, for
// broadcast dispatch.
func (r *ChannelRepository) GetEnabled() ([]Channel, error) {
	return r.list("WHERE is_enabled = 1")
}

// GetAll returns every channel regardless of enabled state, for the
// admin listing surface.
func (r *ChannelRepository) GetAll() ([]Channel, error) {
	return r.list("")
}

func (r *ChannelRepository) list(where string) ([]Channel, error) {
	rows, err := store.DB.Query(`
		SELECT id, name, type, config, is_enabled, created_at
		FROM notification_channels ` + where)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var ch Channel
		var enabled int
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Type, &ch.Config, &enabled, &ch.CreatedAt); err != nil {
			return nil, err
		}
		ch.IsEnabled = enabled != 0
		if ch.Config, err = crypto.Decrypt(ch.Config); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}
