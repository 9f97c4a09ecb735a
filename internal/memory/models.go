package memory

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONMap stores an arbitrary key/value mapping as JSON text. A nil map
// serializes as "{}" so reads always see a usable, non-nil mapping.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
	if len(b) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(b, m)
}

// Conversation is one continuous interaction session. Re-saving an existing
// conversation_id replaces the row (idempotent creation retries).
type Conversation struct {
	ConversationID string     `gorm:"column:conversation_id;primaryKey" json:"conversation_id"`
	UserID         string     `gorm:"column:user_id;index;not null" json:"user_id"`
	StartTime      time.Time  `gorm:"column:start_time;not null" json:"start_time"`
	EndTime        *time.Time `gorm:"column:end_time" json:"end_time"`
	Metadata       JSONMap    `gorm:"column:metadata;type:text" json:"metadata"`
}

func (Conversation) TableName() string { return "conversations" }

// Message is one role-tagged utterance, append-only once stored. The
// autoincrement id is the sort key; the timestamp is descriptive only, since
// wall-clock time may coincide at sub-resolution for close appends.
type Message struct {
	ID             uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ConversationID string    `gorm:"column:conversation_id;index;not null" json:"conversation_id"`
	Role           string    `gorm:"column:role;not null" json:"role"`
	Content        string    `gorm:"column:content;type:text;not null" json:"content"`
	Timestamp      time.Time `gorm:"column:timestamp;not null" json:"timestamp"`
	Metadata       JSONMap   `gorm:"column:metadata;type:text" json:"metadata"`
}

func (Message) TableName() string { return "messages" }

// UserProfile is the durable per-user record, independent of any single
// conversation. Saves are full-row overwrites, not patches.
type UserProfile struct {
	UserID      string    `gorm:"column:user_id;primaryKey" json:"user_id"`
	Name        *string   `gorm:"column:name" json:"name"`
	PhoneNumber *string   `gorm:"column:phone_number" json:"phone_number"`
	Email       *string   `gorm:"column:email" json:"email"`
	Preferences JSONMap   `gorm:"column:preferences;type:text" json:"preferences"`
	CreatedAt   time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profiles" }

// ProfileData carries the complete desired field set for a profile save.
// Omitted fields are written as NULL (an omitted Preferences becomes {}).
type ProfileData struct {
	Name        *string        `json:"name"`
	PhoneNumber *string        `json:"phone_number"`
	Email       *string        `json:"email"`
	Preferences map[string]any `json:"preferences"`
}
