package memory

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence engine for conversations, messages and user
// profiles. Every method is one atomic unit of work; there are no
// transactions spanning public calls and no in-process locking. Concurrent
// callers rely on the backing database to serialize writers.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Initialize creates the three tables if they are absent. Safe to call
// repeatedly and from multiple process instances.
func (s *Store) Initialize(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Conversation{}, &Message{}, &UserProfile{})
}

// SaveConversation inserts or replaces a conversation row. Replacing resets
// start_time and clears end_time, matching insert-or-replace semantics so
// creation retries with the same id stay idempotent.
func (s *Store) SaveConversation(ctx context.Context, conversationID, userID string, metadata map[string]any) error {
	conv := Conversation{
		ConversationID: conversationID,
		UserID:         userID,
		StartTime:      time.Now().UTC(),
		Metadata:       JSONMap(metadata),
	}
	if conv.Metadata == nil {
		conv.Metadata = JSONMap{}
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "conversation_id"}},
			UpdateAll: true,
		}).
		Create(&conv).Error
}

// SaveMessage appends one message. The engine assigns both the surrogate id
// and the timestamp; callers never supply either.
func (s *Store) SaveMessage(ctx context.Context, conversationID, role, content string, metadata map[string]any) error {
	msg := Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Timestamp:      time.Now().UTC(),
		Metadata:       JSONMap(metadata),
	}
	if msg.Metadata == nil {
		msg.Metadata = JSONMap{}
	}
	return s.db.WithContext(ctx).Create(&msg).Error
}

// GetConversationHistory returns up to limit messages oldest-first. The limit
// truncates from the newest end: the oldest limit messages are returned, which
// preserves the conversation's opening context.
func (s *Store) GetConversationHistory(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	var msgs []Message
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// GetUserConversations returns up to limit conversations for the user, most
// recently started first.
func (s *Store) GetUserConversations(ctx context.Context, userID string, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = 10
	}
	var convs []Conversation
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Limit(limit).
		Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

// SaveUserProfile upserts the profile with full-overwrite semantics: every
// scalar column is written from the supplied data, so omitted fields are
// nulled out. created_at is set only on first insert; updated_at always
// refreshes.
func (s *Store) SaveUserProfile(ctx context.Context, userID string, profile ProfileData) error {
	prefs := JSONMap(profile.Preferences)
	if prefs == nil {
		prefs = JSONMap{}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var existing UserProfile
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row := UserProfile{
				UserID:      userID,
				Name:        profile.Name,
				PhoneNumber: profile.PhoneNumber,
				Email:       profile.Email,
				Preferences: prefs,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&UserProfile{}).
			Where("user_id = ?", userID).
			Updates(map[string]any{
				"name":         profile.Name,
				"phone_number": profile.PhoneNumber,
				"email":        profile.Email,
				"preferences":  prefs,
				"updated_at":   now,
			}).Error
	})
}

// GetUserProfile returns the profile, or (nil, nil) when the user has none.
// Absence is a result, not an error.
func (s *Store) GetUserProfile(ctx context.Context, userID string) (*UserProfile, error) {
	var p UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// VerifyTables reports, per table, whether it currently exists.
func (s *Store) VerifyTables(ctx context.Context) (map[string]bool, error) {
	migrator := s.db.WithContext(ctx).Migrator()
	tables := map[string]bool{}
	for _, name := range []string{"conversations", "messages", "user_profiles"} {
		tables[name] = migrator.HasTable(name)
	}
	return tables, nil
}

// Close releases the underlying connection pool. For an ephemeral in-memory
// database this destroys the data, since its contents live only as long as
// the held connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
