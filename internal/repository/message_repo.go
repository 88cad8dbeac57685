package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
)

// MessageRepository stores messages and their LOCKED/UNLOCKED latch.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

func (r *MessageRepository) WithTx(tx *gorm.DB) *MessageRepository {
	return &MessageRepository{db: tx}
}

// Create stores a new LOCKED, unread message.
func (r *MessageRepository) Create(ctx context.Context, senderID, receiverID uint64, content string) (*db.Message, error) {
	m := db.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Access:     db.MessageLocked,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Get loads a message or returns svcErr.ErrNotFound.
func (r *MessageRepository) Get(ctx context.Context, id uint64) (*db.Message, error) {
	var m db.Message
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: message %d", svcErr.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Unlock flips LOCKED → UNLOCKED and marks the message read in one
// conditional update. false means the message was not LOCKED anymore.
func (r *MessageRepository) Unlock(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("id = ? AND access = ?", id, db.MessageLocked).
		Updates(map[string]any{
			"access":      db.MessageUnlocked,
			"is_read":     true,
			"unlocked_at": time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}

// MarkRead sets is_read on a single message.
func (r *MessageRepository) MarkRead(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true).Error
}

// MarkConversationRead marks read every UNLOCKED message from sender to reader.
// Locked messages are left untouched.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, readerID, senderID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND access = ? AND is_read = ?",
			readerID, senderID, db.MessageUnlocked, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// Conversation returns every message between a and b, oldest first.
func (r *MessageRepository) Conversation(ctx context.Context, a, b uint64) ([]db.Message, error) {
	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("sent_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// Unread returns received, unread messages, newest first.
func (r *MessageRepository) Unread(ctx context.Context, receiverID uint64) ([]db.Message, error) {
	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Order("sent_at DESC, id DESC").
		Find(&msgs).Error
	return msgs, err
}

// CountUnread counts received, unread messages.
func (r *MessageRepository) CountUnread(ctx context.Context, receiverID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}
