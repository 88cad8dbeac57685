// Package messaging carries messages between matched users and gates the
// receiver's access to their content behind a one-time coin unlock.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	"github.com/oggyb/findtheone/internal/events"
	"github.com/oggyb/findtheone/internal/repository"
	"github.com/oggyb/findtheone/internal/service/ledger"
)

const (
	// UnlockPrice is the coin cost of unlocking one received message.
	UnlockPrice int64 = 1

	MaxContentLength = 2000
)

// Spender debits coins inside a caller-owned transaction.
type Spender interface {
	SpendTx(ctx context.Context, tx *gorm.DB, userID uint64, amount int64, description string) (bool, error)
	Balance(ctx context.Context, userID uint64) (int64, error)
}

var _ Spender = (*ledger.Ledger)(nil)

// MatchChecker answers whether two users are currently matched.
type MatchChecker interface {
	HasActiveMatch(ctx context.Context, a, b uint64) (bool, error)
}

// MessageView is a message as a specific reader may see it.
// Content is empty when Locked is true.
type MessageView struct {
	ID         uint64
	SenderID   uint64
	ReceiverID uint64
	Content    string
	SentAt     time.Time
	IsRead     bool
	Locked     bool
	Mine       bool
}

// UnlockResult describes a successful unlock.
type UnlockResult struct {
	AlreadyUnlocked bool
	Charged         int64
	Balance         int64
}

// InsufficientFundsError carries what the reader lacked.
type InsufficientFundsError struct {
	Needed  int64
	Current int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient coins: need %d, have %d", e.Needed, e.Current)
}

func (e *InsufficientFundsError) Unwrap() error { return svcErr.ErrInsufficientFunds }

type Gate struct {
	db       *gorm.DB
	messages *repository.MessageRepository
	spender  Spender
	matches  MatchChecker
	events   events.Publisher
	logger   *slog.Logger
}

func New(database *gorm.DB, spender Spender, matches MatchChecker, publisher events.Publisher, logger *slog.Logger) *Gate {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Gate{
		db:       database,
		messages: repository.NewMessageRepository(database),
		spender:  spender,
		matches:  matches,
		events:   publisher,
		logger:   logger.With("service", "messaging"),
	}
}

// view applies the read rules: senders always read their own messages,
// receivers only once the message is unlocked.
func view(m db.Message, readerID uint64) MessageView {
	v := MessageView{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		SentAt:     m.SentAt,
		IsRead:     m.IsRead,
		Mine:       m.SenderID == readerID,
	}
	if v.Mine || m.IsUnlocked() {
		v.Content = m.Content
	} else {
		v.Locked = true
	}
	return v
}

// Send stores a LOCKED message from sender to receiver. The two must have an
// ACTIVE match.
func (g *Gate) Send(ctx context.Context, senderID, receiverID uint64, content string) (MessageView, error) {
	content = strings.TrimSpace(content)
	switch {
	case senderID == receiverID:
		return MessageView{}, fmt.Errorf("%w: cannot message yourself", svcErr.ErrInvalidArgument)
	case content == "":
		return MessageView{}, fmt.Errorf("%w: message content is required", svcErr.ErrInvalidArgument)
	case utf8.RuneCountInString(content) > MaxContentLength:
		return MessageView{}, fmt.Errorf("%w: message exceeds %d characters", svcErr.ErrInvalidArgument, MaxContentLength)
	}

	matched, err := g.matches.HasActiveMatch(ctx, senderID, receiverID)
	if err != nil {
		return MessageView{}, err
	}
	if !matched {
		return MessageView{}, fmt.Errorf("%w: users %d and %d are not matched", svcErr.ErrForbidden, senderID, receiverID)
	}

	m, err := g.messages.Create(ctx, senderID, receiverID, content)
	if err != nil {
		return MessageView{}, err
	}

	g.logger.Debug("message sent", "message_id", m.ID, "sender", senderID, "receiver", receiverID)
	g.events.Publish(ctx, events.Event{
		Type:       events.MessageSent,
		Recipients: []uint64{receiverID},
		Data:       map[string]any{"message_id": m.ID, "sender_id": senderID},
	})
	return view(*m, senderID), nil
}

// Unlock opens a received message for its receiver, charging UnlockPrice once.
//
// Behavior:
//   - Only the receiver may unlock; the sender or a third party gets ErrForbidden.
//   - An already unlocked message is marked read and nothing is charged.
//   - The LOCKED → UNLOCKED flip and the debit commit together. If the debit
//     fails the flip is rolled back and the message stays LOCKED and unread.
//   - Of concurrent unlocks of one message exactly one flips it and pays.
func (g *Gate) Unlock(ctx context.Context, messageID, readerID uint64) (UnlockResult, error) {
	var res UnlockResult
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		messages := g.messages.WithTx(tx)

		m, err := messages.Get(ctx, messageID)
		if err != nil {
			return err
		}
		if m.SenderID == readerID {
			return fmt.Errorf("%w: cannot unlock your own sent messages", svcErr.ErrForbidden)
		}
		if m.ReceiverID != readerID {
			return fmt.Errorf("%w: message %d is not addressed to you", svcErr.ErrForbidden, messageID)
		}

		if m.IsUnlocked() {
			res.AlreadyUnlocked = true
			return messages.MarkRead(ctx, messageID)
		}

		flipped, err := messages.Unlock(ctx, messageID)
		if err != nil {
			return err
		}
		if !flipped {
			// another request unlocked it first
			res.AlreadyUnlocked = true
			return nil
		}

		paid, err := g.spender.SpendTx(ctx, tx, readerID, UnlockPrice, fmt.Sprintf("Unlocked message #%d", messageID))
		if err != nil {
			return err
		}
		if !paid {
			return &InsufficientFundsError{Needed: UnlockPrice}
		}
		res.Charged = UnlockPrice
		return nil
	})

	if err != nil {
		var short *InsufficientFundsError
		if errors.As(err, &short) {
			short.Current, _ = g.spender.Balance(ctx, readerID)
		}
		return UnlockResult{}, err
	}

	if res.Balance, err = g.spender.Balance(ctx, readerID); err != nil {
		return UnlockResult{}, err
	}
	if res.Charged > 0 {
		g.logger.Info("message unlocked", "message_id", messageID, "reader", readerID, "balance", res.Balance)
		g.events.Publish(ctx, events.Event{
			Type:       events.MessageUnlocked,
			Recipients: []uint64{readerID},
			Data:       map[string]any{"message_id": messageID},
		})
	}
	return res, nil
}

// Read returns the message for readerID, marking it read for an unlocked receiver.
// A locked received message yields ErrLocked.
func (g *Gate) Read(ctx context.Context, messageID, readerID uint64) (MessageView, error) {
	m, err := g.messages.Get(ctx, messageID)
	if err != nil {
		return MessageView{}, err
	}
	if m.SenderID != readerID && m.ReceiverID != readerID {
		return MessageView{}, fmt.Errorf("%w: message %d is not yours", svcErr.ErrForbidden, messageID)
	}

	v := view(*m, readerID)
	if v.Locked {
		return MessageView{}, fmt.Errorf("%w: unlock message %d to read it", svcErr.ErrLocked, messageID)
	}
	if !v.Mine && !m.IsRead {
		if err := g.messages.MarkRead(ctx, messageID); err != nil {
			return MessageView{}, err
		}
		v.IsRead = true
	}
	return v, nil
}

// CanRead reports whether readerID may see the message content right now.
func (g *Gate) CanRead(ctx context.Context, messageID, readerID uint64) (bool, error) {
	m, err := g.messages.Get(ctx, messageID)
	if err != nil {
		return false, err
	}
	if m.SenderID == readerID {
		return true, nil
	}
	return m.ReceiverID == readerID && m.IsUnlocked(), nil
}

// MarkRead marks a received message read without unlocking it.
func (g *Gate) MarkRead(ctx context.Context, messageID, readerID uint64) error {
	m, err := g.messages.Get(ctx, messageID)
	if err != nil {
		return err
	}
	if m.ReceiverID != readerID {
		return fmt.Errorf("%w: only the receiver can mark a message read", svcErr.ErrForbidden)
	}
	return g.messages.MarkRead(ctx, messageID)
}

// MarkConversationRead marks every unlocked message from otherUserID to
// readerID as read. Locked messages stay locked and unread.
func (g *Gate) MarkConversationRead(ctx context.Context, readerID, otherUserID uint64) (int64, error) {
	if readerID == otherUserID {
		return 0, fmt.Errorf("%w: no conversation with yourself", svcErr.ErrInvalidArgument)
	}
	return g.messages.MarkConversationRead(ctx, readerID, otherUserID)
}

// Conversation returns the messages between readerID and otherUserID, oldest
// first, with locked content withheld.
func (g *Gate) Conversation(ctx context.Context, readerID, otherUserID uint64) ([]MessageView, error) {
	if readerID == otherUserID {
		return nil, fmt.Errorf("%w: no conversation with yourself", svcErr.ErrInvalidArgument)
	}
	msgs, err := g.messages.Conversation(ctx, readerID, otherUserID)
	if err != nil {
		return nil, err
	}
	return views(msgs, readerID), nil
}

// Unread lists received unread messages, newest first, with locked content withheld.
func (g *Gate) Unread(ctx context.Context, userID uint64) ([]MessageView, error) {
	msgs, err := g.messages.Unread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return views(msgs, userID), nil
}

// UnreadCount counts received unread messages.
func (g *Gate) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return g.messages.CountUnread(ctx, userID)
}

func views(msgs []db.Message, readerID uint64) []MessageView {
	out := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, view(m, readerID))
	}
	return out
}
