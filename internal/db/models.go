package db

import (
	"time"

	"github.com/shopspring/decimal"
)

// User table.
// Coins is a cached projection of the user's COMPLETED ledger entries and is
// only ever changed by the ledger in the same transaction as the entry.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	LastLoginAt  time.Time
	Gender       string    `gorm:"size:16;not null"`
	Coins        int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Like is a directional decision from Liker to Liked.
//
// Composite PK: (LikerID, LikedID)
//   - One row per ordered pair; rows are never updated.
//
// Indexes:
//   - idx_liked_islike_created_liker(liked_id, is_like, created_at DESC, liker_id)
//     serves "who liked me" lists with pagination.
type Like struct {
	LikerID   uint64    `gorm:"primaryKey;autoIncrement:false"`
	LikedID   uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_liked_islike_created_liker,priority:1"`
	IsLike    bool      `gorm:"not null;index:idx_liked_islike_created_liker,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_liked_islike_created_liker,priority:3,sort:desc"`
}

type MatchState string

const (
	MatchActive    MatchState = "ACTIVE"
	MatchUnmatched MatchState = "UNMATCHED"
)

// Match between two users, stored on the canonical pair (low id, high id).
// idx_match_pair allows at most one row per unordered pair.
type Match struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement"`
	UserLowID   uint64     `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	UserHighID  uint64     `gorm:"not null;uniqueIndex:idx_match_pair,priority:2;index"`
	State       MatchState `gorm:"size:16;not null;default:ACTIVE"`
	MatchedAt   time.Time  `gorm:"autoCreateTime"`
	UnmatchedAt *time.Time
	UnmatchedBy *uint64
}

// Other returns the counterpart of userID in the match.
func (m Match) Other(userID uint64) uint64 {
	if m.UserLowID == userID {
		return m.UserHighID
	}
	return m.UserLowID
}

func (m Match) IsActive() bool { return m.State == MatchActive }

type MessageAccess string

const (
	MessageLocked   MessageAccess = "LOCKED"
	MessageUnlocked MessageAccess = "UNLOCKED"
)

// Message between two matched users. Access is a one-way latch LOCKED → UNLOCKED
// governing whether the receiver may read Content.
type Message struct {
	ID         uint64        `gorm:"primaryKey;autoIncrement"`
	SenderID   uint64        `gorm:"not null;index:idx_msg_pair,priority:1"`
	ReceiverID uint64        `gorm:"not null;index:idx_msg_pair,priority:2;index:idx_msg_receiver_read,priority:1"`
	Content    string        `gorm:"type:text;not null"`
	SentAt     time.Time     `gorm:"autoCreateTime;index"`
	IsRead     bool          `gorm:"not null;default:false;index:idx_msg_receiver_read,priority:2"`
	Access     MessageAccess `gorm:"size:16;not null;default:LOCKED"`
	UnlockedAt *time.Time
}

func (m Message) IsUnlocked() bool { return m.Access == MessageUnlocked }

type TransactionType string

const (
	TxPurchase TransactionType = "PURCHASE"
	TxSpend    TransactionType = "SPEND"
	TxRefund   TransactionType = "REFUND"
	TxBonus    TransactionType = "BONUS"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxCompleted TransactionStatus = "COMPLETED"
	TxFailed    TransactionStatus = "FAILED"
	TxCancelled TransactionStatus = "CANCELLED"
)

// Transaction is an append-only ledger entry. CoinAmount is signed:
// SPEND rows are negative, everything else positive.
type Transaction struct {
	ID          uint64              `gorm:"primaryKey;autoIncrement"`
	UserID      uint64              `gorm:"not null;index:idx_tx_user_created,priority:1"`
	Type        TransactionType     `gorm:"size:16;not null"`
	CoinAmount  int64               `gorm:"not null"`
	MoneyAmount decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	Description string              `gorm:"size:255"`
	PaymentID   string              `gorm:"size:64"`
	Status      TransactionStatus   `gorm:"size:16;not null;default:COMPLETED"`
	CreatedAt   time.Time           `gorm:"autoCreateTime;index:idx_tx_user_created,priority:2,sort:desc"`
}

// Models lists every table, in migration order.
func Models() []any {
	return []any{&User{}, &Like{}, &Match{}, &Message{}, &Transaction{}}
}
