package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	"github.com/oggyb/findtheone/internal/utils/pagination"
)

// LedgerRepository owns the coin counter on users and the transactions log.
// Callers must run Debit/Credit and Append in the same gorm transaction.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(database *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: database}
}

func (r *LedgerRepository) WithTx(tx *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: tx}
}

// Balance returns the cached coin balance.
func (r *LedgerRepository) Balance(ctx context.Context, userID uint64) (int64, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Select("id", "coins").
		Where("id = ?", userID).
		Limit(1).
		Find(&users).Error
	if err != nil {
		return 0, err
	}
	if len(users) == 0 {
		return 0, fmt.Errorf("%w: user %d", svcErr.ErrNotFound, userID)
	}
	return users[0].Coins, nil
}

// Debit decrements the balance only if it covers amount.
// false means the balance was too low (or the user does not exist).
func (r *LedgerRepository) Debit(ctx context.Context, userID uint64, amount int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ? AND coins >= ?", userID, amount).
		UpdateColumn("coins", gorm.Expr("coins - ?", amount))
	return res.RowsAffected > 0, res.Error
}

// Credit increments the balance.
func (r *LedgerRepository) Credit(ctx context.Context, userID uint64, amount int64) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		UpdateColumn("coins", gorm.Expr("coins + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", svcErr.ErrNotFound, userID)
	}
	return nil
}

// Append writes one ledger entry.
func (r *LedgerRepository) Append(ctx context.Context, tx *db.Transaction) error {
	if tx.Status == "" {
		tx.Status = db.TxCompleted
	}
	return r.db.WithContext(ctx).Create(tx).Error
}

// Sum returns the sum of COMPLETED entries for the user.
func (r *LedgerRepository) Sum(ctx context.Context, userID uint64) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&db.Transaction{}).
		Select("COALESCE(SUM(coin_amount), 0)").
		Where("user_id = ? AND status = ?", userID, db.TxCompleted).
		Scan(&sum).Error
	return sum, err
}

// History returns entries newest first. ids grow with insertion order, so the
// cursor is the last id seen.
func (r *LedgerRepository) History(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]db.Transaction, *string, error) {
	cursor, err := pagination.Decode(pagination.Token(paginationToken))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", svcErr.ErrInvalidArgument, err)
	}
	limit = pagination.Limit(limit)

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit + 1)
	if cursor.ID > 0 {
		query = query.Where("id < ?", cursor.ID)
	}

	var txs []db.Transaction
	if err := query.Find(&txs).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(txs) > limit {
		last := txs[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{ID: last.ID})
		nextToken = &token
		txs = txs[:limit]
	}
	return txs, nextToken, nil
}

// Discrepancy is a user whose cached balance disagrees with the ledger.
type Discrepancy struct {
	UserID    uint64
	Balance   int64
	LedgerSum int64
}

// Discrepancies lists every user whose coins differ from the COMPLETED ledger sum.
func (r *LedgerRepository) Discrepancies(ctx context.Context) ([]Discrepancy, error) {
	var out []Discrepancy
	err := r.db.WithContext(ctx).
		Table("users u").
		Select("u.id AS user_id, u.coins AS balance, COALESCE(SUM(t.coin_amount), 0) AS ledger_sum").
		Joins("LEFT JOIN transactions t ON t.user_id = u.id AND t.status = ?", db.TxCompleted).
		Group("u.id, u.coins").
		Having("u.coins <> COALESCE(SUM(t.coin_amount), 0)").
		Scan(&out).Error
	return out, err
}
