// Package ledger owns every coin balance change. A balance change and its
// ledger entry are always committed in the same database transaction.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	"github.com/oggyb/findtheone/internal/events"
	"github.com/oggyb/findtheone/internal/repository"
)

type Ledger struct {
	db           *gorm.DB
	repo         *repository.LedgerRepository
	users        *repository.UserRepository
	events       events.Publisher
	logger       *slog.Logger
	welcomeBonus int64
}

type Option func(*Ledger)

func WithEvents(p events.Publisher) Option { return func(l *Ledger) { l.events = p } }

func WithWelcomeBonus(coins int64) Option { return func(l *Ledger) { l.welcomeBonus = coins } }

func New(database *gorm.DB, logger *slog.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		db:           database,
		repo:         repository.NewLedgerRepository(database),
		users:        repository.NewUserRepository(database),
		events:       events.NopPublisher{},
		logger:       logger.With("service", "ledger"),
		welcomeBonus: 10,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Balance returns the user's current coin balance.
func (l *Ledger) Balance(ctx context.Context, userID uint64) (int64, error) {
	return l.repo.Balance(ctx, userID)
}

// Spend debits amount coins in its own transaction.
// false with a nil error means the balance was insufficient; nothing changed.
func (l *Ledger) Spend(ctx context.Context, userID uint64, amount int64, description string) (bool, error) {
	var ok bool
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		ok, err = l.SpendTx(ctx, tx, userID, amount, description)
		return err
	})
	return ok, err
}

// SpendTx debits inside the caller's transaction so that the debit commits or
// rolls back together with the caller's own writes.
func (l *Ledger) SpendTx(ctx context.Context, tx *gorm.DB, userID uint64, amount int64, description string) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("%w: spend amount must be positive", svcErr.ErrInvalidArgument)
	}
	repo := l.repo.WithTx(tx)

	debited, err := repo.Debit(ctx, userID, amount)
	if err != nil {
		return false, err
	}
	if !debited {
		// distinguish a missing user from a short balance
		if _, err := repo.Balance(ctx, userID); err != nil {
			return false, err
		}
		return false, nil
	}

	entry := &db.Transaction{
		UserID:      userID,
		Type:        db.TxSpend,
		CoinAmount:  -amount,
		Description: description,
		Status:      db.TxCompleted,
	}
	if err := repo.Append(ctx, entry); err != nil {
		return false, err
	}
	return true, nil
}

// Credit adds coins for PURCHASE, BONUS or REFUND in one transaction.
func (l *Ledger) Credit(
	ctx context.Context,
	userID uint64,
	amount int64,
	kind db.TransactionType,
	description string,
	money decimal.NullDecimal,
) (*db.Transaction, error) {
	var entry *db.Transaction
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = l.CreditTx(ctx, tx, userID, amount, kind, description, money, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CreditTx is Credit inside the caller's transaction.
func (l *Ledger) CreditTx(
	ctx context.Context,
	tx *gorm.DB,
	userID uint64,
	amount int64,
	kind db.TransactionType,
	description string,
	money decimal.NullDecimal,
	paymentID string,
) (*db.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: credit amount must be positive", svcErr.ErrInvalidArgument)
	}
	switch kind {
	case db.TxPurchase, db.TxBonus, db.TxRefund:
	default:
		return nil, fmt.Errorf("%w: cannot credit a %s entry", svcErr.ErrInvalidArgument, kind)
	}

	repo := l.repo.WithTx(tx)
	if err := repo.Credit(ctx, userID, amount); err != nil {
		return nil, err
	}
	entry := &db.Transaction{
		UserID:      userID,
		Type:        kind,
		CoinAmount:  amount,
		MoneyAmount: money,
		Description: description,
		PaymentID:   paymentID,
		Status:      db.TxCompleted,
	}
	if err := repo.Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// PurchaseResult reports a simulated purchase.
type PurchaseResult struct {
	Package   Package
	PaymentID string
	Entries   []db.Transaction
	Balance   int64
}

// Purchase simulates paying for a package: one PURCHASE entry for the base
// coins and, when the package carries one, a BONUS entry, all in one transaction.
func (l *Ledger) Purchase(ctx context.Context, userID uint64, packageName string) (*PurchaseResult, error) {
	pkg, err := FindPackage(packageName)
	if err != nil {
		return nil, err
	}
	paymentID := "FAKE_PAY_" + uuid.NewString()[:8]

	res := &PurchaseResult{Package: pkg, PaymentID: paymentID}
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchase, err := l.CreditTx(ctx, tx, userID, pkg.Coins, db.TxPurchase,
			fmt.Sprintf("Purchased %s package", pkg.Name),
			decimal.NewNullDecimal(pkg.Price), paymentID)
		if err != nil {
			return err
		}
		res.Entries = append(res.Entries, *purchase)

		if pkg.BonusCoins > 0 {
			bonus, err := l.CreditTx(ctx, tx, userID, pkg.BonusCoins, db.TxBonus,
				fmt.Sprintf("Bonus coins for %s package", pkg.Name),
				decimal.NullDecimal{}, paymentID)
			if err != nil {
				return err
			}
			res.Entries = append(res.Entries, *bonus)
		}

		res.Balance, err = l.repo.WithTx(tx).Balance(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("coins purchased", "user", userID, "package", pkg.Name, "payment_id", paymentID, "balance", res.Balance)
	l.events.Publish(ctx, events.Event{
		Type:       events.CoinsPurchased,
		Recipients: []uint64{userID},
		Data:       map[string]any{"package": pkg.Name, "coins": pkg.TotalCoins(), "balance": res.Balance},
	})
	return res, nil
}

// GrantWelcomeBonus credits the configured sign-up bonus.
func (l *Ledger) GrantWelcomeBonus(ctx context.Context, userID uint64) (*db.Transaction, error) {
	if l.welcomeBonus <= 0 {
		return nil, nil
	}
	return l.Credit(ctx, userID, l.welcomeBonus, db.TxBonus, "Welcome bonus", decimal.NullDecimal{})
}

// Refund returns coins to a user.
func (l *Ledger) Refund(ctx context.Context, userID uint64, amount int64, reason string) (*db.Transaction, error) {
	return l.Credit(ctx, userID, amount, db.TxRefund, reason, decimal.NullDecimal{})
}

// History lists ledger entries newest first.
func (l *Ledger) History(ctx context.Context, userID uint64, token *string, limit int) ([]db.Transaction, *string, error) {
	if _, err := l.users.FindUser(ctx, userID); err != nil {
		return nil, nil, err
	}
	return l.repo.History(ctx, userID, token, limit)
}

// LedgerSum returns the sum of the user's COMPLETED entries.
func (l *Ledger) LedgerSum(ctx context.Context, userID uint64) (int64, error) {
	return l.repo.Sum(ctx, userID)
}

// Reconcile lists users whose balance disagrees with their ledger.
// It only reports; fixing a drift is an operator decision.
func (l *Ledger) Reconcile(ctx context.Context) ([]repository.Discrepancy, error) {
	diffs, err := l.repo.Discrepancies(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range diffs {
		l.logger.Warn("balance drift", "user", d.UserID, "balance", d.Balance, "ledger_sum", d.LedgerSum)
	}
	return diffs, nil
}
