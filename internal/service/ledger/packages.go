package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	svcErr "github.com/oggyb/findtheone/internal/errors"
)

// Package is a purchasable bundle of coins.
type Package struct {
	Name        string          `json:"name"`
	Coins       int64           `json:"coins"`
	BonusCoins  int64           `json:"bonusCoins"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

// TotalCoins is what the buyer ends up with.
func (p Package) TotalCoins() int64 { return p.Coins + p.BonusCoins }

var catalogue = []Package{
	{Name: "starter", Coins: 25, BonusCoins: 0, Price: decimal.RequireFromString("4.99"), Description: "Perfect for getting started"},
	{Name: "popular", Coins: 60, BonusCoins: 10, Price: decimal.RequireFromString("9.99"), Description: "Most popular choice"},
	{Name: "premium", Coins: 150, BonusCoins: 25, Price: decimal.RequireFromString("19.99"), Description: "Best value for active users"},
	{Name: "ultimate", Coins: 350, BonusCoins: 75, Price: decimal.RequireFromString("39.99"), Description: "Maximum coins for power users"},
}

// Packages returns the catalogue in display order.
func Packages() []Package {
	out := make([]Package, len(catalogue))
	copy(out, catalogue)
	return out
}

// FindPackage looks a package up by case-insensitive name.
func FindPackage(name string) (Package, error) {
	for _, p := range catalogue {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Package{}, fmt.Errorf("%w: unknown package %q", svcErr.ErrInvalidArgument, name)
}
