// Package wallet exposes balances, coin packages and ledger history over gRPC.
package wallet

import (
	"context"
	"strconv"

	"github.com/oggyb/findtheone/internal/app"
	"github.com/oggyb/findtheone/internal/auth"
	"github.com/oggyb/findtheone/internal/db"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	pb "github.com/oggyb/findtheone/internal/proto/wallet"
	"github.com/oggyb/findtheone/internal/service/ledger"
	"github.com/oggyb/findtheone/internal/utils/pagination"
)

type Service struct {
	appCtx *app.AppContext
	ledger *ledger.Ledger
}

var _ pb.WalletServiceServer = (*Service)(nil)

func NewWalletService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		ledger: ledger.New(appCtx.DB, appCtx.Logger,
			ledger.WithEvents(appCtx.Events),
			ledger.WithWelcomeBonus(appCtx.Config.Coins.WelcomeBonus),
		),
	}
}

func toPB(t db.Transaction) *pb.Transaction {
	out := &pb.Transaction{
		TransactionId: strconv.FormatUint(t.ID, 10),
		Type:          string(t.Type),
		Status:        string(t.Status),
		CoinAmount:    t.CoinAmount,
		Description:   t.Description,
		PaymentId:     t.PaymentID,
		UnixTimestamp: uint64(t.CreatedAt.UnixMilli()),
	}
	if t.MoneyAmount.Valid {
		out.MoneyAmount = t.MoneyAmount.Decimal.StringFixed(2)
	}
	return out
}

func (s *Service) GetBalance(ctx context.Context, _ *pb.GetBalanceRequest) (*pb.GetBalanceResponse, error) {
	userID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	coins, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.GetBalanceResponse{Coins: coins}, nil
}

// ListPackages needs no identity; the catalogue is public.
func (s *Service) ListPackages(context.Context, *pb.ListPackagesRequest) (*pb.ListPackagesResponse, error) {
	pkgs := ledger.Packages()
	resp := &pb.ListPackagesResponse{Packages: make([]*pb.Package, 0, len(pkgs))}
	for _, p := range pkgs {
		resp.Packages = append(resp.Packages, &pb.Package{
			Name:        p.Name,
			Coins:       p.Coins,
			BonusCoins:  p.BonusCoins,
			TotalCoins:  p.TotalCoins(),
			Price:       p.Price.StringFixed(2),
			Description: p.Description,
		})
	}
	return resp, nil
}

// PurchaseCoins simulates a payment and credits the package.
func (s *Service) PurchaseCoins(ctx context.Context, req *pb.PurchaseCoinsRequest) (*pb.PurchaseCoinsResponse, error) {
	userID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.appCtx.Logger.Debug("PurchaseCoins called", "user", userID, "package", req.Package)

	res, err := s.ledger.Purchase(ctx, userID, req.Package)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	resp := &pb.PurchaseCoinsResponse{
		PaymentId:    res.PaymentID,
		CoinsAdded:   res.Package.TotalCoins(),
		Balance:      res.Balance,
		Transactions: make([]*pb.Transaction, 0, len(res.Entries)),
	}
	for _, e := range res.Entries {
		resp.Transactions = append(resp.Transactions, toPB(e))
	}
	return resp, nil
}

// ListTransactions pages the caller's ledger, newest first.
func (s *Service) ListTransactions(ctx context.Context, req *pb.ListTransactionsRequest) (*pb.ListTransactionsResponse, error) {
	userID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	txs, next, err := s.ledger.History(ctx, userID, req.PaginationToken, pagination.Limit(int(req.Limit)))
	if err != nil {
		return nil, svcErr.Map(err)
	}
	resp := &pb.ListTransactionsResponse{Transactions: make([]*pb.Transaction, 0, len(txs)), NextPaginationToken: next}
	for _, t := range txs {
		resp.Transactions = append(resp.Transactions, toPB(t))
	}
	return resp, nil
}
