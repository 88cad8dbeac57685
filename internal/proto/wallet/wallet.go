// Package wallet declares the wallet.v1.WalletService gRPC contract.
package wallet

import (
	"context"

	"google.golang.org/grpc"

	"github.com/oggyb/findtheone/internal/proto/codec"
)

const ServiceName = "wallet.v1.WalletService"

type GetBalanceRequest struct{}

type GetBalanceResponse struct {
	Coins int64 `json:"coins"`
}

type Package struct {
	Name        string `json:"name"`
	Coins       int64  `json:"coins"`
	BonusCoins  int64  `json:"bonus_coins"`
	TotalCoins  int64  `json:"total_coins"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

type ListPackagesRequest struct{}

type ListPackagesResponse struct {
	Packages []*Package `json:"packages"`
}

type PurchaseCoinsRequest struct {
	Package string `json:"package"`
}

type PurchaseCoinsResponse struct {
	PaymentId    string         `json:"payment_id"`
	CoinsAdded   int64          `json:"coins_added"`
	Balance      int64          `json:"balance"`
	Transactions []*Transaction `json:"transactions"`
}

type Transaction struct {
	TransactionId string `json:"transaction_id"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	CoinAmount    int64  `json:"coin_amount"`
	MoneyAmount   string `json:"money_amount,omitempty"`
	Description   string `json:"description"`
	PaymentId     string `json:"payment_id,omitempty"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
}

type ListTransactionsRequest struct {
	PaginationToken *string `json:"pagination_token,omitempty"`
	Limit           int32   `json:"limit,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions        []*Transaction `json:"transactions"`
	NextPaginationToken *string        `json:"next_pagination_token,omitempty"`
}

type WalletServiceServer interface {
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	ListPackages(context.Context, *ListPackagesRequest) (*ListPackagesResponse, error)
	PurchaseCoins(context.Context, *PurchaseCoinsRequest) (*PurchaseCoinsResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
}

func srv(s any) WalletServiceServer { return s.(WalletServiceServer) }

var WalletService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WalletServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		codec.Unary(ServiceName, "GetBalance", func(s any, ctx context.Context, in *GetBalanceRequest) (*GetBalanceResponse, error) {
			return srv(s).GetBalance(ctx, in)
		}),
		codec.Unary(ServiceName, "ListPackages", func(s any, ctx context.Context, in *ListPackagesRequest) (*ListPackagesResponse, error) {
			return srv(s).ListPackages(ctx, in)
		}),
		codec.Unary(ServiceName, "PurchaseCoins", func(s any, ctx context.Context, in *PurchaseCoinsRequest) (*PurchaseCoinsResponse, error) {
			return srv(s).PurchaseCoins(ctx, in)
		}),
		codec.Unary(ServiceName, "ListTransactions", func(s any, ctx context.Context, in *ListTransactionsRequest) (*ListTransactionsResponse, error) {
			return srv(s).ListTransactions(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wallet/v1/wallet.go",
}

func RegisterWalletServiceServer(s grpc.ServiceRegistrar, impl WalletServiceServer) {
	s.RegisterService(&WalletService_ServiceDesc, impl)
}

type WalletServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewWalletServiceClient(cc grpc.ClientConnInterface) *WalletServiceClient {
	return &WalletServiceClient{cc: cc}
}

func (c *WalletServiceClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	return codec.Invoke[GetBalanceResponse](ctx, c.cc, ServiceName, "GetBalance", in, opts...)
}

func (c *WalletServiceClient) ListPackages(ctx context.Context, in *ListPackagesRequest, opts ...grpc.CallOption) (*ListPackagesResponse, error) {
	return codec.Invoke[ListPackagesResponse](ctx, c.cc, ServiceName, "ListPackages", in, opts...)
}

func (c *WalletServiceClient) PurchaseCoins(ctx context.Context, in *PurchaseCoinsRequest, opts ...grpc.CallOption) (*PurchaseCoinsResponse, error) {
	return codec.Invoke[PurchaseCoinsResponse](ctx, c.cc, ServiceName, "PurchaseCoins", in, opts...)
}

func (c *WalletServiceClient) ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return codec.Invoke[ListTransactionsResponse](ctx, c.cc, ServiceName, "ListTransactions", in, opts...)
}
