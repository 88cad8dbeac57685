package wallet

import (
	"google.golang.org/grpc"

	"github.com/oggyb/findtheone/internal/app"
	pb "github.com/oggyb/findtheone/internal/proto/wallet"
)

// Registrar ties the Wallet service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(s *grpc.Server) {
	pb.RegisterWalletServiceServer(s, NewWalletService(r.appCtx))
}
