package server

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/findtheone/internal/app"
	"github.com/oggyb/findtheone/internal/auth"
	_ "github.com/oggyb/findtheone/internal/proto/codec" // registers the json codec
)

// NewGRPCServer builds a server with the logging, auth and rate limit chain
// and registers all provided services.
func NewGRPCServer(appCtx *app.AppContext, issuer *auth.Issuer, registrars ...Registrar) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RequestLogger(appCtx.Logger),
			Authenticate(issuer),
			RateLimit(appCtx.RedisCache, appCtx.Config.RateLimit.Requests, appCtx.Config.RateLimit.Window, appCtx.Logger),
		),
	)

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)
	return grpcServer
}

// StartGRPCServer listens on the configured address and serves until ctx is
// cancelled, then drains in-flight calls.
func StartGRPCServer(ctx context.Context, appCtx *app.AppContext, grpcServer *grpc.Server) error {
	addr := fmt.Sprintf("%s:%s", appCtx.Config.GRPC.Host, appCtx.Config.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	appCtx.Logger.Info("starting gRPC server", "addr", addr)
	return grpcServer.Serve(lis)
}
