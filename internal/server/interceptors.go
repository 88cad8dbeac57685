package server

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/oggyb/findtheone/internal/auth"
	"github.com/oggyb/findtheone/internal/cache"
	svcErr "github.com/oggyb/findtheone/internal/errors"
)

const (
	RequestIDHeader = "x-request-id"
	authHeader      = "authorization"
)

// PublicMethods are callable without a token.
var PublicMethods = map[string]bool{
	"/wallet.v1.WalletService/ListPackages": true,
}

// RequestLogger tags each call with a request id (taken from the caller or
// generated), echoes it as a response header and logs the outcome.
func RequestLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(RequestIDHeader); len(v) > 0 {
				requestID = v[0]
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		resp, err := handler(ctx, req)

		code := status.Code(err)
		attrs := []any{
			"method", info.FullMethod,
			"request_id", requestID,
			"code", code.String(),
			"duration", time.Since(start),
		}
		switch code {
		case codes.OK:
			logger.Debug("grpc request", attrs...)
		case codes.Internal, codes.Unknown:
			logger.Error("grpc request failed", append(attrs, "err", err)...)
		default:
			logger.Info("grpc request rejected", append(attrs, "err", err)...)
		}
		return resp, err
	}
}

// Authenticate resolves the bearer token into an auth.Identity on the context.
func Authenticate(issuer *auth.Issuer) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if PublicMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get(authHeader)
		if len(values) == 0 {
			return nil, svcErr.Unauthenticated("missing authorization metadata")
		}
		token, ok := auth.BearerToken(values[0])
		if !ok {
			return nil, svcErr.Unauthenticated("authorization must be a bearer token")
		}
		id, err := issuer.Parse(token)
		if err != nil {
			return nil, svcErr.Unauthenticated(err.Error())
		}
		return handler(auth.WithIdentity(ctx, id), req)
	}
}

// RateLimit allows limit calls per user per window. Redis failures let the
// call through.
func RateLimit(rc *cache.RedisCache, limit int, window time.Duration, logger *slog.Logger) grpc.UnaryServerInterceptor {
	if window <= 0 {
		window = time.Minute
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id, ok := auth.FromContext(ctx)
		if rc == nil || limit <= 0 || !ok {
			return handler(ctx, req)
		}

		allowed, err := rc.Allow(ctx, "user:"+strconv.FormatUint(id.UserID, 10), limit, window)
		if err != nil {
			logger.Warn("rate limiter unavailable", "err", err)
			return handler(ctx, req)
		}
		if !allowed {
			return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
		}
		return handler(ctx, req)
	}
}
