// Package explore declares the explore.v1.ExploreService gRPC contract:
// decisions on other users, matches, liked-you lists and activity stats.
package explore

import (
	"context"

	"google.golang.org/grpc"

	"github.com/oggyb/findtheone/internal/proto/codec"
)

const ServiceName = "explore.v1.ExploreService"

type PutDecisionRequest struct {
	RecipientUserId string `json:"recipient_user_id"`
	LikedRecipient  bool   `json:"liked_recipient"`
}

type PutDecisionResponse struct {
	MutualLikes bool   `json:"mutual_likes"`
	MatchId     string `json:"match_id,omitempty"`
	Created     bool   `json:"created"`
}

type UnmatchRequest struct {
	UserId string `json:"user_id"`
}

type UnmatchResponse struct{}

type User struct {
	UserId   string `json:"user_id"`
	Username string `json:"username"`
	Gender   string `json:"gender"`
}

type ListMatchesRequest struct{}

type ListMatchesResponse struct {
	Matches []*ListMatchesResponse_Match `json:"matches"`
}

type ListMatchesResponse_Match struct {
	MatchId       string `json:"match_id"`
	User          *User  `json:"user"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
}

type ListSuggestionsRequest struct {
	PaginationToken *string `json:"pagination_token,omitempty"`
	Limit           int32   `json:"limit,omitempty"`
}

type ListSuggestionsResponse struct {
	Users               []*User `json:"users"`
	NextPaginationToken *string `json:"next_pagination_token,omitempty"`
}

func (r *ListSuggestionsResponse) GetNextPaginationToken() string {
	if r == nil || r.NextPaginationToken == nil {
		return ""
	}
	return *r.NextPaginationToken
}

type ListLikedYouRequest struct {
	PaginationToken *string `json:"pagination_token,omitempty"`
	Limit           int32   `json:"limit,omitempty"`
}

type ListLikedYouResponse struct {
	Likers              []*ListLikedYouResponse_Liker `json:"likers"`
	NextPaginationToken *string                       `json:"next_pagination_token,omitempty"`
}

func (r *ListLikedYouResponse) GetNextPaginationToken() string {
	if r == nil || r.NextPaginationToken == nil {
		return ""
	}
	return *r.NextPaginationToken
}

type ListLikedYouResponse_Liker struct {
	ActorId       string `json:"actor_id"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
}

type CountLikedYouRequest struct{}

type CountLikedYouResponse struct {
	Count uint64 `json:"count"`
}

type GetStatsRequest struct {
	// UserId defaults to the caller.
	UserId string `json:"user_id,omitempty"`
}

type GetStatsResponse struct {
	UserId             string  `json:"user_id"`
	MatchesCount       int64   `json:"matches_count"`
	LikesGivenCount    int64   `json:"likes_given_count"`
	LikesReceivedCount int64   `json:"likes_received_count"`
	TotalInteractions  int64   `json:"total_interactions"`
	PopularityScore    float64 `json:"popularity_score"`
	MatchSuccessRate   float64 `json:"match_success_rate"`
}

// ExploreServiceServer is implemented by the explore service.
type ExploreServiceServer interface {
	PutDecision(context.Context, *PutDecisionRequest) (*PutDecisionResponse, error)
	Unmatch(context.Context, *UnmatchRequest) (*UnmatchResponse, error)
	ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error)
	ListSuggestions(context.Context, *ListSuggestionsRequest) (*ListSuggestionsResponse, error)
	ListLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error)
	ListNewLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error)
	CountLikedYou(context.Context, *CountLikedYouRequest) (*CountLikedYouResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error)
}

func srv(s any) ExploreServiceServer { return s.(ExploreServiceServer) }

var ExploreService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExploreServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		codec.Unary(ServiceName, "PutDecision", func(s any, ctx context.Context, in *PutDecisionRequest) (*PutDecisionResponse, error) {
			return srv(s).PutDecision(ctx, in)
		}),
		codec.Unary(ServiceName, "Unmatch", func(s any, ctx context.Context, in *UnmatchRequest) (*UnmatchResponse, error) {
			return srv(s).Unmatch(ctx, in)
		}),
		codec.Unary(ServiceName, "ListMatches", func(s any, ctx context.Context, in *ListMatchesRequest) (*ListMatchesResponse, error) {
			return srv(s).ListMatches(ctx, in)
		}),
		codec.Unary(ServiceName, "ListSuggestions", func(s any, ctx context.Context, in *ListSuggestionsRequest) (*ListSuggestionsResponse, error) {
			return srv(s).ListSuggestions(ctx, in)
		}),
		codec.Unary(ServiceName, "ListLikedYou", func(s any, ctx context.Context, in *ListLikedYouRequest) (*ListLikedYouResponse, error) {
			return srv(s).ListLikedYou(ctx, in)
		}),
		codec.Unary(ServiceName, "ListNewLikedYou", func(s any, ctx context.Context, in *ListLikedYouRequest) (*ListLikedYouResponse, error) {
			return srv(s).ListNewLikedYou(ctx, in)
		}),
		codec.Unary(ServiceName, "CountLikedYou", func(s any, ctx context.Context, in *CountLikedYouRequest) (*CountLikedYouResponse, error) {
			return srv(s).CountLikedYou(ctx, in)
		}),
		codec.Unary(ServiceName, "GetStats", func(s any, ctx context.Context, in *GetStatsRequest) (*GetStatsResponse, error) {
			return srv(s).GetStats(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "explore/v1/explore.go",
}

func RegisterExploreServiceServer(s grpc.ServiceRegistrar, impl ExploreServiceServer) {
	s.RegisterService(&ExploreService_ServiceDesc, impl)
}

// ExploreServiceClient calls the service over a connection.
type ExploreServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewExploreServiceClient(cc grpc.ClientConnInterface) *ExploreServiceClient {
	return &ExploreServiceClient{cc: cc}
}

func (c *ExploreServiceClient) PutDecision(ctx context.Context, in *PutDecisionRequest, opts ...grpc.CallOption) (*PutDecisionResponse, error) {
	return codec.Invoke[PutDecisionResponse](ctx, c.cc, ServiceName, "PutDecision", in, opts...)
}

func (c *ExploreServiceClient) Unmatch(ctx context.Context, in *UnmatchRequest, opts ...grpc.CallOption) (*UnmatchResponse, error) {
	return codec.Invoke[UnmatchResponse](ctx, c.cc, ServiceName, "Unmatch", in, opts...)
}

func (c *ExploreServiceClient) ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error) {
	return codec.Invoke[ListMatchesResponse](ctx, c.cc, ServiceName, "ListMatches", in, opts...)
}

func (c *ExploreServiceClient) ListSuggestions(ctx context.Context, in *ListSuggestionsRequest, opts ...grpc.CallOption) (*ListSuggestionsResponse, error) {
	return codec.Invoke[ListSuggestionsResponse](ctx, c.cc, ServiceName, "ListSuggestions", in, opts...)
}

func (c *ExploreServiceClient) ListLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error) {
	return codec.Invoke[ListLikedYouResponse](ctx, c.cc, ServiceName, "ListLikedYou", in, opts...)
}

func (c *ExploreServiceClient) ListNewLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error) {
	return codec.Invoke[ListLikedYouResponse](ctx, c.cc, ServiceName, "ListNewLikedYou", in, opts...)
}

func (c *ExploreServiceClient) CountLikedYou(ctx context.Context, in *CountLikedYouRequest, opts ...grpc.CallOption) (*CountLikedYouResponse, error) {
	return codec.Invoke[CountLikedYouResponse](ctx, c.cc, ServiceName, "CountLikedYou", in, opts...)
}

func (c *ExploreServiceClient) GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error) {
	return codec.Invoke[GetStatsResponse](ctx, c.cc, ServiceName, "GetStats", in, opts...)
}
