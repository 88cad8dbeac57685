package explore

import (
	"context"
	"strconv"

	"github.com/oggyb/findtheone/internal/app"
	"github.com/oggyb/findtheone/internal/auth"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	pb "github.com/oggyb/findtheone/internal/proto/explore"
	"github.com/oggyb/findtheone/internal/service/matching"
	"github.com/oggyb/findtheone/internal/service/stats"
	"github.com/oggyb/findtheone/internal/utils/pagination"
)

// Service implements the Explore gRPC API on top of the matching engine.
// The caller is always the authenticated identity on the context; request
// fields only name the other party.
type Service struct {
	appCtx *app.AppContext
	engine *matching.Engine
	stats  *stats.Aggregator
}

var _ pb.ExploreServiceServer = (*Service)(nil)

// NewExploreService creates a new Explore service with dependencies from AppContext.
// Dependencies include:
//   - DB connection (likes, matches, users)
//   - RedisCache for the liked-you counter
//   - Events for match notifications
func NewExploreService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		engine: matching.New(appCtx.DB, appCtx.RedisCache, appCtx.Events, appCtx.Logger),
		stats:  stats.New(appCtx.DB),
	}
}

// Engine exposes the matching engine so other transports share one instance.
func (s *Service) Engine() *matching.Engine { return s.engine }

func parseUserID(field, value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument(field + " must be a valid uint64")
	}
	return id, nil
}

func formatID(id uint64) string { return strconv.FormatUint(id, 10) }

// PutDecision records a like or a dislike from the caller.
//
// Behavior:
//   - A like that completes a mutual pair creates the match, once.
//   - Repeating a decision, or changing it, leaves the first one in place.
//   - A dislike never removes an existing match; use Unmatch.
//
// Example:
//
//	svc.PutDecision(ctx, &pb.PutDecisionRequest{RecipientUserId: "2", LikedRecipient: true})
func (s *Service) PutDecision(ctx context.Context, req *pb.PutDecisionRequest) (*pb.PutDecisionResponse, error) {
	actorID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.appCtx.Logger.Debug("PutDecision called",
		"actor", actorID,
		"recipient", req.RecipientUserId,
		"liked", req.LikedRecipient,
	)

	recipientID, err := parseUserID("recipient_user_id", req.RecipientUserId)
	if err != nil {
		return nil, err
	}
	if actorID == recipientID {
		return nil, svcErr.InvalidArgument("cannot decide on yourself")
	}

	if !req.LikedRecipient {
		created, err := s.engine.Dislike(ctx, actorID, recipientID)
		if err != nil {
			return nil, svcErr.Map(err)
		}
		return &pb.PutDecisionResponse{Created: created}, nil
	}

	res, err := s.engine.Like(ctx, actorID, recipientID)
	if err != nil {
		s.appCtx.Logger.Error("Like failed", "actor", actorID, "recipient", recipientID, "err", err)
		return nil, svcErr.Map(err)
	}
	resp := &pb.PutDecisionResponse{MutualLikes: res.IsMatch, Created: res.Created}
	if res.MatchID != 0 {
		resp.MatchId = formatID(res.MatchID)
	}
	return resp, nil
}

// Unmatch ends the caller's active match with another user.
func (s *Service) Unmatch(ctx context.Context, req *pb.UnmatchRequest) (*pb.UnmatchResponse, error) {
	userID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	otherID, err := parseUserID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Unmatch(ctx, userID, otherID); err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.UnmatchResponse{}, nil
}

// ListMatches returns the caller's active matches.
func (s *Service) ListMatches(ctx context.Context, _ *pb.ListMatchesRequest) (*pb.ListMatchesResponse, error) {
	userID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	matches, err := s.engine.Matches(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &pb.ListMatchesResponse{Matches: make([]*pb.ListMatchesResponse_Match, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, &pb.ListMatchesResponse_Match{
			MatchId: formatID(m.MatchID),
			User: &pb.User{
				UserId:   formatID(m.User.ID),
				Username: m.User.Username,
				Gender:   m.User.Gender,
			},
			UnixTimestamp: uint64(m.MatchedAt.UnixMilli()),
		})
	}
	return resp, nil
}

// ListSuggestions returns active users the caller has not decided on yet.
func (s *Service) ListSuggestions(ctx context.Context, req *pb.ListSuggestionsRequest) (*pb.ListSuggestionsResponse, error) {
	userID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	users, next, err := s.engine.Suggestions(ctx, userID, req.PaginationToken, pagination.Limit(int(req.Limit)))
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &pb.ListSuggestionsResponse{Users: make([]*pb.User, 0, len(users)), NextPaginationToken: next}
	for _, u := range users {
		resp.Users = append(resp.Users, &pb.User{UserId: formatID(u.ID), Username: u.Username, Gender: u.Gender})
	}
	return resp, nil
}

// ListLikedYou returns all users who liked the caller.
//
// Behavior:
//   - Excludes users that the caller explicitly disliked.
//   - Supports cursor-based pagination with paginationToken.
//   - Returns actor_id + timestamp pairs.
func (s *Service) ListLikedYou(ctx context.Context, req *pb.ListLikedYouRequest) (*pb.ListLikedYouResponse, error) {
	return s.listLikers(ctx, req, false)
}

// ListNewLikedYou is ListLikedYou without the users the caller already liked back.
func (s *Service) ListNewLikedYou(ctx context.Context, req *pb.ListLikedYouRequest) (*pb.ListLikedYouResponse, error) {
	return s.listLikers(ctx, req, true)
}

func (s *Service) listLikers(ctx context.Context, req *pb.ListLikedYouRequest, onlyNew bool) (*pb.ListLikedYouResponse, error) {
	recipientID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	s.appCtx.Logger.Debug("ListLikedYou called",
		"recipient", recipientID,
		"only_new", onlyNew,
		"token", pagination.Token(req.PaginationToken),
	)

	likes, next, err := s.engine.LikedYou(ctx, recipientID, onlyNew, req.PaginationToken, pagination.Limit(int(req.Limit)))
	if err != nil {
		s.appCtx.Logger.Error("LikedYou failed", "err", err)
		return nil, svcErr.Map(err)
	}

	resp := &pb.ListLikedYouResponse{Likers: make([]*pb.ListLikedYouResponse_Liker, 0, len(likes)), NextPaginationToken: next}
	for _, l := range likes {
		resp.Likers = append(resp.Likers, &pb.ListLikedYouResponse_Liker{
			ActorId:       formatID(l.LikerID),
			UnixTimestamp: uint64(l.CreatedAt.UnixMilli()),
		})
	}

	s.appCtx.Logger.Debug("ListLikedYou result", "liker_count", len(resp.Likers), "next_token", resp.GetNextPaginationToken())
	return resp, nil
}

// CountLikedYou returns how many users liked the caller. Served from Redis when warm.
func (s *Service) CountLikedYou(ctx context.Context, _ *pb.CountLikedYouRequest) (*pb.CountLikedYouResponse, error) {
	recipientID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	count, err := s.engine.CountLikedYou(ctx, recipientID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.CountLikedYouResponse{Count: uint64(count)}, nil
}

// GetStats returns the activity rollup for user_id, or for the caller when empty.
func (s *Service) GetStats(ctx context.Context, req *pb.GetStatsRequest) (*pb.GetStatsResponse, error) {
	userID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if req.UserId != "" {
		if userID, err = parseUserID("user_id", req.UserId); err != nil {
			return nil, err
		}
	}

	st, err := s.stats.UserStats(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.GetStatsResponse{
		UserId:             formatID(st.UserID),
		MatchesCount:       st.MatchesCount,
		LikesGivenCount:    st.LikesGiven,
		LikesReceivedCount: st.LikesReceived,
		TotalInteractions:  st.TotalInteractions,
		PopularityScore:    st.PopularityScore,
		MatchSuccessRate:   st.MatchSuccessRate,
	}, nil
}
