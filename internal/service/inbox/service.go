// Package inbox exposes the message gate over gRPC.
package inbox

import (
	"context"
	"errors"
	"strconv"

	"github.com/oggyb/findtheone/internal/app"
	"github.com/oggyb/findtheone/internal/auth"
	svcErr "github.com/oggyb/findtheone/internal/errors"
	pb "github.com/oggyb/findtheone/internal/proto/messaging"
	"github.com/oggyb/findtheone/internal/service/ledger"
	"github.com/oggyb/findtheone/internal/service/matching"
	"github.com/oggyb/findtheone/internal/service/messaging"
)

type Service struct {
	appCtx *app.AppContext
	gate   *messaging.Gate
}

var _ pb.MessagingServiceServer = (*Service)(nil)

// NewInboxService wires the gate with a ledger and matching engine built from appCtx.
func NewInboxService(appCtx *app.AppContext) *Service {
	l := ledger.New(appCtx.DB, appCtx.Logger,
		ledger.WithEvents(appCtx.Events),
		ledger.WithWelcomeBonus(appCtx.Config.Coins.WelcomeBonus),
	)
	engine := matching.New(appCtx.DB, appCtx.RedisCache, appCtx.Events, appCtx.Logger)
	return NewService(appCtx, messaging.New(appCtx.DB, l, engine, appCtx.Events, appCtx.Logger))
}

// NewService wraps an existing gate.
func NewService(appCtx *app.AppContext, gate *messaging.Gate) *Service {
	return &Service{appCtx: appCtx, gate: gate}
}

func parseID(field, value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument(field + " must be a valid uint64")
	}
	return id, nil
}

func toPB(v messaging.MessageView) *pb.Message {
	return &pb.Message{
		MessageId:     strconv.FormatUint(v.ID, 10),
		SenderId:      strconv.FormatUint(v.SenderID, 10),
		ReceiverId:    strconv.FormatUint(v.ReceiverID, 10),
		Content:       v.Content,
		UnixTimestamp: uint64(v.SentAt.UnixMilli()),
		IsRead:        v.IsRead,
		Locked:        v.Locked,
		Mine:          v.Mine,
	}
}

func toPBList(views []messaging.MessageView) []*pb.Message {
	out := make([]*pb.Message, 0, len(views))
	for _, v := range views {
		out = append(out, toPB(v))
	}
	return out
}

// SendMessage stores a LOCKED message to a matched user.
func (s *Service) SendMessage(ctx context.Context, req *pb.SendMessageRequest) (*pb.SendMessageResponse, error) {
	senderID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	receiverID, err := parseID("receiver_user_id", req.ReceiverUserId)
	if err != nil {
		return nil, err
	}

	v, err := s.gate.Send(ctx, senderID, receiverID, req.Content)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.SendMessageResponse{Message: toPB(v)}, nil
}

// GetConversation lists both directions, oldest first, locked content redacted.
func (s *Service) GetConversation(ctx context.Context, req *pb.GetConversationRequest) (*pb.GetConversationResponse, error) {
	readerID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	otherID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}

	views, err := s.gate.Conversation(ctx, readerID, otherID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.GetConversationResponse{Messages: toPBList(views)}, nil
}

// UnlockMessage pays to open a received message. A failed payment comes back
// as FailedPrecondition with coins_needed and current_coins in the ErrorInfo.
func (s *Service) UnlockMessage(ctx context.Context, req *pb.UnlockMessageRequest) (*pb.UnlockMessageResponse, error) {
	readerID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	messageID, err := parseID("message_id", req.MessageId)
	if err != nil {
		return nil, err
	}
	s.appCtx.Logger.Debug("UnlockMessage called", "reader", readerID, "message_id", messageID)

	res, err := s.gate.Unlock(ctx, messageID, readerID)
	if err != nil {
		if needed, current, ok := messaging.CoinsNeeded(err); ok {
			return nil, svcErr.MapWithMetadata(err, map[string]string{
				"coins_needed":  strconv.FormatInt(needed, 10),
				"current_coins": strconv.FormatInt(current, 10),
			})
		}
		return nil, svcErr.Map(err)
	}

	v, err := s.gate.Read(ctx, messageID, readerID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.UnlockMessageResponse{
		AlreadyUnlocked: res.AlreadyUnlocked,
		CoinsCharged:    res.Charged,
		Balance:         res.Balance,
		Message:         toPB(v),
	}, nil
}

// ReadMessage returns one message if the caller may see its content.
func (s *Service) ReadMessage(ctx context.Context, req *pb.ReadMessageRequest) (*pb.ReadMessageResponse, error) {
	readerID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	messageID, err := parseID("message_id", req.MessageId)
	if err != nil {
		return nil, err
	}

	v, err := s.gate.Read(ctx, messageID, readerID)
	if err != nil {
		if errors.Is(err, svcErr.ErrLocked) {
			s.appCtx.Logger.Debug("read of locked message", "reader", readerID, "message_id", messageID)
		}
		return nil, svcErr.Map(err)
	}
	return &pb.ReadMessageResponse{Message: toPB(v)}, nil
}

func (s *Service) MarkMessageRead(ctx context.Context, req *pb.MarkMessageReadRequest) (*pb.MarkMessageReadResponse, error) {
	readerID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	messageID, err := parseID("message_id", req.MessageId)
	if err != nil {
		return nil, err
	}
	if err := s.gate.MarkRead(ctx, messageID, readerID); err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.MarkMessageReadResponse{}, nil
}

// MarkConversationRead marks the caller's unlocked messages from user_id as read.
func (s *Service) MarkConversationRead(ctx context.Context, req *pb.MarkConversationReadRequest) (*pb.MarkConversationReadResponse, error) {
	readerID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	otherID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	n, err := s.gate.MarkConversationRead(ctx, readerID, otherID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.MarkConversationReadResponse{Updated: n}, nil
}

func (s *Service) ListUnread(ctx context.Context, _ *pb.ListUnreadRequest) (*pb.ListUnreadResponse, error) {
	userID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	views, err := s.gate.Unread(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.ListUnreadResponse{Messages: toPBList(views)}, nil
}

func (s *Service) CountUnread(ctx context.Context, _ *pb.CountUnreadRequest) (*pb.CountUnreadResponse, error) {
	userID, err := auth.Caller(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	n, err := s.gate.UnreadCount(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &pb.CountUnreadResponse{Count: uint64(n)}, nil
}
