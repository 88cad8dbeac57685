// Package messaging declares the messaging.v1.MessagingService gRPC contract.
package messaging

import (
	"context"

	"google.golang.org/grpc"

	"github.com/oggyb/findtheone/internal/proto/codec"
)

const ServiceName = "messaging.v1.MessagingService"

// Message as seen by the caller. Content is empty while Locked.
type Message struct {
	MessageId     string `json:"message_id"`
	SenderId      string `json:"sender_id"`
	ReceiverId    string `json:"receiver_id"`
	Content       string `json:"content,omitempty"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
	IsRead        bool   `json:"is_read"`
	Locked        bool   `json:"locked"`
	Mine          bool   `json:"mine"`
}

type SendMessageRequest struct {
	ReceiverUserId string `json:"receiver_user_id"`
	Content        string `json:"content"`
}

type SendMessageResponse struct {
	Message *Message `json:"message"`
}

type GetConversationRequest struct {
	UserId string `json:"user_id"`
}

type GetConversationResponse struct {
	Messages []*Message `json:"messages"`
}

type UnlockMessageRequest struct {
	MessageId string `json:"message_id"`
}

type UnlockMessageResponse struct {
	AlreadyUnlocked bool     `json:"already_unlocked"`
	CoinsCharged    int64    `json:"coins_charged"`
	Balance         int64    `json:"balance"`
	Message         *Message `json:"message"`
}

type ReadMessageRequest struct {
	MessageId string `json:"message_id"`
}

type ReadMessageResponse struct {
	Message *Message `json:"message"`
}

type MarkMessageReadRequest struct {
	MessageId string `json:"message_id"`
}

type MarkMessageReadResponse struct{}

type MarkConversationReadRequest struct {
	UserId string `json:"user_id"`
}

type MarkConversationReadResponse struct {
	Updated int64 `json:"updated"`
}

type ListUnreadRequest struct{}

type ListUnreadResponse struct {
	Messages []*Message `json:"messages"`
}

type CountUnreadRequest struct{}

type CountUnreadResponse struct {
	Count uint64 `json:"count"`
}

type MessagingServiceServer interface {
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	GetConversation(context.Context, *GetConversationRequest) (*GetConversationResponse, error)
	UnlockMessage(context.Context, *UnlockMessageRequest) (*UnlockMessageResponse, error)
	ReadMessage(context.Context, *ReadMessageRequest) (*ReadMessageResponse, error)
	MarkMessageRead(context.Context, *MarkMessageReadRequest) (*MarkMessageReadResponse, error)
	MarkConversationRead(context.Context, *MarkConversationReadRequest) (*MarkConversationReadResponse, error)
	ListUnread(context.Context, *ListUnreadRequest) (*ListUnreadResponse, error)
	CountUnread(context.Context, *CountUnreadRequest) (*CountUnreadResponse, error)
}

func srv(s any) MessagingServiceServer { return s.(MessagingServiceServer) }

var MessagingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MessagingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		codec.Unary(ServiceName, "SendMessage", func(s any, ctx context.Context, in *SendMessageRequest) (*SendMessageResponse, error) {
			return srv(s).SendMessage(ctx, in)
		}),
		codec.Unary(ServiceName, "GetConversation", func(s any, ctx context.Context, in *GetConversationRequest) (*GetConversationResponse, error) {
			return srv(s).GetConversation(ctx, in)
		}),
		codec.Unary(ServiceName, "UnlockMessage", func(s any, ctx context.Context, in *UnlockMessageRequest) (*UnlockMessageResponse, error) {
			return srv(s).UnlockMessage(ctx, in)
		}),
		codec.Unary(ServiceName, "ReadMessage", func(s any, ctx context.Context, in *ReadMessageRequest) (*ReadMessageResponse, error) {
			return srv(s).ReadMessage(ctx, in)
		}),
		codec.Unary(ServiceName, "MarkMessageRead", func(s any, ctx context.Context, in *MarkMessageReadRequest) (*MarkMessageReadResponse, error) {
			return srv(s).MarkMessageRead(ctx, in)
		}),
		codec.Unary(ServiceName, "MarkConversationRead", func(s any, ctx context.Context, in *MarkConversationReadRequest) (*MarkConversationReadResponse, error) {
			return srv(s).MarkConversationRead(ctx, in)
		}),
		codec.Unary(ServiceName, "ListUnread", func(s any, ctx context.Context, in *ListUnreadRequest) (*ListUnreadResponse, error) {
			return srv(s).ListUnread(ctx, in)
		}),
		codec.Unary(ServiceName, "CountUnread", func(s any, ctx context.Context, in *CountUnreadRequest) (*CountUnreadResponse, error) {
			return srv(s).CountUnread(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "messaging/v1/messaging.go",
}

func RegisterMessagingServiceServer(s grpc.ServiceRegistrar, impl MessagingServiceServer) {
	s.RegisterService(&MessagingService_ServiceDesc, impl)
}

type MessagingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMessagingServiceClient(cc grpc.ClientConnInterface) *MessagingServiceClient {
	return &MessagingServiceClient{cc: cc}
}

func (c *MessagingServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	return codec.Invoke[SendMessageResponse](ctx, c.cc, ServiceName, "SendMessage", in, opts...)
}

func (c *MessagingServiceClient) GetConversation(ctx context.Context, in *GetConversationRequest, opts ...grpc.CallOption) (*GetConversationResponse, error) {
	return codec.Invoke[GetConversationResponse](ctx, c.cc, ServiceName, "GetConversation", in, opts...)
}

func (c *MessagingServiceClient) UnlockMessage(ctx context.Context, in *UnlockMessageRequest, opts ...grpc.CallOption) (*UnlockMessageResponse, error) {
	return codec.Invoke[UnlockMessageResponse](ctx, c.cc, ServiceName, "UnlockMessage", in, opts...)
}

func (c *MessagingServiceClient) ReadMessage(ctx context.Context, in *ReadMessageRequest, opts ...grpc.CallOption) (*ReadMessageResponse, error) {
	return codec.Invoke[ReadMessageResponse](ctx, c.cc, ServiceName, "ReadMessage", in, opts...)
}

func (c *MessagingServiceClient) MarkMessageRead(ctx context.Context, in *MarkMessageReadRequest, opts ...grpc.CallOption) (*MarkMessageReadResponse, error) {
	return codec.Invoke[MarkMessageReadResponse](ctx, c.cc, ServiceName, "MarkMessageRead", in, opts...)
}

func (c *MessagingServiceClient) MarkConversationRead(ctx context.Context, in *MarkConversationReadRequest, opts ...grpc.CallOption) (*MarkConversationReadResponse, error) {
	return codec.Invoke[MarkConversationReadResponse](ctx, c.cc, ServiceName, "MarkConversationRead", in, opts...)
}

func (c *MessagingServiceClient) ListUnread(ctx context.Context, in *ListUnreadRequest, opts ...grpc.CallOption) (*ListUnreadResponse, error) {
	return codec.Invoke[ListUnreadResponse](ctx, c.cc, ServiceName, "ListUnread", in, opts...)
}

func (c *MessagingServiceClient) CountUnread(ctx context.Context, in *CountUnreadRequest, opts ...grpc.CallOption) (*CountUnreadResponse, error) {
	return codec.Invoke[CountUnreadResponse](ctx, c.cc, ServiceName, "CountUnread", in, opts...)
}
