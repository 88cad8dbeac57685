// Package codec provides the JSON wire codec and descriptor helpers shared by
// the gRPC service definitions under internal/proto.
package codec

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// Name is the content-subtype clients select with grpc.CallContentSubtype.
const Name = "json"

// JSON marshals messages as JSON.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func (JSON) Name() string { return Name }

func init() {
	encoding.RegisterCodec(JSON{})
}

// CallOptions selects the JSON codec on a client call.
func CallOptions() []grpc.CallOption {
	return []grpc.CallOption{grpc.CallContentSubtype(Name)}
}

// Unary builds a grpc.MethodDesc for a handler with typed request/response.
// call receives the registered service implementation as srv.
func Unary[Req any, Resp any](
	serviceName, method string,
	call func(srv any, ctx context.Context, req *Req) (*Resp, error),
) grpc.MethodDesc {
	fullMethod := fmt.Sprintf("/%s/%s", serviceName, method)
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Invoke performs a unary call with the JSON codec.
func Invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, serviceName, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append(CallOptions(), opts...)
	if err := cc.Invoke(ctx, fmt.Sprintf("/%s/%s", serviceName, method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
