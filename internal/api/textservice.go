package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "pyaztext.TextService"

// Method names of TextService. Every method takes and returns a
// google.protobuf.Struct.
const (
	MethodGet           = "Get"
	MethodList          = "List"
	MethodGetBySection  = "GetBySection"
	MethodSet           = "Set"
	MethodSetSection    = "SetSection"
	MethodDelete        = "Delete"
	MethodDeleteSection = "DeleteSection"
	MethodExport        = "Export"
	MethodImport        = "Import"
)

// TextServiceServer is the server API for TextService.
type TextServiceServer interface {
	Get(context.Context, *structpb.Struct) (*structpb.Struct, error)
	List(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBySection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Set(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetSection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Delete(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Export(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Import(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(TextServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TextServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TextServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// TextServiceDesc describes TextService for grpc.Server.RegisterService.
var TextServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TextServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodGet, TextServiceServer.Get),
		unaryMethod(MethodList, TextServiceServer.List),
		unaryMethod(MethodGetBySection, TextServiceServer.GetBySection),
		unaryMethod(MethodSet, TextServiceServer.Set),
		unaryMethod(MethodSetSection, TextServiceServer.SetSection),
		unaryMethod(MethodDelete, TextServiceServer.Delete),
		unaryMethod(MethodDeleteSection, TextServiceServer.DeleteSection),
		unaryMethod(MethodExport, TextServiceServer.Export),
		unaryMethod(MethodImport, TextServiceServer.Import),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pyaztext/textservice",
}

// RegisterTextServiceServer registers srv on s.
func RegisterTextServiceServer(s grpc.ServiceRegistrar, srv TextServiceServer) {
	s.RegisterService(&TextServiceDesc, srv)
}

// TextServiceClient calls TextService over a client connection.
type TextServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewTextServiceClient wraps cc.
func NewTextServiceClient(cc grpc.ClientConnInterface) *TextServiceClient {
	return &TextServiceClient{cc: cc}
}

// Call invokes method with fields as the request message.
func (c *TextServiceClient) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// StringField returns a string field, or "" when absent.
func StringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

// BoolField returns a bool field, or false when absent.
func BoolField(s *structpb.Struct, name string) bool {
	return s.GetFields()[name].GetBoolValue()
}

// NumberField returns a numeric field as an int.
func NumberField(s *structpb.Struct, name string) int {
	return int(s.GetFields()[name].GetNumberValue())
}

// ListField returns a list of strings; non-string items read as "".
func ListField(s *structpb.Struct, name string) []string {
	values := s.GetFields()[name].GetListValue().GetValues()
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.GetStringValue())
	}
	return out
}

// HasField reports whether name is set on s.
func HasField(s *structpb.Struct, name string) bool {
	_, ok := s.GetFields()[name]
	return ok
}

// StringList converts a []string into a structpb-compatible list.
func StringList(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
