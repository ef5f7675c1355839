package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "rpgfeatures.api.v1alpha1.FeatureService"

// Full method names
const (
	FeatureService_LookupFeature_FullMethodName         = "/" + ServiceName + "/LookupFeature"
	FeatureService_GetFeatureDescription_FullMethodName = "/" + ServiceName + "/GetFeatureDescription"
	FeatureService_FormatFeaturesForPDF_FullMethodName  = "/" + ServiceName + "/FormatFeaturesForPDF"
	FeatureService_RollAbilityScores_FullMethodName     = "/" + ServiceName + "/RollAbilityScores"
)

// FeatureServiceServer is the server API. Requests and responses are
// google.protobuf.Struct messages; field names are documented on the handler.
type FeatureServiceServer interface {
	LookupFeature(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetFeatureDescription(context.Context, *structpb.Struct) (*structpb.Struct, error)
	FormatFeaturesForPDF(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RollAbilityScores(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterFeatureServiceServer registers srv on s
func RegisterFeatureServiceServer(s grpc.ServiceRegistrar, srv FeatureServiceServer) {
	s.RegisterService(&FeatureService_ServiceDesc, srv)
}

type unaryMethod func(FeatureServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FeatureServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(FeatureServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FeatureService_ServiceDesc is the grpc.ServiceDesc for FeatureService
var FeatureService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FeatureServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "LookupFeature",
			Handler:    unaryHandler(FeatureService_LookupFeature_FullMethodName, FeatureServiceServer.LookupFeature),
		},
		{
			MethodName: "GetFeatureDescription",
			Handler:    unaryHandler(FeatureService_GetFeatureDescription_FullMethodName, FeatureServiceServer.GetFeatureDescription),
		},
		{
			MethodName: "FormatFeaturesForPDF",
			Handler:    unaryHandler(FeatureService_FormatFeaturesForPDF_FullMethodName, FeatureServiceServer.FormatFeaturesForPDF),
		},
		{
			MethodName: "RollAbilityScores",
			Handler:    unaryHandler(FeatureService_RollAbilityScores_FullMethodName, FeatureServiceServer.RollAbilityScores),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpgfeatures/api/v1alpha1/feature_service.proto",
}

// FeatureServiceClient is the client API for FeatureService
type FeatureServiceClient interface {
	LookupFeature(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetFeatureDescription(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	FormatFeaturesForPDF(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RollAbilityScores(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type featureServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewFeatureServiceClient creates a raw client over cc
func NewFeatureServiceClient(cc grpc.ClientConnInterface) FeatureServiceClient {
	return &featureServiceClient{cc}
}

func (c *featureServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *featureServiceClient) LookupFeature(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeatureService_LookupFeature_FullMethodName, in, opts...)
}

func (c *featureServiceClient) GetFeatureDescription(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeatureService_GetFeatureDescription_FullMethodName, in, opts...)
}

func (c *featureServiceClient) FormatFeaturesForPDF(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeatureService_FormatFeaturesForPDF_FullMethodName, in, opts...)
}

func (c *featureServiceClient) RollAbilityScores(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeatureService_RollAbilityScores_FullMethodName, in, opts...)
}
