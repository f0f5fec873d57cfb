// Package server exposes the analyzer over gRPC. Messages are
// google.protobuf.Struct values carrying the same JSON shape the CLI prints,
// so the service needs no generated code.
package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "pdfanalyzer.v1.Analyzer"

// Full method names.
const (
	MethodAnalyzeText = "/" + ServiceName + "/AnalyzeText"
	MethodAnalyzeFile = "/" + ServiceName + "/AnalyzeFile"
	MethodClassify    = "/" + ServiceName + "/Classify"
	MethodGetResult   = "/" + ServiceName + "/GetResult"
	MethodListResults = "/" + ServiceName + "/ListResults"
)

// AnalyzerServer is the server API for the pdfanalyzer.v1.Analyzer service.
//
//	AnalyzeText({path, text})              -> result
//	AnalyzeFile({path})                    -> result
//	Classify({text})                       -> {top_class, confidence, probabilities}
//	GetResult({id})                        -> result
//	ListResults({limit, top_class, run_id}) -> {results: [result]}
type AnalyzerServer interface {
	AnalyzeText(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AnalyzeFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Classify(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetResult(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListResults(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(AnalyzerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AnalyzerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AnalyzerServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnalyzerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("AnalyzeText", AnalyzerServer.AnalyzeText),
		unary("AnalyzeFile", AnalyzerServer.AnalyzeFile),
		unary("Classify", AnalyzerServer.Classify),
		unary("GetResult", AnalyzerServer.GetResult),
		unary("ListResults", AnalyzerServer.ListResults),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pdfanalyzer/v1/analyzer.proto",
}

// RegisterAnalyzerServer registers srv on s.
func RegisterAnalyzerServer(s grpc.ServiceRegistrar, srv AnalyzerServer) {
	s.RegisterService(&ServiceDesc, srv)
}
