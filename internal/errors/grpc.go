package errors

import (
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToGRPCError converts err into a gRPC status. Meta travels as a
// google.protobuf.Struct detail; values structpb cannot hold are dropped with it.
// Errors that already carry a status pass through.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	e, ok := asError(err)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}

	st := status.New(e.Code.GRPCCode(), e.Message)
	if len(e.Meta) == 0 {
		return st.Err()
	}
	detail, detailErr := metaStruct(e.Meta)
	if detailErr != nil {
		return st.Err()
	}
	if withDetail, detailErr := st.WithDetails(detail); detailErr == nil {
		return withDetail.Err()
	}
	return st.Err()
}

// FromGRPCError restores an Error from a status, including its Struct meta.
// Non-status errors are returned unchanged.
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	e := New(codeFromGRPC(st.Code()), st.Message())
	for _, detail := range st.Details() {
		if meta, ok := detail.(*structpb.Struct); ok {
			e.Meta = meta.AsMap()
			break
		}
	}
	return e
}

// metaStruct goes through JSON so typed values like map[string][]string reach
// structpb in its generic shapes
func metaStruct(meta map[string]interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return structpb.NewStruct(generic)
}
