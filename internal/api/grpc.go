package api

import (
	"context"
	"errors"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	"github.com/heysubinoy/pyaztext/internal/usertext"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCServer implements TextServiceServer.
// It wraps a usertext.Store and exposes it over gRPC.
type GRPCServer struct {
	Store  *usertext.Store
	Logger hclog.Logger
}

var _ TextServiceServer = (*GRPCServer)(nil)

// NewGRPCServer creates a new gRPC server with the given store.
func NewGRPCServer(store *usertext.Store, logger hclog.Logger) *GRPCServer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &GRPCServer{
		Store:  store,
		Logger: logger.Named("grpc"),
	}
}

// Get retrieves a value by key. Request: {key}. Response: {value, found}.
func (s *GRPCServer) Get(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if !HasField(req, "key") {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}

	value, found := s.Store.Get(StringField(req, "key"))
	return respond(map[string]any{
		"value": value,
		"found": found,
	})
}

// List returns every key, value and section.
func (s *GRPCServer) List(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	keys, values, sections := s.Store.ListAll()
	return respond(map[string]any{
		"keys":     StringList(keys),
		"values":   StringList(values),
		"sections": StringList(sections),
	})
}

// GetBySection runs a section query. Request: {section, entries}.
func (s *GRPCServer) GetBySection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	section, entries := StringField(req, "section"), ListField(req, "entries")
	rows := s.Store.GetBySection(section, entries)

	resp := newSectionResponse(section, entries, rows)
	return respond(map[string]any{
		"mode":    resp.Mode,
		"summary": resp.Summary,
		"keys":    StringList(resp.Keys),
		"entries": StringList(resp.Entries),
		"values":  StringList(resp.Values),
	})
}

// Set upserts pairs. Request: {keys, values, fire}.
func (s *GRPCServer) Set(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.run(usertext.SetKeys{
		Keys:   ListField(req, "keys"),
		Values: ListField(req, "values"),
	}, BoolField(req, "fire"))
}

// SetSection upserts entries of one section. Request: {section, entries, values, fire}.
func (s *GRPCServer) SetSection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.run(usertext.SetSection{
		Section: StringField(req, "section"),
		Entries: ListField(req, "entries"),
		Values:  ListField(req, "values"),
	}, BoolField(req, "fire"))
}

// Delete removes keys. Request: {keys, fire}.
func (s *GRPCServer) Delete(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.run(usertext.DeleteKeys{Keys: ListField(req, "keys")}, BoolField(req, "fire"))
}

// DeleteSection removes section entries. Request: {section, entries, fire}.
func (s *GRPCServer) DeleteSection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.run(usertext.DeleteSection{
		Section: StringField(req, "section"),
		Entries: ListField(req, "entries"),
	}, BoolField(req, "fire"))
}

// Export returns {text, count}.
func (s *GRPCServer) Export(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return respond(map[string]any{
		"text":  s.Store.Export(),
		"count": s.Store.Len(),
	})
}

// Import imports export text. Request: {text, fire}.
func (s *GRPCServer) Import(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.run(usertext.ImportText{Text: StringField(req, "text")}, BoolField(req, "fire"))
}

func (s *GRPCServer) run(a usertext.Action, fire bool) (*structpb.Struct, error) {
	res, err := usertext.Run(s.Store, a, fire)
	if err != nil {
		s.Logger.Error("action failed", "action", a.Name(), "fire", fire, "error", err)
		return nil, status.Error(grpcCode(err), err.Error())
	}
	return respond(map[string]any{
		"summary":  res.Summary,
		"affected": res.Affected,
		"failed":   StringList(res.Failed),
		"fired":    res.Fired,
	})
}

func grpcCode(err error) codes.Code {
	switch {
	case errors.Is(err, usertext.ErrArityMismatch):
		return codes.InvalidArgument
	case errors.Is(err, raft.ErrNotLeader), errors.Is(err, raft.ErrLeadershipLost):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// respond builds a response message. protobuf strings must be valid UTF-8,
// so invalid byte sequences in stored text are replaced with U+FFFD here
// rather than failing the whole call.
func respond(fields map[string]any) (*structpb.Struct, error) {
	for name, v := range fields {
		fields[name] = validUTF8(v)
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return out, nil
}

func validUTF8(v any) any {
	switch v := v.(type) {
	case string:
		return strings.ToValidUTF8(v, "\uFFFD")
	case []any:
		for i := range v {
			v[i] = validUTF8(v[i])
		}
		return v
	default:
		return v
	}
}
