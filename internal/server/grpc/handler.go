package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC statuses. Unknown errors are logged
// and reported as Internal without details.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorUnknownCollection), errors.Is(err, common.ErrorEmptyNoteID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrQuotaExceeded):
		return status.Error(codes.ResourceExhausted, common.ErrQuotaExceeded.Error())
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *pb.RegisterUserRequest) (*pb.RegisterUserResponse, error) {
	if req.Username == "" || len(req.Salt) == 0 || len(req.Verifier) == 0 {
		return nil, status.Error(codes.InvalidArgument, "username, salt and verifier are required")
	}

	u, err := s.users.Register(ctx, req.Username, req.Salt, req.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	return &pb.RegisterUserResponse{UserId: u.ID}, nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *pb.GetSaltRequest) (*pb.GetSaltResponse, error) {
	salt, err := s.users.GetSalt(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.GetSaltResponse{Salt: salt}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	pair, err := s.users.Login(ctx, req.Username, req.VerifierCandidate)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserId:       pair.UserID,
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.RefreshTokenResponse, error) {
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.RefreshTokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) CheckAccess(ctx context.Context, req *pb.CheckAccessRequest) (*pb.CheckAccessResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return &pb.CheckAccessResponse{UserId: userID}, nil
}

func (s *GRPCServer) PutNote(ctx context.Context, req *pb.PutNoteRequest) (*pb.PutNoteResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.Note == nil {
		return nil, status.Error(codes.InvalidArgument, "note is required")
	}

	note := noteFromProto(req.Note)
	if err := s.notes.Put(ctx, userID, req.Collection, note); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.PutNoteResponse{UpdatedAt: toMillis(note.UpdatedAt)}, nil
}

func (s *GRPCServer) DeleteNote(ctx context.Context, req *pb.DeleteNoteRequest) (*pb.DeleteNoteResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Delete(ctx, userID, req.Id); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.DeleteNoteResponse{}, nil
}

func (s *GRPCServer) ClearCollection(ctx context.Context, req *pb.ClearCollectionRequest) (*pb.ClearCollectionResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.notes.Clear(ctx, userID, req.Collection)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.ClearCollectionResponse{Deleted: n}, nil
}

func (s *GRPCServer) ReorderNotes(ctx context.Context, req *pb.ReorderNotesRequest) (*pb.ReorderNotesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Reorder(ctx, userID, req.Collection, req.Ids); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.ReorderNotesResponse{}, nil
}

func (s *GRPCServer) ListNotes(ctx context.Context, req *pb.ListNotesRequest) (*pb.ListNotesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.List(ctx, userID, req.Collection)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]*pb.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteToProto(n))
	}
	return &pb.ListNotesResponse{Notes: out}, nil
}

func (s *GRPCServer) ExportNotes(ctx context.Context, req *pb.ExportNotesRequest) (*pb.ExportNotesResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	key, url, err := s.exports.Export(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "Exported notes", "user_id", userID, "key", key)
	return &pb.ExportNotesResponse{Key: key, Url: url}, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// noteFromProto ignores OwnerId; the owner always comes from the token.
func noteFromProto(n *pb.Note) *models.Note {
	out := &models.Note{
		ID:        n.Id,
		Heading:   n.Heading,
		Body:      n.Text,
		CreatedAt: fromMillis(n.CreatedAt),
	}
	if n.TrashedAt != 0 {
		t := fromMillis(n.TrashedAt)
		out.TrashedAt = &t
	}
	if len(n.LockVerifier) > 0 {
		out.LockSalt = n.LockSalt
		out.LockVerifier = n.LockVerifier
		out.LockSealed = n.Sealed
		out.LockNonce = n.Nonce
	}
	return out
}

func noteToProto(n *models.Note) *pb.Note {
	out := &pb.Note{
		Id:        n.ID,
		Heading:   n.Heading,
		Text:      n.Body,
		OwnerId:   n.UserID,
		CreatedAt: toMillis(n.CreatedAt),
		UpdatedAt: toMillis(n.UpdatedAt),
	}
	if n.TrashedAt != nil {
		out.TrashedAt = toMillis(*n.TrashedAt)
	}
	if n.Locked() {
		out.LockSalt = n.LockSalt
		out.LockVerifier = n.LockVerifier
		out.Sealed = n.LockSealed
		out.Nonce = n.LockNonce
	}
	return out
}
