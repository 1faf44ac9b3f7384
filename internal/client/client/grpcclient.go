package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.NotesServiceClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationHeaderName)
	if token != "" {
		md.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.tokens()

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	s.setTokens(resp.GetAccessToken(), resp.GetRefreshToken())

	return invoker(withAccessToken(ctx, resp.GetAccessToken()), method, req, reply, cc, opts...)
}

// NewGophNotesClient dials endpointURL lazily; no network traffic happens
// until the first call.
func NewGophNotesClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewNotesServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.GetStatus() != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Register(ctx context.Context, userName string, salt []byte, verifier []byte) error {
	req := &pb.RegisterUserRequest{Username: userName, Salt: salt, Verifier: verifier}

	if _, err := s.client.RegisterUser(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) GetSalt(ctx context.Context, userName string) ([]byte, error) {
	resp, err := s.client.GetSalt(ctx, &pb.GetSaltRequest{Username: userName})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.GetSalt(), nil
}

func (s *GRPCClient) Login(ctx context.Context, userName string, verifier []byte) (string, error) {
	req := &pb.LoginRequest{Username: userName, VerifierCandidate: verifier}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}

	s.setTokens(resp.GetAccessToken(), resp.GetRefreshToken())
	return resp.UserId, nil
}

func (s *GRPCClient) CheckAccess(ctx context.Context) (string, error) {
	resp, err := s.client.CheckAccess(ctx, &pb.CheckAccessRequest{})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.GetUserId(), nil
}

func (s *GRPCClient) PutNote(ctx context.Context, collection string, note models.Note) error {
	req := &pb.PutNoteRequest{Collection: collection, Note: noteToProto(note)}
	if _, err := s.client.PutNote(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) DeleteNote(ctx context.Context, id string) error {
	if _, err := s.client.DeleteNote(ctx, &pb.DeleteNoteRequest{Id: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ClearCollection(ctx context.Context, collection string) error {
	if _, err := s.client.ClearCollection(ctx, &pb.ClearCollectionRequest{Collection: collection}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ReorderNotes(ctx context.Context, collection string, ids []string) error {
	if _, err := s.client.ReorderNotes(ctx, &pb.ReorderNotesRequest{Collection: collection, Ids: ids}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ListNotes(ctx context.Context, collection string) ([]models.Note, error) {
	resp, err := s.client.ListNotes(ctx, &pb.ListNotesRequest{Collection: collection})
	if err != nil {
		return nil, s.mapError(err)
	}

	notes := make([]models.Note, 0, len(resp.GetNotes()))
	for _, n := range resp.GetNotes() {
		notes = append(notes, noteFromProto(n))
	}
	return notes, nil
}

func (s *GRPCClient) ExportNotes(ctx context.Context) (string, error) {
	resp, err := s.client.ExportNotes(ctx, &pb.ExportNotesRequest{})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.GetUrl(), nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrPermissionDenied
	case codes.ResourceExhausted:
		// Transport limits such as an oversized message share the code with
		// the server's write quota; only the latter carries this message.
		if st.Message() == common.ErrQuotaExceeded.Error() {
			return ErrQuotaExceeded
		}
		return fmt.Errorf("%w: %s", ErrInvalidRequest, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
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
	return time.UnixMilli(ms)
}

func noteToProto(n models.Note) *pb.Note {
	out := &pb.Note{
		Id:        n.ID,
		Heading:   n.Heading,
		Text:      n.Text,
		OwnerId:   n.OwnerID,
		CreatedAt: toMillis(n.CreatedAt),
		UpdatedAt: toMillis(n.UpdatedAt),
	}
	if n.TrashedAt != nil {
		out.TrashedAt = toMillis(*n.TrashedAt)
	}
	if n.Lock != nil {
		out.LockSalt = n.Lock.Salt
		out.LockVerifier = n.Lock.Verifier
		out.Sealed = n.Lock.Sealed
		out.Nonce = n.Lock.Nonce
	}
	return out
}

func noteFromProto(n *pb.Note) models.Note {
	out := models.Note{
		ID:        n.Id,
		Heading:   n.Heading,
		Text:      n.Text,
		OwnerID:   n.OwnerId,
		CreatedAt: fromMillis(n.CreatedAt),
		UpdatedAt: fromMillis(n.UpdatedAt),
	}
	if n.TrashedAt != 0 {
		t := fromMillis(n.TrashedAt)
		out.TrashedAt = &t
	}
	if len(n.LockVerifier) > 0 {
		out.Lock = &models.Lock{
			Salt:     n.LockSalt,
			Verifier: n.LockVerifier,
			Sealed:   n.Sealed,
			Nonce:    n.Nonce,
		}
	}
	return out
}
