// Package grpc exposes the notes service over gRPC. Public methods cover
// health and account flows; everything else requires a bearer access token.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifierCandidate []byte) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	UserIDFromAccessToken(token string) (string, error)
}

type NotesService interface {
	Put(ctx context.Context, userID, collection string, note *models.Note) error
	Delete(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID, collection string) (int64, error)
	Reorder(ctx context.Context, userID, collection string, ids []string) error
	List(ctx context.Context, userID, collection string) ([]*models.Note, error)
}

type ExportService interface {
	Export(ctx context.Context, userID string) (key, url string, err error)
}

type GRPCServer struct {
	pb.UnimplementedNotesServiceServer
	address string
	users   UserService
	notes   NotesService
	exports ExportService
	logger  logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, us UserService, ns NotesService, es ExportService) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		notes:   ns,
		exports: es,
	}
}

// NewServer builds a grpc.Server with the middleware chain and the notes
// service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(s.interceptors()...)}, opts...)
	srv := grpc.NewServer(opts...)
	pb.RegisterNotesServiceServer(srv, s)
	return srv
}

// Run serves on the configured address until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
