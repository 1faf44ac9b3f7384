package grpc

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	grpclogging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// publicMethods are served without an access token.
var publicMethods = map[string]struct{}{
	pb.FullMethod(pb.MethodPing):         {},
	pb.FullMethod(pb.MethodRegisterUser): {},
	pb.FullMethod(pb.MethodGetSalt):      {},
	pb.FullMethod(pb.MethodLogin):        {},
	pb.FullMethod(pb.MethodRefreshToken): {},
}

func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	_, public := publicMethods[c.FullMethod()]
	return !public
}

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", status.Error(codes.Unauthenticated, "missing user")
	}
	return userID, nil
}

// interceptorLogger adapts logging.Logger to the middleware logger.
func interceptorLogger(l logging.Logger) grpclogging.Logger {
	return grpclogging.LoggerFunc(func(ctx context.Context, lvl grpclogging.Level, msg string, fields ...any) {
		switch lvl {
		case grpclogging.LevelError:
			l.Error(ctx, msg, fields...)
		case grpclogging.LevelWarn:
			l.Warn(ctx, msg, fields...)
		default:
			l.Info(ctx, msg, fields...)
		}
	})
}

// authenticate reads the bearer token and stores its owner in the context.
// Expired tokens carry the common.ErrTokenExpired message, which clients use
// as the signal to refresh.
func (s *GRPCServer) authenticate(ctx context.Context) (context.Context, error) {
	token, err := grpcauth.AuthFromMD(ctx, common.BearerScheme)
	if err != nil {
		return nil, err
	}

	userID, err := s.users.UserIDFromAccessToken(token)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	return withUserID(ctx, userID), nil
}

func (s *GRPCServer) recoverPanic(ctx context.Context, p any) error {
	s.logger.Error(ctx, "panic while handling request", "panic", p, "stack", string(debug.Stack()))
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

func (s *GRPCServer) interceptors() []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{
		grpclogging.UnaryServerInterceptor(interceptorLogger(s.logger),
			grpclogging.WithLogOnEvents(grpclogging.FinishCall)),
		recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(s.recoverPanic)),
		selector.UnaryServerInterceptor(grpcauth.UnaryServerInterceptor(s.authenticate),
			selector.MatchFunc(requiresAuth)),
	}
}
