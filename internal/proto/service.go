package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophnotes.NotesService"

const (
	MethodPing            = "Ping"
	MethodRegisterUser    = "RegisterUser"
	MethodGetSalt         = "GetSalt"
	MethodLogin           = "Login"
	MethodRefreshToken    = "RefreshToken"
	MethodCheckAccess     = "CheckAccess"
	MethodPutNote         = "PutNote"
	MethodDeleteNote      = "DeleteNote"
	MethodClearCollection = "ClearCollection"
	MethodReorderNotes    = "ReorderNotes"
	MethodListNotes       = "ListNotes"
	MethodExportNotes     = "ExportNotes"
)

// FullMethod returns the "/service/method" path used by gRPC.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// NotesServiceServer is the server API for the notes service.
type NotesServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error)
	GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	CheckAccess(context.Context, *CheckAccessRequest) (*CheckAccessResponse, error)
	PutNote(context.Context, *PutNoteRequest) (*PutNoteResponse, error)
	DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error)
	ClearCollection(context.Context, *ClearCollectionRequest) (*ClearCollectionResponse, error)
	ReorderNotes(context.Context, *ReorderNotesRequest) (*ReorderNotesResponse, error)
	ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error)
	ExportNotes(context.Context, *ExportNotesRequest) (*ExportNotesResponse, error)
}

// UnimplementedNotesServiceServer answers every call with codes.Unimplemented.
// Embed it to stay forward compatible.
type UnimplementedNotesServiceServer struct{}

func (UnimplementedNotesServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedNotesServiceServer) RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterUser not implemented")
}
func (UnimplementedNotesServiceServer) GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSalt not implemented")
}
func (UnimplementedNotesServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedNotesServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedNotesServiceServer) CheckAccess(context.Context, *CheckAccessRequest) (*CheckAccessResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckAccess not implemented")
}
func (UnimplementedNotesServiceServer) PutNote(context.Context, *PutNoteRequest) (*PutNoteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PutNote not implemented")
}
func (UnimplementedNotesServiceServer) DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteNote not implemented")
}
func (UnimplementedNotesServiceServer) ClearCollection(context.Context, *ClearCollectionRequest) (*ClearCollectionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearCollection not implemented")
}
func (UnimplementedNotesServiceServer) ReorderNotes(context.Context, *ReorderNotesRequest) (*ReorderNotesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReorderNotes not implemented")
}
func (UnimplementedNotesServiceServer) ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListNotes not implemented")
}
func (UnimplementedNotesServiceServer) ExportNotes(context.Context, *ExportNotesRequest) (*ExportNotesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportNotes not implemented")
}

// RegisterNotesServiceServer attaches srv to a gRPC server.
func RegisterNotesServiceServer(s grpc.ServiceRegistrar, srv NotesServiceServer) {
	s.RegisterService(&NotesService_ServiceDesc, srv)
}

func unary[Req Message](name string, newReq func() Req, call func(NotesServiceServer, context.Context, Req) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(NotesServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(NotesServiceServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// NotesService_ServiceDesc describes the notes service for grpc.Server.
var NotesService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NotesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, func() *PingRequest { return &PingRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *PingRequest) (any, error) { return s.Ping(ctx, in) }),
		unary(MethodRegisterUser, func() *RegisterUserRequest { return &RegisterUserRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *RegisterUserRequest) (any, error) { return s.RegisterUser(ctx, in) }),
		unary(MethodGetSalt, func() *GetSaltRequest { return &GetSaltRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *GetSaltRequest) (any, error) { return s.GetSalt(ctx, in) }),
		unary(MethodLogin, func() *LoginRequest { return &LoginRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *LoginRequest) (any, error) { return s.Login(ctx, in) }),
		unary(MethodRefreshToken, func() *RefreshTokenRequest { return &RefreshTokenRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *RefreshTokenRequest) (any, error) { return s.RefreshToken(ctx, in) }),
		unary(MethodCheckAccess, func() *CheckAccessRequest { return &CheckAccessRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *CheckAccessRequest) (any, error) { return s.CheckAccess(ctx, in) }),
		unary(MethodPutNote, func() *PutNoteRequest { return &PutNoteRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *PutNoteRequest) (any, error) { return s.PutNote(ctx, in) }),
		unary(MethodDeleteNote, func() *DeleteNoteRequest { return &DeleteNoteRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *DeleteNoteRequest) (any, error) { return s.DeleteNote(ctx, in) }),
		unary(MethodClearCollection, func() *ClearCollectionRequest { return &ClearCollectionRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *ClearCollectionRequest) (any, error) {
				return s.ClearCollection(ctx, in)
			}),
		unary(MethodReorderNotes, func() *ReorderNotesRequest { return &ReorderNotesRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *ReorderNotesRequest) (any, error) { return s.ReorderNotes(ctx, in) }),
		unary(MethodListNotes, func() *ListNotesRequest { return &ListNotesRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *ListNotesRequest) (any, error) { return s.ListNotes(ctx, in) }),
		unary(MethodExportNotes, func() *ExportNotesRequest { return &ExportNotesRequest{} },
			func(s NotesServiceServer, ctx context.Context, in *ExportNotesRequest) (any, error) { return s.ExportNotes(ctx, in) }),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophnotes/notes.proto",
}
