package proto

import (
	"context"

	"google.golang.org/grpc"
)

// NotesServiceClient is the client API for the notes service.
type NotesServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error)
	GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	CheckAccess(ctx context.Context, in *CheckAccessRequest, opts ...grpc.CallOption) (*CheckAccessResponse, error)
	PutNote(ctx context.Context, in *PutNoteRequest, opts ...grpc.CallOption) (*PutNoteResponse, error)
	DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error)
	ClearCollection(ctx context.Context, in *ClearCollectionRequest, opts ...grpc.CallOption) (*ClearCollectionResponse, error)
	ReorderNotes(ctx context.Context, in *ReorderNotesRequest, opts ...grpc.CallOption) (*ReorderNotesResponse, error)
	ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error)
	ExportNotes(ctx context.Context, in *ExportNotesRequest, opts ...grpc.CallOption) (*ExportNotesResponse, error)
}

type notesServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewNotesServiceClient wraps cc. Every call is sent with the gophnotes
// content-subtype so the registered codec is used on both ends.
func NewNotesServiceClient(cc grpc.ClientConnInterface) NotesServiceClient {
	return &notesServiceClient{cc: cc}
}

func (c *notesServiceClient) invoke(ctx context.Context, method string, in, out Message, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, FullMethod(method), in, out, opts...)
}

func (c *notesServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	if err := c.invoke(ctx, MethodPing, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error) {
	out := new(RegisterUserResponse)
	if err := c.invoke(ctx, MethodRegisterUser, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error) {
	out := new(GetSaltResponse)
	if err := c.invoke(ctx, MethodGetSalt, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	out := new(LoginResponse)
	if err := c.invoke(ctx, MethodLogin, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	out := new(RefreshTokenResponse)
	if err := c.invoke(ctx, MethodRefreshToken, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) CheckAccess(ctx context.Context, in *CheckAccessRequest, opts ...grpc.CallOption) (*CheckAccessResponse, error) {
	out := new(CheckAccessResponse)
	if err := c.invoke(ctx, MethodCheckAccess, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) PutNote(ctx context.Context, in *PutNoteRequest, opts ...grpc.CallOption) (*PutNoteResponse, error) {
	out := new(PutNoteResponse)
	if err := c.invoke(ctx, MethodPutNote, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error) {
	out := new(DeleteNoteResponse)
	if err := c.invoke(ctx, MethodDeleteNote, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) ClearCollection(ctx context.Context, in *ClearCollectionRequest, opts ...grpc.CallOption) (*ClearCollectionResponse, error) {
	out := new(ClearCollectionResponse)
	if err := c.invoke(ctx, MethodClearCollection, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) ReorderNotes(ctx context.Context, in *ReorderNotesRequest, opts ...grpc.CallOption) (*ReorderNotesResponse, error) {
	out := new(ReorderNotesResponse)
	if err := c.invoke(ctx, MethodReorderNotes, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error) {
	out := new(ListNotesResponse)
	if err := c.invoke(ctx, MethodListNotes, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) ExportNotes(ctx context.Context, in *ExportNotesRequest, opts ...grpc.CallOption) (*ExportNotesResponse, error) {
	out := new(ExportNotesResponse)
	if err := c.invoke(ctx, MethodExportNotes, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
