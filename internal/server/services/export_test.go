package services

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/stretchr/testify/require"
)

func stubPutObject(t *testing.T, fn func(in *s3.PutObjectInput) error) {
	t.Helper()
	orig := putObject
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		if err := fn(in); err != nil {
			return nil, err
		}
		return &s3.PutObjectOutput{}, nil
	}
	t.Cleanup(func() { putObject = orig })
}

func newExportService(t *testing.T, nr *fakeNotesRepo) *ExportService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { _ = db.Close() })
	s := NewExportService(db, &fakeRepoManager{n: nr}, testConfig())
	s.now = func() time.Time { return fixedNow }
	return s
}

func exportNotes() *fakeNotesRepo {
	trashed := fixedNow.Add(-time.Hour)
	return &fakeNotesRepo{lists: map[string][]*models.Note{
		common.CollectionActive: {
			{UserID: "u1", ID: "a", Heading: "First", Body: "hello", CreatedAt: fixedNow},
		},
		common.CollectionTrashed: {
			{UserID: "u1", ID: "t", Heading: "Secret", CreatedAt: fixedNow, TrashedAt: &trashed,
				LockSalt: []byte("s"), LockVerifier: []byte("v"), LockSealed: []byte("x"), LockNonce: []byte("n")},
		},
	}}
}

func TestExport_UploadsSnapshotAndPresigns(t *testing.T) {
	var uploaded *s3.PutObjectInput
	var body []byte
	stubPutObject(t, func(in *s3.PutObjectInput) error {
		uploaded = in
		var err error
		body, err = io.ReadAll(in.Body)
		return err
	})

	s := newExportService(t, exportNotes())

	key, rawURL, err := s.Export(context.Background(), "u1")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(key, "exports/u1/2025/03/01/"), key)
	require.True(t, strings.HasSuffix(key, ".json"), key)
	require.Equal(t, "notes", aws.ToString(uploaded.Bucket))
	require.Equal(t, key, aws.ToString(uploaded.Key))
	require.Equal(t, "application/json", aws.ToString(uploaded.ContentType))

	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	require.Equal(t, fixedNow, snap.ExportedAt)
	require.Len(t, snap.Active, 1)
	require.Equal(t, "hello", snap.Active[0].Text)
	require.Nil(t, snap.Active[0].Lock)
	require.Empty(t, snap.Archived)
	require.NotNil(t, snap.Archived, "empty collections are exported as []")
	require.Len(t, snap.Trashed, 1)
	require.NotNil(t, snap.Trashed[0].Lock)
	require.Empty(t, snap.Trashed[0].Text)

	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", u.Host)
	require.Equal(t, "/notes/"+key, u.Path)
	require.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}

func TestExport_ListError(t *testing.T) {
	stubPutObject(t, func(*s3.PutObjectInput) error {
		t.Fatal("nothing must be uploaded")
		return nil
	})

	s := newExportService(t, &fakeNotesRepo{listErr: errBoom{}})

	_, _, err := s.Export(context.Background(), "u1")
	require.ErrorContains(t, err, "error reading active notes: boom")
}

func TestExport_UploadError(t *testing.T) {
	stubPutObject(t, func(*s3.PutObjectInput) error { return errBoom{} })

	s := newExportService(t, exportNotes())

	_, _, err := s.Export(context.Background(), "u1")
	require.ErrorContains(t, err, "error uploading snapshot: boom")
}

func TestExport_PresignError(t *testing.T) {
	stubPutObject(t, func(*s3.PutObjectInput) error { return nil })

	orig := presignGetObject
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errBoom{}
	}
	defer func() { presignGetObject = orig }()

	s := newExportService(t, exportNotes())

	_, _, err := s.Export(context.Background(), "u1")
	require.ErrorContains(t, err, "error presigning snapshot: boom")
}

func TestExport_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errBoom{}
	}
	defer func() { loadDefaultAWSConfig = orig }()

	s := newExportService(t, exportNotes())

	_, _, err := s.Export(context.Background(), "u1")
	require.ErrorContains(t, err, "error loading s3 config: boom")
}
