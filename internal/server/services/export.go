package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportService uploads JSON snapshots of an owner's notes to S3-compatible
// storage and hands out presigned download links.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	now         func() time.Time
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ExportService {
	return &ExportService{db: db, repomanager: m, config: cfg, now: time.Now}
}

// ExportKey names the object holding a snapshot of userID taken at t.
func ExportKey(userID string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%v.json", userID, t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *ExportService) s3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("error loading s3 config: %w", err)
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Snapshot reads the three collections of userID.
func (s *ExportService) Snapshot(ctx context.Context, userID string) (*models.Snapshot, error) {
	repo := s.repomanager.Notes(s.db)
	snap := &models.Snapshot{ExportedAt: s.now().UTC()}

	for _, name := range common.Collections {
		notes, err := repo.List(ctx, userID, name)
		if err != nil {
			return nil, fmt.Errorf("error reading %s notes: %w", name, err)
		}
		out := make([]models.ExportNote, 0, len(notes))
		for _, n := range notes {
			out = append(out, n.ToExport())
		}
		switch name {
		case common.CollectionActive:
			snap.Active = out
		case common.CollectionArchived:
			snap.Archived = out
		case common.CollectionTrashed:
			snap.Trashed = out
		}
	}
	return snap, nil
}

// Export uploads a snapshot of userID and returns its object key and a GET
// URL valid for the configured expiry.
func (s *ExportService) Export(ctx context.Context, userID string) (string, string, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return "", "", err
	}

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("error encoding snapshot: %w", err)
	}

	client, err := s.s3Client(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := ExportKey(userID, snap.ExportedAt)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", "", fmt.Errorf("error uploading snapshot: %w", err)
	}

	req, err := presignGetObject(s3.NewPresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.ExportURLExpiry))
	if err != nil {
		return "", "", fmt.Errorf("error presigning snapshot: %w", err)
	}

	return key, req.URL, nil
}
