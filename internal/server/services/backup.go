package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	sc "github.com/dmitrijs2005/passkeeper/internal/server/config"
	smodels "github.com/dmitrijs2005/passkeeper/internal/server/models"
	"github.com/dmitrijs2005/passkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// BackupFormatVersion is written into every snapshot document.
const BackupFormatVersion = 1

// ErrBackupDisabled is returned when no bucket is configured.
var ErrBackupDisabled = errors.New("backups are not configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// BackupService uploads JSON snapshots of a user's stored credentials to
// S3-compatible storage. Secrets are written in their stored form.
type BackupService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
	now         func() time.Time
}

func NewBackupService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *BackupService {
	return &BackupService{db: db, repomanager: m, config: cfg, logger: logger, now: time.Now}
}

// BackupStorageKey names the object for a snapshot taken at t.
func BackupStorageKey(userID string, t time.Time) string {
	return fmt.Sprintf("backups/%s/%d/%02d/%02d/%v.json", userID, t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *BackupService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Snapshot uploads the user's current rows and returns where they went.
// A failure to presign the download link is logged and leaves DownloadURL
// empty; the upload itself still counts.
func (s *BackupService) Snapshot(ctx context.Context, userID string) (*smodels.BackupInfo, error) {
	if !s.config.BackupsEnabled() {
		return nil, ErrBackupDisabled
	}

	rows, err := s.repomanager.Passwords(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := smodels.Backup{
		Version:     BackupFormatVersion,
		UserID:      userID,
		CreatedAt:   now,
		Credentials: make([]models.Credential, 0, len(rows)),
	}
	for _, r := range rows {
		doc.Credentials = append(doc.Credentials, *r)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("error encoding backup: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := BackupStorageKey(userID, now)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("error uploading backup: %w", err)
	}

	info := &smodels.BackupInfo{Key: key, Count: len(doc.Credentials), CreatedAt: now}

	url, err := s.presign(ctx, client, key)
	if err != nil {
		s.logger.Warn(ctx, "backup presign failed", "user_id", userID, "key", key, "error", err)
	} else {
		info.DownloadURL = url
	}

	s.logger.Info(ctx, "backup uploaded", "user_id", userID, "key", key, "count", info.Count)
	return info, nil
}

// PresignDownload returns a time-limited GET URL for an uploaded snapshot.
func (s *BackupService) PresignDownload(ctx context.Context, key string) (string, error) {
	if !s.config.BackupsEnabled() {
		return "", ErrBackupDisabled
	}
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}
	return s.presign(ctx, client, key)
}

func (s *BackupService) presign(ctx context.Context, client *s3.Client, key string) (string, error) {
	bucket := s.config.S3Bucket
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
