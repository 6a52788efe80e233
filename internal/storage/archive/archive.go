// Package archive сохраняет выгрузки аналитических отчётов в S3-совместимое
// хранилище (MinIO) и выдаёт на них временные ссылки для скачивания.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/peptide-tracker/internal/config"
)

// ErrNotConfigured возвращается, если хранилище выгрузок не настроено.
var ErrNotConfigured = errors.New("archive storage is not configured")

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type getPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Object описывает сохранённую выгрузку.
type Object struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store загружает отчёты в бакет и подписывает ссылки на скачивание.
type Store struct {
	objects    objectPutter
	presigner  getPresigner
	bucket     string
	presignTTL time.Duration
	now        func() time.Time
}

// New создаёт клиента S3 по настройкам архива.
func New(ctx context.Context, cfg config.Archive) (*Store, error) {
	const op = "archive.New"

	if cfg.S3Bucket == "" || cfg.S3Endpoint == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &Store{
		objects:    client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.S3Bucket,
		presignTTL: ttl,
		now:        time.Now,
	}, nil
}

// StorageKey формирует ключ объекта для выгрузки пользователя.
func StorageKey(userID, fileName string, at time.Time) string {
	return fmt.Sprintf("reports/%s/%d/%02d/%02d/%s-%s",
		userID, at.Year(), at.Month(), at.Day(), uuid.NewString(), fileName)
}

// Put сохраняет отчёт и возвращает ключ объекта вместе с подписанной ссылкой.
func (s *Store) Put(ctx context.Context, userID, fileName, contentType string, body []byte) (*Object, error) {
	const op = "archive.Put"

	now := s.now()
	key := StorageKey(userID, fileName, now)
	_, err := s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	url, err := s.PresignGet(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Object{
		Key:       key,
		URL:       url,
		ExpiresAt: now.Add(s.presignTTL),
	}, nil
}

// PresignGet возвращает временную ссылку на скачивание объекта.
func (s *Store) PresignGet(ctx context.Context, key string) (string, error) {
	const op = "archive.PresignGet"

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return req.URL, nil
}
