package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Config describes an S3 (or S3 compatible) bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS, set for MinIO and friends
	Prefix    string // key prefix inside the bucket
	AccessKey string
	SecretKey string
	// PublicBaseURL overrides the generated public URL host, e.g. a CDN.
	PublicBaseURL string
	// SSEEncryption is passed as ServerSideEncryption on upload when set.
	SSEEncryption string
}

// S3Bucket stores objects in S3.
type S3Bucket struct {
	cfg      S3Config
	client   s3iface.S3API
	uploader *s3manager.Uploader
}

// NewS3Bucket builds a session from cfg. Static credentials are used when
// AccessKey is set, otherwise the default AWS credential chain applies.
func NewS3Bucket(cfg S3Config) (*S3Bucket, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3 bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	if cfg.AccessKey != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""))
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	client := s3.New(sess)
	return NewS3BucketWithClient(cfg, client), nil
}

// NewS3BucketWithClient wraps an existing client.
func NewS3BucketWithClient(cfg S3Config, client s3iface.S3API) *S3Bucket {
	return &S3Bucket{
		cfg:      cfg,
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
	}
}

func (b *S3Bucket) remoteKey(key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	prefix := strings.Trim(b.cfg.Prefix, "/")
	if prefix == "" {
		return clean, nil
	}
	return prefix + "/" + clean, nil
}

// Put uploads body. S3 has no create-only write, so the key is checked with
// HEAD first.
func (b *S3Bucket) Put(ctx context.Context, key string, body io.Reader, _ int64, contentType string) error {
	remote, err := b.remoteKey(key)
	if err != nil {
		return err
	}
	exists, err := b.Exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return ErrObjectExists
	}

	input := s3manager.UploadInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(remote),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if b.cfg.SSEEncryption != "" {
		input.ServerSideEncryption = aws.String(b.cfg.SSEEncryption)
	}
	_, err = b.uploader.UploadWithContext(ctx, &input)
	return err
}

// Open streams the object body.
func (b *S3Bucket) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	remote, err := b.remoteKey(key)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(remote),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return resp.Body, nil
}

// Exists issues a HEAD request for key.
func (b *S3Bucket) Exists(ctx context.Context, key string) (bool, error) {
	remote, err := b.remoteKey(key)
	if err != nil {
		return false, err
	}
	_, err = b.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(remote),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// Delete removes the object. S3 treats deleting a missing key as success.
func (b *S3Bucket) Delete(ctx context.Context, key string) error {
	remote, err := b.remoteKey(key)
	if err != nil {
		return err
	}
	_, err = b.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(remote),
	})
	return err
}

// PublicURL returns the virtual-hosted URL of key, or PublicBaseURL/key.
func (b *S3Bucket) PublicURL(key string) string {
	remote, err := b.remoteKey(key)
	if err != nil {
		remote = strings.TrimLeft(key, "/")
	}
	if b.cfg.PublicBaseURL != "" {
		return strings.TrimRight(b.cfg.PublicBaseURL, "/") + "/" + escapeKey(remote)
	}
	if b.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(b.cfg.Endpoint, "/"), b.cfg.Bucket, escapeKey(remote))
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.cfg.Bucket, b.cfg.Region, escapeKey(remote))
}

// SignedURL presigns a GET request for key.
func (b *S3Bucket) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	remote, err := b.remoteKey(key)
	if err != nil {
		return "", err
	}
	req, _ := b.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(remote),
	})
	req.SetContext(ctx)
	return req.Presign(ttl)
}

func isNotFound(err error) bool {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) && reqErr.StatusCode() == http.StatusNotFound {
		return true
	}
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}
