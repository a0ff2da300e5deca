package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/nvollmar/sharefs/config"
	"github.com/nvollmar/sharefs/storage"
)

// S3Adapter implements the backends.Storage interface for S3-compatible
// object stores. Directories are modeled as zero-byte "key/" marker objects
// plus the implicit hierarchy of object keys.
type S3Adapter struct {
	client               *s3.S3
	bucketName           string
	serverSideEncryption string
	acl                  string
	kmsKeyID             string
	logger               *zap.Logger
}

// NewS3Adapter creates a new S3 storage adapter. With CreateBucket set the
// bucket is provisioned if absent; a bucket that already exists under the
// caller's ownership is not an error.
func NewS3Adapter(cfg config.BackendConfig, logger *zap.Logger) (*S3Adapter, error) {
	if cfg.S3BucketName == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.S3Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
	}

	// Custom endpoint for MinIO and friends
	if cfg.S3Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.S3Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		awsConfig.DisableSSL = aws.Bool(!cfg.S3EndpointTLS)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := s3.New(sess)

	if cfg.S3CreateBucket {
		_, err = client.CreateBucket(&s3.CreateBucketInput{
			Bucket: aws.String(cfg.S3BucketName),
		})
		if err != nil && !isBucketOwned(err) {
			return nil, fmt.Errorf("failed to create S3 bucket %s: %w", cfg.S3BucketName, err)
		}
	} else {
		_, err = client.HeadBucket(&s3.HeadBucketInput{
			Bucket: aws.String(cfg.S3BucketName),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access S3 bucket %s: %w", cfg.S3BucketName, err)
		}
	}

	return &S3Adapter{
		client:               client,
		bucketName:           cfg.S3BucketName,
		serverSideEncryption: cfg.S3ServerSideEncryption,
		acl:                  cfg.S3ACL,
		kmsKeyID:             cfg.S3KMSKeyID,
		logger:               logger,
	}, nil
}

// Close closes any resources used by the S3 adapter.
func (a *S3Adapter) Close() error {
	return nil
}

// pathToKey converts a canonical path to an S3 object key.
func (a *S3Adapter) pathToKey(path string) string {
	return strings.TrimPrefix(path, "/")
}

// keyToPath converts an S3 object key to a canonical path.
func (a *S3Adapter) keyToPath(key string) string {
	if key == "" {
		return "/"
	}
	return "/" + strings.TrimPrefix(key, "/")
}

// translate maps an S3 failure onto exactly one storage error kind. This is
// the single place backend-native error vocabulary is interpreted.
func translate(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return storage.Unavailable(op, path, err)
	}

	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return storage.NotFound(op, path)
		case request.CanceledErrorCode, request.ErrCodeRequestError,
			request.ErrCodeResponseTimeout, "RequestTimeout",
			"ServiceUnavailable", "SlowDown":
			return storage.Unavailable(op, path, err)
		}
	}

	return storage.Unknown(op, path, err)
}

// isNotFound reports whether a translated error carries the not-found kind.
func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

// isBucketOwned reports the tolerable create-bucket conflicts: the bucket
// already exists and is usable.
func isBucketOwned(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeBucketAlreadyOwnedByYou, s3.ErrCodeBucketAlreadyExists:
			return true
		}
	}
	return false
}
