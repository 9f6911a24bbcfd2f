package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"

	"github.com/audiomidi/ingest/internal/util"
)

// S3Store is the object sink, backed by any S3-compatible endpoint.
// MinIO deployments use path-style addressing, hence ForcePathStyle.
type S3Store struct {
	client s3iface.S3API
	bucket string
}

// S3Config holds object store connection settings.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewS3Store connects to the object store and ensures the bucket exists.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	sess, err := session.NewSession(&aws.Config{
		Endpoint:         aws.String(fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)),
		Region:           aws.String("us-east-1"),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(!cfg.UseSSL),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating object store session")
	}

	store := &S3Store{client: s3.New(sess), bucket: cfg.Bucket}
	if err := store.ensureBucket(); err != nil {
		return nil, err
	}
	return store, nil
}

// ensureBucket creates the configured bucket when it does not exist yet.
func (s *S3Store) ensureBucket() error {
	_, err := s.client.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		util.DebugLog("Bucket %s already exists", s.bucket)
		return nil
	}
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchBucket, "NotFound":
			if _, cerr := s.client.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); cerr != nil {
				return errors.Wrapf(cerr, "creating bucket %v", s.bucket)
			}
			util.DebugLog("Bucket created: %s", s.bucket)
			return nil
		}
	}
	return errors.Wrapf(err, "checking bucket %v", s.bucket)
}

// Put uploads data under key with idempotent overwrite semantics and
// returns the object URI.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Uploads survive transient endpoint hiccups; a replayed PUT of the
	// same key and body is harmless.
	err := util.Retry(ctx, util.StoreBackoff(), "put "+key, func() error {
		_, perr := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
			ContentType:   aws.String(contentType),
		})
		return perr
	})
	if err != nil {
		return "", fmt.Errorf("%w: putting object %s: %v", util.ErrStorage, key, err)
	}

	uri := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	util.DebugLog("Upload completed: uri=%s bytes=%d", uri, len(data))
	return uri, nil
}
