package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/dmitrijs2005/ark/internal/logging"
	"github.com/hashicorp/go-cleanhttp"
)

const defaultRegion = "us-east-1"

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Options configures an S3Store.
type Options struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	// Timeout bounds every call. Zero means no limit beyond the caller's
	// context.
	Timeout time.Duration
	// HTTPClient overrides the default client. It must stay buildable so
	// the SDK can apply AWS_CA_BUNDLE to its transport.
	HTTPClient *awshttp.BuildableClient
}

// S3Store implements ObjectStore over any S3-compatible API. Requests use
// path-style addressing and are never retried.
type S3Store struct {
	client  *s3.Client
	bucket  string
	region  string
	timeout time.Duration
	log     logging.Logger
}

var _ ObjectStore = (*S3Store)(nil)

// NewS3Store builds the client with static credentials.
func NewS3Store(ctx context.Context, opts Options, log logging.Logger) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("bucket is required")
	}
	region := opts.Region
	if region == "" {
		region = defaultRegion
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = awshttp.NewBuildableClient().WithTransportOptions(pooledTransport)
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(region),
		config.WithHTTPClient(httpClient),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
		o.UsePathStyle = true
		o.RetryMaxAttempts = 1
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &S3Store{
		client:  client,
		bucket:  opts.Bucket,
		region:  region,
		timeout: opts.Timeout,
		log:     log.With("module", "storage", "bucket", opts.Bucket),
	}, nil
}

// pooledTransport sizes the SDK transport like go-cleanhttp's pooled
// transport. TLS settings are left to the SDK.
func pooledTransport(tr *http.Transport) {
	pooled := cleanhttp.DefaultPooledTransport()
	tr.MaxIdleConns = pooled.MaxIdleConns
	tr.MaxIdleConnsPerHost = pooled.MaxIdleConnsPerHost
	tr.IdleConnTimeout = pooled.IdleConnTimeout
	tr.TLSHandshakeTimeout = pooled.TLSHandshakeTimeout
	tr.ExpectContinueTimeout = pooled.ExpectContinueTimeout
}

func (s *S3Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *S3Store) CreateBucket(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	in := &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}
	if s.region != defaultRegion {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, in); err != nil {
		return classify(err, "create bucket "+s.bucket)
	}
	s.log.Info(ctx, "bucket created")
	return nil
}

func (s *S3Store) BucketExists(ctx context.Context) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return true, nil
	}
	err = classify(err, "head bucket "+s.bucket)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	return false, err
}

// EnsureBucket creates the bucket unless it already exists.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	ok, err := s.BucketExists(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return s.CreateBucket(ctx)
}

func (s *S3Store) ListBuckets(ctx context.Context) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, classify(err, "list buckets")
	}
	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	return names, nil
}

func (s *S3Store) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if contentType == "" {
		contentType = common.DefaultMimetype
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return classify(err, "put object "+key)
	}
	s.log.Debug(ctx, "object stored", "key", key, "size", len(body))
	return nil
}

// GetObject keeps the call deadline running until the body is closed.
func (s *S3Store) GetObject(ctx context.Context, key string) (*Object, error) {
	ctx, cancel := s.withTimeout(ctx)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		cancel()
		return nil, classify(err, "get object "+key)
	}

	return &Object{
		Body:        &cancelOnClose{ReadCloser: out.Body, cancel: cancel},
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
	}, nil
}

// GetObjectAttributes reads the object headers with HeadObject, which every
// S3-compatible backend implements.
func (s *S3Store) GetObjectAttributes(ctx context.Context, key string) (*ObjectAttributes, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classify(err, "head object "+key)
	}

	return &ObjectAttributes{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		ETag:         aws.ToString(out.ETag),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

var notFoundCodes = map[string]struct{}{
	"NoSuchKey":    {},
	"NoSuchBucket": {},
	"NotFound":     {},
}

// classify wraps err with common.ErrorNotFound for missing buckets and keys
// and with common.ErrorUpstream for everything else.
func classify(err error, op string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if _, ok := notFoundCodes[apiErr.ErrorCode()]; ok {
			return fmt.Errorf("%w: %s: %w", common.ErrorNotFound, op, err)
		}
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %s: %w", common.ErrorNotFound, op, err)
	}
	return fmt.Errorf("%w: %s: %w", common.ErrorUpstream, op, err)
}
