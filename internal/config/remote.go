package config

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/devconsole/liststate/internal/errors"
)

// S3Scheme prefixes config locations stored in an S3 bucket.
const S3Scheme = "s3://"

// maxRemoteSize caps the size of a remote config object.
const maxRemoteSize = 1 << 20

// ObjectGetter is the part of the S3 client used to fetch configuration.
// *s3.Client satisfies it.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// IsRemote reports whether location names an S3 object.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, S3Scheme)
}

// ParseS3Location splits "s3://bucket/key" into bucket and key.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, S3Scheme)
	if ok {
		bucket, key, ok = strings.Cut(rest, "/")
	}
	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", errors.New("E122").
			WithDetail("Invalid S3 config location " + location).
			WithSuggestion("Use s3://<bucket>/<key>.json")
	}
	return bucket, key, nil
}

// LoadS3 fetches configuration from an S3 object. The format follows the
// key's extension, as with LoadFile. The returned config cannot be saved
// back to its origin.
func LoadS3(ctx context.Context, client ObjectGetter, location string) (*Config, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}
	f, err := formatOf(key)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if stderrors.As(err, &missing) {
			return nil, errors.New("E141").
				WithDetail("No " + path.Base(key) + " found in bucket " + bucket).
				WithSuggestion("Upload the config object or fix --config")
		}
		var apiErr smithy.APIError
		if stderrors.As(err, &apiErr) {
			return nil, errors.New("E120").
				WithDetail("Fetching " + location + " failed: " + apiErr.ErrorCode()).
				WithSuggestion("Check the bucket name and AWS credentials").
				Wrap(err)
		}
		return nil, errors.New("E120").Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxRemoteSize+1))
	if err != nil {
		return nil, errors.New("E120").Wrap(err)
	}
	if len(data) > maxRemoteSize {
		return nil, errors.New("E120").
			WithDetail(location + " is larger than 1 MiB")
	}

	cfg := New()
	if err := decode(f, data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + location + ": " + err.Error()).
			WithSuggestion("Check that " + path.Base(key) + " is valid " + f.String())
	}
	cfg.remote = true
	cfg.configPath = location
	cfg.applyDefaults()

	return cfg, nil
}

// NewS3Client builds an S3 client from the standard AWS environment
// variables. Without AWS_ACCESS_KEY_ID requests are anonymous.
// AWS_ENDPOINT_URL selects an S3-compatible endpoint with path-style
// addressing.
func NewS3Client() *s3.Client {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{Region: region}

	if id := os.Getenv("AWS_ACCESS_KEY_ID"); id != "" {
		creds := aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "Environment",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	if endpoint := os.Getenv("AWS_ENDPOINT_URL"); endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}
