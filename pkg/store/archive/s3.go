package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Archive keeps a copy of generated exports.
type Archive interface {
	// Put stores the object and returns the key it was written under.
	Put(ctx context.Context, filename, contentType string, body []byte) (string, error)
}

// ObjectPutter is the subset of the S3 client used by the archive.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Settings struct {
	Bucket string
	Prefix string
}

type s3Archive struct {
	client   ObjectPutter
	settings Settings
	now      func() time.Time
}

// NewS3Archive builds an archive from the default AWS credential chain.
func NewS3Archive(ctx context.Context, settings Settings) (Archive, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewArchive(s3.NewFromConfig(cfg), settings), nil
}

func NewArchive(client ObjectPutter, settings Settings) Archive {
	return &s3Archive{
		client:   client,
		settings: settings,
		now:      time.Now,
	}
}

func (a *s3Archive) Put(ctx context.Context, filename, contentType string, body []byte) (string, error) {
	key := a.objectKey(filename)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.settings.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put s3://%s/%s: %w", a.settings.Bucket, key, err)
	}
	return key, nil
}

// objectKey is <prefix>/<yyyy>/<mm>/<dd>/<uuid>_<filename>.
func (a *s3Archive) objectKey(filename string) string {
	day := a.now().UTC().Format("2006/01/02")
	return path.Join(a.settings.Prefix, day, uuid.NewString()+"_"+filename)
}
