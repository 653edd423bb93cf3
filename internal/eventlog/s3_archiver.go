package eventlog

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Archiver uploads a completed run's persisted-state directory
// (events.jsonl, metrics.csv, manifest.json) to object storage. Runs, not
// individual events, are the unit of archival here: the core's
// determinism contract is already satisfied by the JSONL primary sink, so
// this only needs to fire once at run end.
type S3Archiver struct {
	bucket   string
	prefix   string
	uploader *manager.Uploader
}

// NewS3Archiver constructs an archiver targeting bucket/prefix. Region
// and credentials are resolved from the environment by the AWS SDK's
// default config chain.
func NewS3Archiver(ctx context.Context, bucket, prefix string) (*S3Archiver, error) {
	if bucket == "" {
		return nil, fmt.Errorf("eventlog: s3 archiver requires a bucket")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("eventlog: load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Archiver{bucket: bucket, prefix: prefix, uploader: manager.NewUploader(client)}, nil
}

// ArchiveRun uploads every regular file under localDir to
// s3://bucket/prefix/runs/<runID>/<relative path>.
func (a *S3Archiver) ArchiveRun(ctx context.Context, localDir, runID string) error {
	return filepath.Walk(localDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("eventlog: open %s: %w", p, err)
		}
		defer f.Close()

		key := path.Join(a.prefix, "runs", runID, filepath.ToSlash(rel))
		_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:               aws.String(a.bucket),
			Key:                  aws.String(key),
			Body:                 f,
			ContentType:          aws.String("application/octet-stream"),
			ServerSideEncryption: s3types.ServerSideEncryptionAes256,
		})
		if err != nil {
			return fmt.Errorf("eventlog: upload %s: %w", key, err)
		}
		return nil
	})
}
