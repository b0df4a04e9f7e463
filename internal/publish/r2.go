package publish

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/tournament-scheduler/internal/config"
	"github.com/AdamBeresnev/tournament-scheduler/internal/service"
	"github.com/AdamBeresnev/tournament-scheduler/views"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gosimple/slug"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Publisher uploads the finished bracket as a DOT file to Cloudflare R2.
type R2Publisher struct {
	client     objectPutter
	bucket     string
	cdnBaseURL string
	log        *slog.Logger
}

func NewR2Publisher(ctx context.Context, cfg config.R2Config) (*R2Publisher, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	cdnBaseURL := cfg.CDNBaseURL
	if cdnBaseURL == "" {
		cdnBaseURL = endpoint
	}
	return newR2Publisher(client, cfg.Bucket, cdnBaseURL), nil
}

func newR2Publisher(client objectPutter, bucket, cdnBaseURL string) *R2Publisher {
	return &R2Publisher{
		client:     client,
		bucket:     bucket,
		cdnBaseURL: cdnBaseURL,
		log:        slog.Default(),
	}
}

// ObjectKey names the uploaded bracket, e.g. "brackets/chess-<run id>.dot".
func ObjectKey(c service.Completion) string {
	return fmt.Sprintf("brackets/%s-%s.dot", slug.Make(c.GameName), c.RunID)
}

func (p *R2Publisher) NotifyChampion(ctx context.Context, c service.Completion) error {
	var buf bytes.Buffer
	if err := views.WriteDOT(&buf, c.Bracket, c.BestOf); err != nil {
		return fmt.Errorf("failed to render bracket: %w", err)
	}

	key := ObjectKey(c)
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/vnd.graphviz"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to R2: %w", err)
	}

	p.log.InfoContext(ctx, "bracket uploaded", "url", fmt.Sprintf("%s/%s", p.cdnBaseURL, key))
	return nil
}
