package cli

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/growbot/faqrag/blobstore"
	"github.com/growbot/faqrag/blobstore/minio"
	"github.com/growbot/faqrag/blobstore/s3"
	"github.com/growbot/faqrag/config"
	"github.com/growbot/faqrag/embed"
	"github.com/growbot/faqrag/generate"
	"github.com/growbot/faqrag/resource"
	"golang.org/x/time/rate"
)

func newResourceController(cfg *config.Config) *resource.Controller {
	return resource.NewController(resource.Config{
		MaxWorkers:         cfg.Build.Workers,
		IOLimitBytesPerSec: cfg.Build.IOLimit,
	})
}

// openBlobStore returns the configured artifact store. Remote stores are
// fronted by an in-memory cache.
func openBlobStore(ctx context.Context, cfg *config.Config, rc *resource.Controller) (blobstore.BlobStore, error) {
	sc := cfg.Storage

	var bs blobstore.BlobStore
	switch sc.Backend {
	case "local":
		return blobstore.NewLocalStore(cfg.DataDir), nil
	case "memory":
		return blobstore.NewMemoryStore(), nil
	case "s3":
		var opts []s3.Option
		if sc.Prefix != "" {
			opts = append(opts, s3.WithPrefix(sc.Prefix))
		}
		if sc.Region != "" {
			opts = append(opts, s3.WithRegion(sc.Region))
		}
		if sc.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(sc.Endpoint))
		}
		store, err := s3.New(ctx, sc.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		bs = store

		if sc.DynamoTable != "" {
			var loadOpts []func(*awsconfig.LoadOptions) error
			if sc.Region != "" {
				loadOpts = append(loadOpts, awsconfig.WithRegion(sc.Region))
			}
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
			if err != nil {
				return nil, fmt.Errorf("load aws config: %w", err)
			}
			bs = s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(awsCfg), sc.DynamoTable, s3.BaseURI(store))
		}
	case "minio":
		store, err := minio.Dial(sc.Endpoint, sc.AccessKey, sc.SecretKey, sc.Secure, sc.Bucket, sc.Prefix)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("minio: ensure bucket: %w", err)
		}
		bs = store
	default:
		return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}

	if sc.CacheBytes > 0 {
		bs = blobstore.NewCachingStore(bs, sc.CacheBytes, rc)
	}
	return bs, nil
}

// newEmbedder builds the configured embedder. Batches fan out over the
// worker slots of rc; single queries go through the cache.
func newEmbedder(cfg *config.Config, rc *resource.Controller) embed.Embedder {
	ec := cfg.Embedder

	var e embed.Embedder
	switch ec.Kind {
	case "ollama":
		e = embed.NewOllama(ec.OllamaURL, ec.OllamaModel, ec.Dim)
	default:
		e = embed.NewHashing(ec.Dim)
	}
	if ec.RateLimit > 0 {
		e = embed.NewRateLimited(e, rate.Limit(ec.RateLimit), ec.RateBurst)
	}
	e = embed.NewConcurrent(e, rc)
	if ec.CacheBytes > 0 {
		e = embed.NewCached(e, ec.CacheBytes, rc)
	}
	return e
}

func newGenerator(cfg *config.Config) (generate.Generator, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable not set")
	}
	return generate.NewGemini(cfg.Gemini.APIKey,
		generate.WithModel(cfg.Gemini.Model),
		generate.WithBaseURL(cfg.Gemini.BaseURL),
	)
}
