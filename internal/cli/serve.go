package cli

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/growbot/faqrag"
	"github.com/growbot/faqrag/chat"
	"github.com/growbot/faqrag/distance"
	"github.com/growbot/faqrag/generate"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		offline bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat UI and the /chat endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := a.cfg
			if addr == "" {
				addr = cfg.HTTP.Addr
			}

			var gen generate.Generator
			if offline {
				gen = offlineGenerator{}
			} else {
				g, err := newGenerator(cfg)
				if err != nil {
					return err
				}
				gen = g
			}

			rc := newResourceController(cfg)
			bs, err := openBlobStore(ctx, cfg, rc)
			if err != nil {
				return err
			}
			emb := newEmbedder(cfg, rc)
			metrics := &faqrag.BasicMetricsCollector{}

			kb := faqrag.New(bs, emb,
				faqrag.WithLogger(a.logger),
				faqrag.WithMetricsCollector(metrics),
				faqrag.WithResourceController(rc),
			)
			if _, err := kb.Reload(ctx); err != nil {
				// A missing build degrades to the unavailable answer; a
				// damaged one aborts startup.
				if !errors.Is(err, faqrag.ErrNotFound) {
					return err
				}
				printWarn(cmd.ErrOrStderr(), "no knowledge base found; run 'faqrag build' first")
			}
			go kb.Watch(ctx, cfg.HTTP.ReloadInterval)

			svc := chat.NewService(emb, kb.Handle(), gen,
				chat.WithTopK(cfg.TopK),
				chat.WithLogger(a.logger.Logger),
				chat.WithMetrics(metrics),
			)

			opts := []chat.ServerOption{
				chat.WithServerLogger(a.logger.Logger),
				chat.WithHealthCheck(kb.Ready),
				chat.WithRequestTimeout(cfg.HTTP.RequestTimeout),
			}
			switch {
			case cfg.HTTP.RedisAddr != "":
				rdb := redis.NewClient(&redis.Options{
					Addr:     cfg.HTTP.RedisAddr,
					Password: cfg.HTTP.RedisPassword,
					DB:       cfg.HTTP.RedisDB,
				})
				defer rdb.Close()
				if err := rdb.Ping(ctx).Err(); err != nil {
					printWarn(cmd.ErrOrStderr(), "redis %s unreachable, rate limiting fails open: %v", cfg.HTTP.RedisAddr, err)
				}
				opts = append(opts, chat.WithLimiter(chat.NewRedisLimiter(rdb, cfg.HTTP.RedisLimit, cfg.HTTP.RedisWindow)))
			case cfg.HTTP.RateLimit > 0:
				opts = append(opts, chat.WithLimiter(chat.NewLocalLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst)))
			}

			gin.SetMode(gin.ReleaseMode)
			srv, err := chat.NewServer(svc, opts...)
			if err != nil {
				return err
			}

			printHeader(cmd.OutOrStdout(), "Grow Chatbot")
			printOK(cmd.OutOrStdout(), "listening on %s (build %q, %d records, model %s)", addr, kb.BuildID(), kb.Len(), gen.Name())

			a.logger.InfoContext(ctx, "chat server starting",
				"addr", addr,
				"version", version,
				"cpu", distance.Capabilities(),
				"embedder", emb.Name(),
				"generator", gen.Name(),
				"memory_limit", rc.MemoryLimit(),
			)
			start := time.Now()
			err = srv.Run(ctx, addr)
			s := metrics.GetStats()
			a.logger.InfoContext(ctx, "chat server stopped",
				"uptime", time.Since(start).Round(time.Second),
				"retrievals", s.RetrieveCount,
				"empty_retrievals", s.RetrieveEmpty,
				"generate_errors", s.GenerateErrors,
				"cache_bytes", rc.MemoryUsage(),
			)
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default FAQRAG_HTTP_ADDR)")
	cmd.Flags().BoolVar(&offline, "offline", false, "answer with the retrieved solution instead of calling Gemini")
	return cmd
}
