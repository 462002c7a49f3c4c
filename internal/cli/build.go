package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/growbot/faqrag"
	"github.com/growbot/faqrag/knowledge"
	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		buildID string
		prune   bool
	)
	cmd := &cobra.Command{
		Use:   "build [data.json]",
		Short: "Embed FAQ records and commit a new knowledge base build",
		Long: "Reads a JSON array of {\"problem\", \"solution\"} objects, embeds every\n" +
			"problem and commits the vectors and records as the live build.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "data.json"
			if len(args) == 1 {
				path = args[0]
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			raw, err := knowledge.ParseRawRecords(data)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			rc := newResourceController(a.cfg)
			bs, err := openBlobStore(ctx, a.cfg, rc)
			if err != nil {
				return err
			}
			emb := newEmbedder(a.cfg, rc)

			opts := []faqrag.Option{
				faqrag.WithLogger(a.logger),
				faqrag.WithResourceController(rc),
				faqrag.WithCompression(a.cfg.Compression()),
				faqrag.WithCodec(a.cfg.Codec()),
				faqrag.WithBuildID(buildID),
			}
			if prune || a.cfg.Build.Prune {
				opts = append(opts, faqrag.WithPrune())
			}

			start := time.Now()
			m, err := faqrag.Build(ctx, bs, emb, raw, opts...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printHeader(w, "Knowledge base built")
			printOK(w, "build %s", m.BuildID)
			fmt.Fprintf(w, "  records:  %d\n", m.Count)
			fmt.Fprintf(w, "  dim:      %d (%s)\n", m.Dim, m.Embedder)
			fmt.Fprintf(w, "  vectors:  %s (%d bytes)\n", m.VectorArtifact.Name, m.VectorArtifact.Size)
			fmt.Fprintf(w, "  records:  %s (%d bytes)\n", m.RecordArtifact.Name, m.RecordArtifact.Size)
			fmt.Fprintf(w, "  took:     %s\n", time.Since(start).Round(time.Millisecond))
			if m.Count == 0 {
				printWarn(w, "the input had no records; every query will get the no-match answer")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&buildID, "build-id", "", "build id (default: random UUID)")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete superseded builds after committing")
	return cmd
}
