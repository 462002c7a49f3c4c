package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/growbot/faqrag"
	"github.com/spf13/cobra"
)

func newQueryCmd(a *app) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Show the records nearest to a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if k <= 0 {
				k = a.cfg.TopK
			}

			rc := newResourceController(a.cfg)
			bs, err := openBlobStore(ctx, a.cfg, rc)
			if err != nil {
				return err
			}
			kb, err := faqrag.Open(ctx, bs, newEmbedder(a.cfg, rc), faqrag.WithLogger(a.logger))
			if err != nil {
				return err
			}

			question := strings.Join(args, " ")
			hits, err := kb.Search(ctx, question, k)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printHeader(w, fmt.Sprintf("Top %d for %q (build %s)", k, question, kb.BuildID()))
			if len(hits) == 0 {
				printWarn(w, "no records")
				return nil
			}
			for i, h := range hits {
				fmt.Fprintf(w, "%d. [%d] %s %s\n", i+1, h.ID, h.Problem, color.HiBlackString("(distance %.4f)", h.Distance))
				fmt.Fprintf(w, "   %s\n", h.Solution)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "top-k", "k", 0, "number of records (default FAQRAG_TOP_K)")
	return cmd
}
