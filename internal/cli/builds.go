package cli

import (
	"fmt"

	"github.com/growbot/faqrag/internal/manifest"
	"github.com/spf13/cobra"
)

func newBuildsCmd(a *app) *cobra.Command {
	var prune bool
	cmd := &cobra.Command{
		Use:   "builds",
		Short: "List committed builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			bs, err := openBlobStore(ctx, a.cfg, newResourceController(a.cfg))
			if err != nil {
				return err
			}
			ms := manifest.NewStore(bs)

			var live string
			if current, err := ms.Load(ctx); err == nil {
				live = current.BuildID
			}

			if prune {
				deleted, err := ms.Prune(ctx)
				for _, name := range deleted {
					printOK(cmd.OutOrStdout(), "deleted %s", name)
				}
				if err != nil {
					return err
				}
			}

			ids, err := ms.Builds(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printHeader(w, "Builds")
			if len(ids) == 0 {
				printWarn(w, "none")
				return nil
			}
			for _, id := range ids {
				m, err := ms.LoadFile(ctx, manifest.FileName(id))
				if err != nil {
					fmt.Fprintf(w, "  %s  unreadable: %v\n", id, err)
					continue
				}
				marker := " "
				if id == live {
					marker = "*"
				}
				fmt.Fprintf(w, "%s %s  %s  records=%d dim=%d embedder=%s\n",
					marker, id, m.CreatedAt.Format("2006-01-02 15:04:05"), m.Count, m.Dim, m.Embedder)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&prune, "prune", false, "delete every build except the live one")
	return cmd
}
