// Package cli implements the faqrag command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/growbot/faqrag"
	"github.com/growbot/faqrag/config"
	"github.com/growbot/faqrag/distance"
	"github.com/spf13/cobra"
)

// version can be overridden at build time via:
// go build -ldflags "-X github.com/growbot/faqrag/internal/cli.version=1.2.3"
var version = "0.1.0"

type app struct {
	envFile string
	cfg     *config.Config
	logger  *faqrag.Logger
	stderr  io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "faqrag",
		Short:         "faqrag - FAQ knowledge base and support chatbot",
		Long:          "Build an FAQ knowledge base from problem/solution pairs and serve it\nbehind a retrieval-augmented support chatbot.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to load before reading FAQRAG_* variables")

	root.AddCommand(
		newBuildCmd(a),
		newServeCmd(a),
		newQueryCmd(a),
		newBuildsCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signalContext(context.Background())
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		printError(root.ErrOrStderr(), err)
		return err
	}
	return nil
}

func (a *app) init(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.stderr = cmd.ErrOrStderr()

	level, _ := cfg.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Log.Format, "json") {
		a.logger = faqrag.NewLogger(slog.NewJSONHandler(a.stderr, opts))
	} else {
		a.logger = faqrag.NewLogger(slog.NewTextHandler(a.stderr, opts))
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "faqrag %s (%s/%s, cpu %s)\n",
				version, runtime.GOOS, runtime.GOARCH, distance.Capabilities())
		},
	}
}

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, color.New(color.FgCyan, color.Bold).Sprint(title))
}

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

func printWarn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.YellowString("!"), fmt.Sprintf(format, args...))
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.RedString("✗"), err)
}
