package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kova98/mealmail/config"
	"github.com/kova98/mealmail/metrics"
	"github.com/kova98/mealmail/notifiers"
	"github.com/kova98/mealmail/sources"
	"github.com/kova98/mealmail/suggestions"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitNoURLs  = 2
)

const noURLsMessage = "No recipe URLs found. Add URLs to recipes.txt (one per line) or point RECIPES_FILE at your list."

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrNoRecipeURLs):
		fmt.Fprintln(stdout, noURLsMessage)
		return exitNoURLs
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return exitFailure
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun bool

	root := &cobra.Command{
		Use:           "mealmail",
		Short:         "Email a weekly dinner plan built from a list of recipe links",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := newPipeline(stderr)
			if err != nil {
				return err
			}
			if dryRun {
				pipeline.WithDryRun(stdout)
			}

			runErr := pipeline.Run(cmd.Context())
			if !errors.Is(runErr, ErrNoRecipeURLs) {
				pipeline.PushMetrics(cmd.Context())
			}
			return runErr
		},
	}
	root.Flags().BoolVar(&dryRun, "dry-run", false, "print the email instead of sending it")
	root.AddCommand(newPreviewCmd(stdout, stderr))

	return root
}

// newPipeline loads the configuration and wires every component. Nothing here
// touches the network.
func newPipeline(logOut io.Writer) (*Pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	opts := slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(logOut, &opts)).With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	client, err := sources.NewHTTPClient(cfg.Recipes.ProxyURL, sources.DefaultTitleTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "create http client")
	}

	recorder := metrics.NewRecorder()
	titles := sources.NewTitleFetcher(logger, client, recorder, sources.WithLimit(cfg.Recipes.TitleLimit))
	generator := suggestions.NewGenerator(logger, cfg.OpenAI, recorder)
	mailer := notifiers.NewMailer(logger, cfg.Mail)

	return NewPipeline(logger, cfg, recorder, titles, generator, mailer), nil
}
