package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/kova98/mealmail/config"
	"github.com/kova98/mealmail/matchers"
	"github.com/kova98/mealmail/metrics"
	"github.com/kova98/mealmail/models"
	"github.com/kova98/mealmail/sources"
	"github.com/kova98/mealmail/suggestions"
)

// ErrNoRecipeURLs means nothing was left to plan with after loading,
// filtering and de-duplication.
var ErrNoRecipeURLs = errors.New("no recipe URLs found")

type titleFetcher interface {
	FetchTitles(ctx context.Context, urls []string) []models.RecipeLink
}

type suggester interface {
	Generate(ctx context.Context, links []models.RecipeLink, mealsPerWeek int) (string, error)
}

type planMailer interface {
	WeeklyPlanEmail(body string) (models.Email, error)
	Send(ctx context.Context, mail models.Email) error
}

type Pipeline struct {
	logger    *slog.Logger
	cfg       config.AppConfig
	metrics   *metrics.Recorder
	titles    titleFetcher
	suggester suggester
	mailer    planMailer
	dryRunOut io.Writer
}

func NewPipeline(logger *slog.Logger, cfg config.AppConfig, recorder *metrics.Recorder, titles titleFetcher, suggester suggester, mailer planMailer) *Pipeline {
	return &Pipeline{
		logger:    logger,
		cfg:       cfg,
		metrics:   recorder,
		titles:    titles,
		suggester: suggester,
		mailer:    mailer,
	}
}

// WithDryRun makes Run print the email to out instead of sending it.
func (p *Pipeline) WithDryRun(out io.Writer) *Pipeline {
	p.dryRunOut = out
	return p
}

// URLs loads the recipe list, drops sweets unless they are wanted, and
// removes duplicates.
func (p *Pipeline) URLs() ([]string, error) {
	urls, err := sources.LoadRecipeURLs(p.cfg.Recipes.File, sources.DefaultURLs)
	if err != nil {
		return nil, err
	}
	loaded := len(urls)

	if !p.cfg.Recipes.IncludeSweets {
		urls = matchers.FilterSweets(urls)
	}
	urls = matchers.Dedupe(urls)

	p.logger.Info("recipe urls loaded",
		"file", p.cfg.Recipes.File,
		"loaded", loaded,
		"selected", len(urls),
		"include_sweets", p.cfg.Recipes.IncludeSweets)
	p.metrics.URLsSelected(len(urls))

	if len(urls) == 0 {
		return nil, ErrNoRecipeURLs
	}
	return urls, nil
}

// Preview returns the selected links with their titles. Nothing is sent.
func (p *Pipeline) Preview(ctx context.Context) ([]models.RecipeLink, error) {
	urls, err := p.URLs()
	if err != nil {
		return nil, err
	}
	return p.titles.FetchTitles(ctx, urls), nil
}

// Run executes the whole weekly pipeline. The email is only composed once a
// complete, non-empty suggestion text exists.
func (p *Pipeline) Run(ctx context.Context) error {
	urls, err := p.URLs()
	if err != nil {
		return err
	}

	if err := p.cfg.OpenAI.Validate(); err != nil {
		return errors.Wrap(err, "run")
	}
	if p.dryRunOut == nil {
		if err := p.cfg.Mail.Validate(); err != nil {
			return errors.Wrap(err, "run")
		}
	}

	links := p.titles.FetchTitles(ctx, urls)

	meals := p.cfg.Recipes.MealsPerWeek
	body, err := p.suggester.Generate(ctx, links, meals)
	if err != nil {
		return errors.Wrap(err, "run")
	}
	for _, problem := range suggestions.CheckFormat(body, meals) {
		p.logger.Warn("suggestions deviate from requested format", "problem", problem)
	}

	mail, err := p.mailer.WeeklyPlanEmail(body)
	if err != nil {
		return errors.Wrap(err, "run")
	}

	if p.dryRunOut != nil {
		_, err := fmt.Fprintf(p.dryRunOut, "Subject: %s\n\n%s\n", mail.Subject, mail.Body)
		return err
	}

	if err := p.mailer.Send(ctx, mail); err != nil {
		return errors.Wrap(err, "run")
	}
	p.metrics.EmailSent()
	p.metrics.Succeeded(time.Now())
	return nil
}

// PushMetrics exports the run's metrics when a Pushgateway is configured.
// Failures are logged only.
func (p *Pipeline) PushMetrics(ctx context.Context) {
	if p.cfg.PushgatewayURL == "" {
		return
	}
	if err := p.metrics.Push(ctx, p.cfg.PushgatewayURL, "mealmail"); err != nil {
		p.logger.Error("push metrics", "error", err)
	}
}
