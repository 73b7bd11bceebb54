package suggestions

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/kova98/mealmail/config"
	"github.com/kova98/mealmail/metrics"
	"github.com/kova98/mealmail/models"
)

type Generator struct {
	logger  *slog.Logger
	cfg     config.OpenAIConfig
	client  *Client
	metrics *metrics.Recorder
}

func NewGenerator(logger *slog.Logger, cfg config.OpenAIConfig, recorder *metrics.Recorder, opts ...Option) *Generator {
	opts = append([]Option{WithBaseURL(cfg.BaseURL)}, opts...)
	return &Generator{
		logger:  logger,
		cfg:     cfg,
		client:  NewClient(cfg.APIKey, opts...),
		metrics: recorder,
	}
}

// Generate asks the model for mealsPerWeek dinner suggestions drawn from
// links and returns its reply unmodified. A missing API key fails before any
// request is made.
func (g *Generator) Generate(ctx context.Context, links []models.RecipeLink, mealsPerWeek int) (string, error) {
	if err := g.cfg.Validate(); err != nil {
		return "", err
	}

	prompt := BuildPrompt(links, mealsPerWeek)
	g.logger.Info("requesting suggestions", "model", g.cfg.Model, "links", len(links), "meals", mealsPerWeek)

	start := time.Now()
	text, err := g.client.Respond(ctx, g.cfg.Model, prompt)
	g.metrics.ObserveLLM(time.Since(start))
	if err != nil {
		return "", errors.Wrap(err, "generate suggestions")
	}

	g.logger.Info("suggestions received", "chars", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}
