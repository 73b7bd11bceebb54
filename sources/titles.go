package sources

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/kova98/mealmail/config"
	"github.com/kova98/mealmail/enums"
	"github.com/kova98/mealmail/metrics"
	"github.com/kova98/mealmail/models"
)

const (
	DefaultTitleDelay   = 200 * time.Millisecond
	DefaultTitleTimeout = 12 * time.Second

	userAgent    = "Mozilla/5.0"
	maxPageBytes = 4 << 20
)

type TitleFetcher struct {
	logger     *slog.Logger
	httpClient *http.Client
	metrics    *metrics.Recorder
	limit      int
	delay      time.Duration
}

type TitleOption func(*TitleFetcher)

func WithLimit(limit int) TitleOption {
	return func(f *TitleFetcher) {
		f.limit = limit
	}
}

func WithDelay(delay time.Duration) TitleOption {
	return func(f *TitleFetcher) {
		f.delay = delay
	}
}

func NewTitleFetcher(logger *slog.Logger, httpClient *http.Client, recorder *metrics.Recorder, opts ...TitleOption) *TitleFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTitleTimeout}
	}
	f := &TitleFetcher{
		logger:     logger,
		httpClient: httpClient,
		metrics:    recorder,
		limit:      config.DefaultTitleLimit,
		delay:      DefaultTitleDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchTitles returns one link per URL in the same order. Only the first
// limit URLs are fetched; the rest get an empty title without a request.
// Failures never abort the run: they yield an empty title.
func (f *TitleFetcher) FetchTitles(ctx context.Context, urls []string) []models.RecipeLink {
	links := make([]models.RecipeLink, 0, len(urls))
	var ok, failed, skipped int

	for i, u := range urls {
		if i >= f.limit {
			links = append(links, models.RecipeLink{URL: u})
			f.metrics.TitleFetched(enums.FetchStatusSkipped)
			skipped++
			continue
		}

		if i > 0 && f.delay > 0 {
			// Delay between requests to be polite to recipe sites
			select {
			case <-ctx.Done():
			case <-time.After(f.delay):
			}
		}

		title, status := f.fetchOne(ctx, u)
		links = append(links, models.RecipeLink{URL: u, Title: title})
		f.metrics.TitleFetched(status)
		if status == enums.FetchStatusOK {
			ok++
		} else {
			failed++
		}
	}

	f.logger.Info("fetched recipe titles", "ok", ok, "failed", failed, "skipped", skipped)
	return links
}

func (f *TitleFetcher) fetchOne(ctx context.Context, url string) (string, enums.FetchStatus) {
	title, err := f.fetchTitle(ctx, url)
	if err != nil {
		f.logger.Debug("title fetch failed", "url", url, "error", err)
		return "", enums.FetchStatusFailed
	}
	if title == "" {
		f.logger.Debug("no title found", "url", url)
	}
	return title, enums.FetchStatusOK
}

func (f *TitleFetcher) fetchTitle(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", errors.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", errors.Wrap(err, "parse html")
	}
	return ExtractTitle(doc), nil
}

// ExtractTitle prefers a non-empty og:title and falls back to the first
// <title> element. Both are trimmed; "" means neither was found.
func ExtractTitle(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
