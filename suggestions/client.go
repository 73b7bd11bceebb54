package suggestions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/kova98/mealmail/config"
	"github.com/kova98/mealmail/models"
)

const (
	defaultTimeout = 60 * time.Second

	// Low temperature keeps the weekly format stable.
	Temperature = 0.4
)

// ErrEmptyOutput is returned when a successful response carries no text.
var ErrEmptyOutput = errors.New("openai: response contained no text output")

// HTTPStatusError captures non-2xx upstream responses.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("openai: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// Client is a minimal client for the OpenAI Responses endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    config.DefaultOpenAIBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func responsesURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = config.DefaultOpenAIBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/responses"
	}
	return base + "/v1/responses"
}

// Respond sends prompt as a single user message and returns the trimmed text
// of the reply.
func (c *Client) Respond(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		return "", errors.New("openai: model must not be empty")
	}

	body, err := json.Marshal(models.ResponsesRequest{
		Model:       model,
		Input:       []models.ResponseInput{{Role: "user", Content: prompt}},
		Temperature: Temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, "openai: marshal request")
	}

	url := responsesURL(c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "openai: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		return "", errors.Wrap(err, "openai: request failed")
	}

	var payload models.ResponsesResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", errors.Wrap(err, "openai: decode response")
	}

	text := ExtractText(payload)
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

// ExtractText joins the text parts of every output item; when there are none
// it falls back to the top-level output_text field.
func ExtractText(payload models.ResponsesResponse) string {
	var chunks []string
	for _, item := range payload.Output {
		for _, c := range item.Content {
			if c.Type == "output_text" || c.Type == "text" {
				chunks = append(chunks, c.Text)
			}
		}
	}
	text := strings.TrimSpace(strings.Join(chunks, "\n"))
	if text == "" {
		text = strings.TrimSpace(payload.OutputText)
	}
	return text
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	return buf, nil
}
