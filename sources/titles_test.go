package sources

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kova98/mealmail/config"
	"github.com/kova98/mealmail/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRecipeServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/og", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Site | Thai Green Curry</title>
			<meta property="og:title" content="  Thai Green Curry  "></head></html>`))
	})
	mux.HandleFunc("/title", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>
			Lamb Kofta
		</title></head></html>`))
	})
	mux.HandleFunc("/empty-og", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><meta property="og:title" content=" "><title>Pork Ramen</title></head></html>`))
	})
	mux.HandleFunc("/none", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>No title here</h1></body></html>`))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<title>` + r.UserAgent() + `</title>`))
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchTitles_ExtractsTitlesAndKeepsOrder(t *testing.T) {
	srv := newRecipeServer(t, nil)
	recorder := metrics.NewRecorder()
	f := NewTitleFetcher(discardLogger(), srv.Client(), recorder, WithDelay(0))

	urls := []string{srv.URL + "/og", srv.URL + "/title", srv.URL + "/empty-og", srv.URL + "/none", srv.URL + "/ua"}
	links := f.FetchTitles(context.Background(), urls)

	require.Len(t, links, len(urls))
	for i, link := range links {
		assert.Equal(t, urls[i], link.URL)
	}
	assert.Equal(t, "Thai Green Curry", links[0].Title)
	assert.Equal(t, "Lamb Kofta", links[1].Title)
	assert.Equal(t, "Pork Ramen", links[2].Title)
	assert.Equal(t, "", links[3].Title)
	assert.Equal(t, "Mozilla/5.0", links[4].Title)
}

func TestFetchTitles_FailuresDegradeToEmptyTitle(t *testing.T) {
	srv := newRecipeServer(t, nil)
	recorder := metrics.NewRecorder()
	f := NewTitleFetcher(discardLogger(), &http.Client{Timeout: time.Second}, recorder, WithDelay(0))

	urls := []string{
		srv.URL + "/missing",
		"http://127.0.0.1:1/refused",
		"http://bad host/",
		srv.URL + "/og",
	}
	links := f.FetchTitles(context.Background(), urls)

	require.Len(t, links, 4)
	assert.Equal(t, "", links[0].Title)
	assert.Equal(t, "", links[1].Title)
	assert.Equal(t, "", links[2].Title)
	assert.Equal(t, "Thai Green Curry", links[3].Title, "processing continues after failures")
}

func TestFetchTitles_LimitSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := newRecipeServer(t, &hits)
	f := NewTitleFetcher(discardLogger(), srv.Client(), nil, WithLimit(2), WithDelay(0))

	urls := []string{srv.URL + "/og", srv.URL + "/title", srv.URL + "/og", srv.URL + "/title"}
	links := f.FetchTitles(context.Background(), urls)

	require.Len(t, links, 4)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, "Thai Green Curry", links[0].Title)
	assert.Equal(t, "Lamb Kofta", links[1].Title)
	assert.Equal(t, "", links[2].Title)
	assert.Equal(t, "", links[3].Title)
	assert.Equal(t, srv.URL+"/title", links[3].URL)
}

func TestFetchTitles_RecordsOutcomes(t *testing.T) {
	srv := newRecipeServer(t, nil)
	recorder := metrics.NewRecorder()
	f := NewTitleFetcher(discardLogger(), srv.Client(), recorder, WithLimit(2), WithDelay(0))

	f.FetchTitles(context.Background(), []string{srv.URL + "/og", srv.URL + "/missing", srv.URL + "/og"})

	expected := `
# HELP mealmail_title_fetches_total Title lookups by outcome.
# TYPE mealmail_title_fetches_total counter
mealmail_title_fetches_total{status="failed"} 1
mealmail_title_fetches_total{status="ok"} 1
mealmail_title_fetches_total{status="skipped"} 1
`
	require.NoError(t, testutil.GatherAndCompare(recorder.Gatherer(), strings.NewReader(expected), "mealmail_title_fetches_total"))
}

func TestFetchTitles_PausesBetweenFetches(t *testing.T) {
	srv := newRecipeServer(t, nil)
	f := NewTitleFetcher(discardLogger(), srv.Client(), nil, WithDelay(30*time.Millisecond))

	start := time.Now()
	f.FetchTitles(context.Background(), []string{srv.URL + "/og", srv.URL + "/og", srv.URL + "/og"})

	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestFetchTitles_Empty(t *testing.T) {
	f := NewTitleFetcher(discardLogger(), nil, nil)
	assert.Empty(t, f.FetchTitles(context.Background(), nil))
}

func TestExtractTitle(t *testing.T) {
	cases := []struct {
		html string
		want string
	}{
		{`<meta property="og:title" content="OG"><title>T</title>`, "OG"},
		{`<meta property="og:title" content="First"><meta property="og:title" content="Second">`, "First"},
		{`<meta name="og:title" content="by name"><title>T</title>`, "T"},
		{`<title> One </title><title>Two</title>`, "One"},
		{`<p>nothing</p>`, ""},
	}
	for _, tc := range cases {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(tc.html))
		require.NoError(t, err)
		assert.Equal(t, tc.want, ExtractTitle(doc), "html=%q", tc.html)
	}
}

func TestNewTitleFetcher_DefaultLimitComesFromConfig(t *testing.T) {
	f := NewTitleFetcher(discardLogger(), nil, nil)
	assert.Equal(t, config.DefaultTitleLimit, f.limit)
	assert.Equal(t, DefaultTitleDelay, f.delay)
}

func TestFetchTitle_Non2xxIsError(t *testing.T) {
	srv := newRecipeServer(t, nil)
	f := NewTitleFetcher(discardLogger(), srv.Client(), nil)

	_, err := f.fetchTitle(context.Background(), srv.URL+"/missing")

	require.Error(t, err)
	assert.Equal(t, "HTTP 404", err.Error())
}
