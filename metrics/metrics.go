package metrics

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/kova98/mealmail/enums"
)

const namespace = "mealmail"

// Recorder collects the counters of a single run. A nil *Recorder is valid
// and records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	urlsSelected prometheus.Gauge
	titleFetches *prometheus.CounterVec
	llmDuration  prometheus.Histogram
	emailsSent   prometheus.Counter
	lastSuccess  prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		urlsSelected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "recipe_urls_selected",
			Help:      "Recipe URLs left after filtering and de-duplication.",
		}),
		titleFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "title_fetches_total",
			Help:      "Title lookups by outcome.",
		}, []string{"status"}),
		llmDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Duration of the suggestion request.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 45, 60},
		}),
		emailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Suggestion emails delivered.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}
	r.registry.MustRegister(r.urlsSelected, r.titleFetches, r.llmDuration, r.emailsSent, r.lastSuccess)
	return r
}

func (r *Recorder) URLsSelected(n int) {
	if r == nil {
		return
	}
	r.urlsSelected.Set(float64(n))
}

func (r *Recorder) TitleFetched(status enums.FetchStatus) {
	if r == nil {
		return
	}
	r.titleFetches.WithLabelValues(string(status)).Inc()
}

func (r *Recorder) ObserveLLM(d time.Duration) {
	if r == nil {
		return
	}
	r.llmDuration.Observe(d.Seconds())
}

func (r *Recorder) EmailSent() {
	if r == nil {
		return
	}
	r.emailsSent.Inc()
}

func (r *Recorder) Succeeded(at time.Time) {
	if r == nil {
		return
	}
	r.lastSuccess.Set(float64(at.Unix()))
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Push sends everything recorded so far to a Prometheus Pushgateway under job.
func (r *Recorder) Push(ctx context.Context, gatewayURL, job string) error {
	if r == nil {
		return nil
	}
	if err := push.New(gatewayURL, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return errors.Wrap(err, "metrics: push")
	}
	return nil
}
