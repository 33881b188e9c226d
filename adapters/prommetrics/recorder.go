package prommetrics

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-looker/core"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultDurationBuckets are in milliseconds and cover fast cache hits up to
// slow warehouse queries.
var DefaultDurationBuckets = []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

// Recorder implements core.MetricsRecorder on a prometheus registry. Vectors
// are created on first use; their label names are the sorted tag keys of that
// first observation.
type Recorder struct {
	registerer prometheus.Registerer
	namespace  string
	buckets    []float64

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	labels     map[string][]string
}

type Option func(*Recorder)

func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		r.namespace = sanitizeName(namespace)
	}
}

func WithBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = append([]float64(nil), buckets...)
		}
	}
}

// NewRecorder registers collectors on registerer, or on a fresh registry when
// registerer is nil.
func NewRecorder(registerer prometheus.Registerer, opts ...Option) *Recorder {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	r := &Recorder{
		registerer: registerer,
		buckets:    DefaultDurationBuckets,
		counters:   map[string]*prometheus.CounterVec{},
		histograms: map[string]*prometheus.HistogramVec{},
		labels:     map[string][]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Recorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value < 0 {
		return
	}
	vec, labelNames, err := r.counter(name, tags)
	if err != nil {
		return
	}
	counter, err := vec.GetMetricWith(labelValues(labelNames, tags))
	if err != nil {
		return
	}
	counter.Add(float64(value))
}

func (r *Recorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	vec, labelNames, err := r.histogram(name, tags)
	if err != nil {
		return
	}
	observer, err := vec.GetMetricWith(labelValues(labelNames, tags))
	if err != nil {
		return
	}
	observer.Observe(value)
}

func (r *Recorder) counter(name string, tags map[string]string) (*prometheus.CounterVec, []string, error) {
	metricName := r.metricName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if vec, ok := r.counters[metricName]; ok {
		return vec, r.labels[metricName], nil
	}

	labelNames := sortedLabelNames(tags)
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricName,
		Help: "Counter recorded by the looker client: " + name,
	}, labelNames)
	if err := r.registerer.Register(vec); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, nil, err
		}
		vec = existing
	}
	r.counters[metricName] = vec
	r.labels[metricName] = labelNames
	return vec, labelNames, nil
}

func (r *Recorder) histogram(name string, tags map[string]string) (*prometheus.HistogramVec, []string, error) {
	metricName := r.metricName(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if vec, ok := r.histograms[metricName]; ok {
		return vec, r.labels[metricName], nil
	}

	labelNames := sortedLabelNames(tags)
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metricName,
		Help:    "Histogram recorded by the looker client: " + name,
		Buckets: r.buckets,
	}, labelNames)
	if err := r.registerer.Register(vec); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil, nil, err
		}
		vec = existing
	}
	r.histograms[metricName] = vec
	r.labels[metricName] = labelNames
	return vec, labelNames, nil
}

func (r *Recorder) metricName(name string) string {
	metricName := sanitizeName(name)
	if r.namespace != "" {
		return r.namespace + "_" + metricName
	}
	return metricName
}

// labelValues fills every known label; missing tags become empty values and
// unknown tags are dropped.
func labelValues(labelNames []string, tags map[string]string) prometheus.Labels {
	values := make(prometheus.Labels, len(labelNames))
	for _, label := range labelNames {
		values[label] = tags[label]
	}
	return values
}

func sortedLabelNames(tags map[string]string) []string {
	names := make([]string, 0, len(tags))
	for key := range tags {
		if name := sanitizeName(key); name != "" && name == key {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

var _ core.MetricsRecorder = (*Recorder)(nil)
