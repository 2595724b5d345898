// Package metrics provides Prometheus metrics for calls to the Notion API
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/diwise/notion-sugar/pkg/notion"
	"github.com/diwise/notion-sugar/pkg/notion/client"
	notionerrors "github.com/diwise/notion-sugar/pkg/notion/errors"
	"github.com/diwise/notion-sugar/pkg/notion/properties"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusOK    string = "ok"
	StatusError string = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RowsFetched     prometheus.Counter
	SchemaPatches   prometheus.Counter
}

// NewMetrics creates the metrics and registers them with a registry of their own
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notion_sugar_api_requests_total",
				Help: "Total number of requests sent to the Notion API",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notion_sugar_api_request_duration_seconds",
				Help:    "Duration of requests to the Notion API in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		RowsFetched: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "notion_sugar_rows_fetched_total",
				Help: "Total number of rows returned by database queries",
			},
		),
		SchemaPatches: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "notion_sugar_schema_patches_total",
				Help: "Total number of properties added to databases",
			},
		),
	}
}

// Handler serves the metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(operation string, start time.Time, err error) {
	status := StatusOK
	if err != nil {
		status = statusOf(err)
	}

	m.RequestsTotal.WithLabelValues(operation, status).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, notionerrors.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, notionerrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, notionerrors.ErrUnauthorized):
		return "unauthorized"
	default:
		return StatusError
	}
}

// Instrument wraps c so that every call is counted and timed
func Instrument(c client.NotionClient, m *Metrics) client.NotionClient {
	return &instrumented{next: c, metrics: m}
}

type instrumented struct {
	next    client.NotionClient
	metrics *Metrics
}

func (i *instrumented) RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error) {
	start := time.Now()
	db, err := i.next.RetrieveDatabase(ctx, databaseID)
	i.metrics.observe("retrieve-database", start, err)
	return db, err
}

func (i *instrumented) QueryDatabase(ctx context.Context, databaseID string, parameters ...client.QueryDecoratorFunc) (*notion.QueryResult, error) {
	start := time.Now()

	result, err := i.next.QueryDatabase(ctx, databaseID, parameters...)
	i.metrics.observe("query-database", start, err)

	if err == nil {
		i.metrics.RowsFetched.Add(float64(len(result.Results)))
	}

	return result, err
}

func (i *instrumented) UpdateDatabase(ctx context.Context, databaseID string, definitions map[string]properties.Kind) (*notion.Database, error) {
	start := time.Now()

	db, err := i.next.UpdateDatabase(ctx, databaseID, definitions)
	i.metrics.observe("update-database", start, err)

	if err == nil {
		i.metrics.SchemaPatches.Add(float64(len(definitions)))
	}

	return db, err
}

func (i *instrumented) CreatePage(ctx context.Context, databaseID string, props properties.Properties) (*notion.Page, error) {
	start := time.Now()
	page, err := i.next.CreatePage(ctx, databaseID, props)
	i.metrics.observe("create-page", start, err)
	return page, err
}

func (i *instrumented) UpdatePage(ctx context.Context, pageID string, props properties.Properties) (*notion.Page, error) {
	start := time.Now()
	page, err := i.next.UpdatePage(ctx, pageID, props)
	i.metrics.observe("update-page", start, err)
	return page, err
}

func (i *instrumented) ArchivePage(ctx context.Context, pageID string) (*notion.Page, error) {
	start := time.Now()
	page, err := i.next.ArchivePage(ctx, pageID)
	i.metrics.observe("archive-page", start, err)
	return page, err
}
