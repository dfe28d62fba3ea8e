package docqa

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	RequestCount   metrics.Counter
	RequestLatency metrics.Histogram
	ChunksIndexed  metrics.Counter
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RequestCount: kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "requests_total",
			Help:      "Number of requests received.",
		}, []string{"method", "error"}),
		RequestLatency: kitprometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "error"}),
		ChunksIndexed: kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "index",
			Name:      "chunks_total",
			Help:      "Number of chunks inserted into session indexes.",
		}, []string{}),
	}
}

func InstrumentingMiddleware(m *Metrics) ServiceMiddleware {
	return func(next Service) Service {
		return &instrumentingMiddleware{
			metrics: m,
			next:    next,
		}
	}
}

type instrumentingMiddleware struct {
	metrics *Metrics
	next    Service
}

func (mw *instrumentingMiddleware) observe(method string, begin time.Time, err error) {
	lvs := []string{"method", method, "error", boolLabel(err != nil)}

	mw.metrics.RequestCount.With(lvs...).Add(1)
	mw.metrics.RequestLatency.With(lvs...).Observe(time.Since(begin).Seconds())
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}

	return "false"
}

func (mw *instrumentingMiddleware) Close() error {
	return mw.next.Close()
}

func (mw *instrumentingMiddleware) AddDocument(ctx context.Context, sessionID string, content string, source string) (n int, err error) {
	defer func(begin time.Time) {
		mw.observe("add_document", begin, err)
		if err == nil {
			mw.metrics.ChunksIndexed.Add(float64(n))
		}
	}(time.Now())

	return mw.next.AddDocument(ctx, sessionID, content, source)
}

func (mw *instrumentingMiddleware) Ask(ctx context.Context, sessionID string, question string) (answer string, err error) {
	defer func(begin time.Time) {
		mw.observe("ask", begin, err)
	}(time.Now())

	return mw.next.Ask(ctx, sessionID, question)
}

func (mw *instrumentingMiddleware) GetDocuments(ctx context.Context, sessionID string) (docs []string, err error) {
	defer func(begin time.Time) {
		mw.observe("get_documents", begin, err)
	}(time.Now())

	return mw.next.GetDocuments(ctx, sessionID)
}

func (mw *instrumentingMiddleware) Summarize(ctx context.Context, text string, size SummarySize) (summary string, err error) {
	defer func(begin time.Time) {
		mw.observe("summarize", begin, err)
	}(time.Now())

	return mw.next.Summarize(ctx, text, size)
}

func (mw *instrumentingMiddleware) SummarizeSession(ctx context.Context, sessionID string, size SummarySize) (summary string, err error) {
	defer func(begin time.Time) {
		mw.observe("summarize_session", begin, err)
	}(time.Now())

	return mw.next.SummarizeSession(ctx, sessionID, size)
}

func (mw *instrumentingMiddleware) History(ctx context.Context, sessionID string) (history []Exchange, err error) {
	defer func(begin time.Time) {
		mw.observe("history", begin, err)
	}(time.Now())

	return mw.next.History(ctx, sessionID)
}

func (mw *instrumentingMiddleware) ClearSession(ctx context.Context, sessionID string) (err error) {
	defer func(begin time.Time) {
		mw.observe("clear_session", begin, err)
	}(time.Now())

	return mw.next.ClearSession(ctx, sessionID)
}

func (mw *instrumentingMiddleware) HasSession(ctx context.Context, sessionID string) bool {
	defer func(begin time.Time) {
		mw.observe("has_session", begin, nil)
	}(time.Now())

	return mw.next.HasSession(ctx, sessionID)
}
