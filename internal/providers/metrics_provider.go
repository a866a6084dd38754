package providers

import (
	"mafiabot/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveStoreWrite(store string, duration time.Duration)
	IncMessagesEvaluated(verdict string)
	IncMessagesArchived(result string)
	AddMessagesPurged(channel string, count int)
	IncJobRuns(job string, result string)
	IncAvatarChanges(result string)
	SetPostsTotal(count int)
}

type MetricsProvider struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	storeWrite        *prometheus.HistogramVec
	messagesEvaluated *prometheus.CounterVec
	messagesArchived  *prometheus.CounterVec
	messagesPurged    *prometheus.CounterVec
	jobRuns           *prometheus.CounterVec
	avatarChanges     *prometheus.CounterVec
	postsTotal        prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveStoreWrite(store string, duration time.Duration) {
	m.storeWrite.WithLabelValues(store).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncMessagesEvaluated(verdict string) {
	m.messagesEvaluated.WithLabelValues(verdict).Inc()
}

func (m *MetricsProvider) IncMessagesArchived(result string) {
	m.messagesArchived.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) AddMessagesPurged(channel string, count int) {
	m.messagesPurged.WithLabelValues(channel).Add(float64(count))
}

func (m *MetricsProvider) IncJobRuns(job string, result string) {
	m.jobRuns.WithLabelValues(job, result).Inc()
}

func (m *MetricsProvider) IncAvatarChanges(result string) {
	m.avatarChanges.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) SetPostsTotal(count int) {
	m.postsTotal.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mafiabot_admin_requests_total",
			Help: "Total number of admin API requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mafiabot_admin_request_duration_seconds",
			Help:    "Admin API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mafiabot_event_cache_hits_total",
			Help: "Message events already seen by the dispatcher",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mafiabot_event_cache_misses_total",
			Help: "Message events seen for the first time",
		}),

		storeWrite: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mafiabot_store_write_duration_seconds",
			Help:    "Duration of whole-file store writes in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"store"}),

		messagesEvaluated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mafiabot_bouncer_messages_total",
			Help: "Messages evaluated by the bouncer, by verdict",
		}, []string{"verdict"}),

		messagesArchived: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mafiabot_archived_messages_total",
			Help: "Messages mirrored by the archiver, by result",
		}, []string{"result"}),

		messagesPurged: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mafiabot_purged_messages_total",
			Help: "Messages queued for bulk deletion by the purge engine",
		}, []string{"channel"}),

		jobRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mafiabot_job_runs_total",
			Help: "Scheduled job runs, by job and result",
		}, []string{"job", "result"}),

		avatarChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mafiabot_avatar_changes_total",
			Help: "Avatar change attempts, by result",
		}, []string{"result"}),

		postsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mafiabot_posts_total",
			Help: "Number of active posts",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveStoreWrite(_ string, _ time.Duration)      {}
func (n *noopMetrics) IncMessagesEvaluated(_ string)                    {}
func (n *noopMetrics) IncMessagesArchived(_ string)                     {}
func (n *noopMetrics) AddMessagesPurged(_ string, _ int)                {}
func (n *noopMetrics) IncJobRuns(_ string, _ string)                    {}
func (n *noopMetrics) IncAvatarChanges(_ string)                        {}
func (n *noopMetrics) SetPostsTotal(_ int)                              {}
