package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the HR notification server
type Metrics struct {
	// Scheduling metrics
	ContentScheduled      prometheus.Counter
	NotificationsSent     prometheus.Counter
	NotificationErrors    prometheus.Counter
	DispatcherTimersArmed prometheus.Gauge

	// Engagement metrics
	ViewsRecorded     prometheus.Counter
	ReactionsRecorded *prometheus.CounterVec
	FeedbackRecorded  prometheus.Counter
	ReactionConflicts prometheus.Counter

	// Delivery metrics
	FeedRequests     prometheus.Counter
	HeartbeatsTotal  prometheus.Counter
	PreferenceWrites prometheus.Counter
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

func init() {
	// Initialize DefaultMetrics on package import
	GetDefaultMetrics()
}

// NewMetrics creates a new Metrics instance with all counters and gauges
func NewMetrics() *Metrics {
	return &Metrics{
		ContentScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hr_notification_content_scheduled_total",
			Help: "Total number of broadcasts scheduled",
		}),
		NotificationsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hr_notification_notifications_sent_total",
			Help: "Total number of advance notifications written",
		}),
		NotificationErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hr_notification_notification_errors_total",
			Help: "Total number of failed notification writes",
		}),
		DispatcherTimersArmed: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hr_notification_dispatcher_timers_armed",
			Help: "Number of currently armed dispatcher timers",
		}),
		ViewsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hr_notification_views_recorded_total",
			Help: "Total number of view records accepted",
		}),
		ReactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hr_notification_reactions_recorded_total",
				Help: "Total number of reactions recorded",
			},
			[]string{"reaction"},
		),
		FeedbackRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hr_notification_feedback_recorded_total",
			Help: "Total number of feedback rows appended",
		}),
		ReactionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hr_notification_reaction_conflicts_total",
			Help: "Total number of reaction inserts retried as updates",
		}),
		FeedRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hr_notification_feed_requests_total",
			Help: "Total number of content feed requests served",
		}),
		HeartbeatsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hr_notification_heartbeats_total",
			Help: "Total number of device heartbeats received",
		}),
		PreferenceWrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hr_notification_preference_writes_total",
			Help: "Total number of delay preference upserts",
		}),
	}
}
