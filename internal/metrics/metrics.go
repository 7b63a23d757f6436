package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP metrics
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method"},
	)
)

// Domain metrics
var (
	courseSyncsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_syncs_total",
			Help: "Course tree synchronizations by outcome",
		},
		[]string{"outcome"},
	)

	courseSyncNodesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "course_sync_nodes_total",
			Help: "Modules and lessons touched by course synchronization",
		},
		[]string{"kind", "action"},
	)

	lessonProgressWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_progress_writes_total",
			Help: "Lesson progress writes by outcome",
		},
		[]string{"outcome"},
	)

	courseCompletionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "course_completions_total",
			Help: "Enrollments that reached 100 percent",
		},
	)

	quizSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Graded quiz submissions",
		},
		[]string{"passed"},
	)
)

var registry = newRegistry()

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestDurationSeconds,
		courseSyncsTotal,
		courseSyncNodesTotal,
		lessonProgressWritesTotal,
		courseCompletionsTotal,
		quizSubmissionsTotal,
	)
	return reg
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func ObserveHTTPRequest(route, method, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(route, method, status).Inc()
	httpRequestDurationSeconds.WithLabelValues(route, method).Observe(seconds)
}

func CourseSynced(outcome string) {
	courseSyncsTotal.WithLabelValues(outcome).Inc()
}

func SyncNodes(kind, action string, n int) {
	if n > 0 {
		courseSyncNodesTotal.WithLabelValues(kind, action).Add(float64(n))
	}
}

func ProgressWritten(outcome string) {
	lessonProgressWritesTotal.WithLabelValues(outcome).Inc()
}

func CourseCompleted() {
	courseCompletionsTotal.Inc()
}

func QuizSubmitted(passed bool) {
	label := "false"
	if passed {
		label = "true"
	}
	quizSubmissionsTotal.WithLabelValues(label).Inc()
}
