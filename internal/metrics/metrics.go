package metrics

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Metrics
var (
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "qms_login_attempts_total", Help: "Login attempts by result"},
		[]string{"result"},
	)
	FeedbackCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "qms_feedback_created_total", Help: "Feedback entries submitted"},
	)
	RecordsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "qms_records_created_total", Help: "Quality records created"},
	)
	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qms_search_results",
			Help:    "Number of records returned per search",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500},
		},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qms_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "route", "status"},
	)
)

var registerOnce sync.Once

// RegisterMetrics adds the collectors to the default registry. Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(LoginAttempts, FeedbackCreated, RecordsCreated, SearchResults, RequestDuration)
	})
}

// Serve exposes /_metrics on its own listener so it can stay off the public port.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/_metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("📊 Metrics exposed at http://localhost%s/_metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Warn("⚠️ Metrics server error")
		}
	}()

	return srv
}
