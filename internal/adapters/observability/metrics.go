package observability

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	BookingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "booking", Name: "requests_total", Help: "Processed booking requests by outcome."},
		[]string{"outcome"},
	)
	CommitLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "booking", Name: "commit_duration_seconds",
			Help:    "Time spent processing one booking request.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)
	WorkerFaults = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "booking", Name: "worker_faults_total", Help: "Unexpected failures caught at the worker loop."},
	)
	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "booking", Name: "queue_depth", Help: "Requests waiting in the queue."},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "booking", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "booking", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "booking", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "status"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "booking", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

// Serve exposes the default registry on addr in the background. Empty addr disables it.
func Serve(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{}))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(BookingRequests, CommitLatency, WorkerFaults, QueueDepth,
		HTTPRequests, HTTPLatency, ExternalRequests, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveBooking(outcome string, dur time.Duration) {
	BookingRequests.WithLabelValues(outcome).Inc()
	CommitLatency.Observe(dur.Seconds())
}

func ObserveFault() { WorkerFaults.Inc() }

func SetQueueDepth(n int) { QueueDepth.Set(float64(n)) }

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service string, status int) {
	ExternalRequests.WithLabelValues(service, strconv.Itoa(status)).Inc()
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
