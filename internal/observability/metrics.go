package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	paymentsRecordedTotal *prometheus.CounterVec
	paymentAmountTotal    prometheus.Counter
	loanRenewalsTotal     *prometheus.CounterVec
	ledgerConflictsTotal  *prometheus.CounterVec
	cacheRequestsTotal    *prometheus.CounterVec
	eventsPublishedTotal  *prometheus.CounterVec
	noticeStreamClients   prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		paymentsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_payments_recorded_total",
			Help: "Fee payments recorded, partitioned by payment method.",
		}, []string{"method"})

		paymentAmountTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_payment_amount_total",
			Help: "Sum of all recorded fee payment amounts.",
		})

		loanRenewalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_loan_renewals_total",
			Help: "Library renewal attempts, partitioned by outcome.",
		}, []string{"outcome"})

		ledgerConflictsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_ledger_conflicts_total",
			Help: "Optimistic concurrency conflicts detected while updating ledger records.",
		}, []string{"entity"})

		cacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_cache_requests_total",
			Help: "Cache lookups, partitioned by cache and result.",
		}, []string{"cache", "result"})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_events_published_total",
			Help: "Domain events delivered to local subscribers, partitioned by topic.",
		}, []string{"topic"})

		noticeStreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portal_notice_stream_clients",
			Help: "Number of websocket clients listening for notices.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			paymentsRecordedTotal,
			paymentAmountTotal,
			loanRenewalsTotal,
			ledgerConflictsTotal,
			cacheRequestsTotal,
			eventsPublishedTotal,
			noticeStreamClients,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// PaymentsRecorded counts payments per method.
func PaymentsRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return paymentsRecordedTotal
}

// PaymentAmount accumulates recorded payment amounts.
func PaymentAmount() prometheus.Counter {
	RegisterMetrics()
	return paymentAmountTotal
}

// LoanRenewals counts renewal attempts by outcome.
func LoanRenewals() *prometheus.CounterVec {
	RegisterMetrics()
	return loanRenewalsTotal
}

// LedgerConflicts counts version conflicts per entity.
func LedgerConflicts() *prometheus.CounterVec {
	RegisterMetrics()
	return ledgerConflictsTotal
}

// CacheRequests counts cache hits and misses.
func CacheRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return cacheRequestsTotal
}

// EventsPublished counts events fanned out to local subscribers.
func EventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}

// NoticeStreamClients tracks connected notice websocket clients.
func NoticeStreamClients() prometheus.Gauge {
	RegisterMetrics()
	return noticeStreamClients
}
