package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueriesTotal     *prometheus.CounterVec
	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge

	// Доменные метрики
	CancellationsTotal       *prometheus.CounterVec
	ReservationsCreatedTotal *prometheus.CounterVec
	SeriesRenewalsTotal      *prometheus.CounterVec
}

// New создает метрики и регистрирует их в DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики с указанным registerer (в тестах - отдельный registry)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}),
		CancellationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "consultorio_cancellations_total",
			Help:        "Cancellation outcomes by tag",
			ConstLabels: labels,
		}, []string{"outcome"}),
		ReservationsCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "consultorio_reservations_created_total",
			Help:        "Created reservation instances by kind",
			ConstLabels: labels,
		}, []string{"kind"}),
		SeriesRenewalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "consultorio_series_renewals_total",
			Help:        "Series renewal attempts by result",
			ConstLabels: labels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.CancellationsTotal,
		m.ReservationsCreatedTotal,
		m.SeriesRenewalsTotal,
	)

	return m
}

// RecordCancellation учитывает исход отмены (nil-safe)
func (m *Metrics) RecordCancellation(outcome string) {
	if m == nil {
		return
	}
	m.CancellationsTotal.WithLabelValues(outcome).Inc()
}

// RecordReservationsCreated учитывает созданные экземпляры бронирований (nil-safe)
func (m *Metrics) RecordReservationsCreated(kind string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.ReservationsCreatedTotal.WithLabelValues(kind).Add(float64(count))
}

// RecordSeriesRenewal учитывает результат продления серии (nil-safe)
func (m *Metrics) RecordSeriesRenewal(result string) {
	if m == nil {
		return
	}
	m.SeriesRenewalsTotal.WithLabelValues(result).Inc()
}
